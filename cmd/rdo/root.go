package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-rdo-report/internal/config"
	"github.com/a3tai/mcp-rdo-report/internal/logging"
	"github.com/a3tai/mcp-rdo-report/internal/rdo"
)

var version = "dev" // This will be set by build flags

// app carries the state shared by every subcommand once the root command has
// resolved the configuration
type app struct {
	cfg     *config.Config
	jsonOut bool
	logger  *zap.Logger
	service *rdo.Service
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.DefaultConfig()}
	a.cfg.LogLevel = "warn"

	root := &cobra.Command{
		Use:   "rdo",
		Short: "Build RDO (Relatório Diário de Obras) daily reports",
		Long: `rdo manages RDO daily-report documents stored as YAML in a work directory.

Typical monthly cycle:
  rdo init marco.yaml --date 2024-03-01 --number 1-A --fill-month
  rdo import marco.yaml efetivo_marco.csv
  rdo copy-weekend marco.yaml --all
  rdo render marco.yaml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	config.RegisterFlags(root.PersistentFlags(), a.cfg)
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Print results as JSON")

	root.AddCommand(
		a.initCmd(),
		a.importCmd(),
		a.clearCmd(),
		a.copyWeekendCmd(),
		a.adjustMonthCmd(),
		a.renderCmd(),
		a.inspectCmd(),
		a.exportCmd(),
		a.infoCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger and the report service
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags(), a.cfg)
	if err != nil {
		return err
	}
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	service, err := rdo.NewService(rdo.Options{
		WorkDirectory:  cfg.WorkDirectory,
		MaxFileSize:    cfg.MaxFileSize,
		RosterTemplate: cfg.RosterTemplate,
		LogoLeft:       cfg.LogoLeft,
		LogoRight:      cfg.LogoRight,
		ServerName:     cfg.ServerName,
		Version:        cfg.Version,
	}, logger.Named("rdo"))
	if err != nil {
		return err
	}

	a.cfg, a.logger, a.service = cfg, logger, service
	return nil
}

// print writes v as indented JSON when --json is set, otherwise the text
func (a *app) print(cmd *cobra.Command, v any, text string) error {
	out := cmd.OutOrStdout()
	if !a.jsonOut {
		_, err := fmt.Fprintln(out, text)
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

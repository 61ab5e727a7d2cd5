package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-rdo-report/internal/config"
	"github.com/a3tai/mcp-rdo-report/internal/logging"
	"github.com/a3tai/mcp-rdo-report/internal/mcp"
	"github.com/a3tai/mcp-rdo-report/internal/rdo"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// logLevel picks the effective log level for the mode. In stdio mode the client
// owns the session, so routine info logs are dropped unless debug is requested.
func logLevel(cfg *config.Config) string {
	if cfg.IsStdioMode() && cfg.LogLevel == "info" {
		return "warn"
	}
	return cfg.LogLevel
}

// setupLogging configures logging based on the server mode
func setupLogging(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(logLevel(cfg), cfg.LogFormat)
}

// serviceOptions maps the configuration onto the report service
func serviceOptions(cfg *config.Config) rdo.Options {
	return rdo.Options{
		WorkDirectory:  cfg.WorkDirectory,
		MaxFileSize:    cfg.MaxFileSize,
		RosterTemplate: cfg.RosterTemplate,
		LogoLeft:       cfg.LogoLeft,
		LogoRight:      cfg.LogoRight,
		ServerName:     cfg.ServerName,
		Version:        cfg.Version,
	}
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, logger *zap.Logger) int {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		logger.Info("received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
		cancel()

		if err := <-serverErrCh; err != nil {
			logger.Error("server shutdown with error", zap.Error(err))
			return 1
		}

	case err := <-serverErrCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return 1
		}
	}

	logger.Info("server stopped successfully")
	return 0
}

// runStdioMode handles stdio mode execution. The parent process controls the
// lifecycle; the server returns when stdin is closed.
func runStdioMode(ctx context.Context, server *mcp.Server, logger *zap.Logger) int {
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}

func run() int {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return 0
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("starting with configuration", zap.String("config", cfg.String()))

	rdoService, err := rdo.NewService(serviceOptions(cfg), logger.Named("rdo"))
	if err != nil {
		logger.Error("failed to create report service", zap.Error(err))
		return 1
	}

	server, err := mcp.NewServer(cfg, rdoService, logger.Named("mcp"))
	if err != nil {
		logger.Error("failed to create MCP server", zap.Error(err))
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		return runServerMode(ctx, cancel, server, logger)
	}
	return runStdioMode(ctx, server, logger)
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("MCP RDO Report\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}

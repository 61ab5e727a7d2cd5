package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	DefaultMaxFileSize = 50 * 1024 * 1024 // 50MB

	// EnvPrefix prefixes every environment variable, e.g. RDO_WORK_DIR
	EnvPrefix = "RDO"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Flag and viper keys
const (
	keyMode           = "mode"
	keyHost           = "host"
	keyPort           = "port"
	keyWorkDir        = "work-dir"
	keyLogLevel       = "log-level"
	keyLogFormat      = "log-format"
	keyMaxFileSize    = "max-file-size"
	keyRosterTemplate = "roster-template"
	keyLogoLeft       = "logo-left"
	keyLogoRight      = "logo-right"
)

// Config holds all configuration for the RDO MCP server and CLI
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// WorkDirectory is the sandbox for every document, attendance file and report
	WorkDirectory string

	// Report configuration
	RosterTemplate string // optional YAML roster template
	LogoLeft       string
	LogoRight      string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	LogFormat   string // "console" or "json"
	MaxFileSize int64  // Maximum input file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:          ModeStdio, // Default to stdio mode for MCP compatibility
		Host:          DefaultHost,
		Port:          DefaultPort,
		WorkDirectory: currentDir,
		Version:       "1.0.0",
		ServerName:    "mcp-rdo-report",
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		MaxFileSize:   DefaultMaxFileSize,
	}
}

// LoadFromFlags parses the process command line and environment
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	RegisterFlags(pflag.CommandLine, cfg)
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	return Load(pflag.CommandLine, cfg)
}

// RegisterFlags defines the configuration flags on fs with defaults from cfg
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String(keyMode, cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	fs.String(keyHost, cfg.Host, "Server host address (server mode only)")
	fs.Int(keyPort, cfg.Port, "Server port (server mode only)")
	fs.String(keyWorkDir, cfg.WorkDirectory, "Work directory holding report documents, attendance files and PDFs")
	fs.String(keyLogLevel, cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.String(keyLogFormat, cfg.LogFormat, "Log format (console, json)")
	fs.Int64(keyMaxFileSize, cfg.MaxFileSize, "Maximum input file size in bytes")
	fs.String(keyRosterTemplate, cfg.RosterTemplate, "YAML roster template used for new documents")
	fs.String(keyLogoLeft, cfg.LogoLeft, "Image printed at the left of every page header")
	fs.String(keyLogoRight, cfg.LogoRight, "Image printed at the right of every page header")
}

// Load resolves the configuration from the parsed flags in fs, then RDO_*
// environment variables, then the defaults in cfg
func Load(fs *pflag.FlagSet, cfg *Config) (*Config, error) {
	v := viper.New()
	setupViperEnvironment(v, cfg)
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	populateConfigFromViper(v, cfg)

	// Expand paths if needed
	if cfg.WorkDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.WorkDirectory); err == nil {
			cfg.WorkDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyMode, cfg.Mode)
	v.SetDefault(keyHost, cfg.Host)
	v.SetDefault(keyPort, cfg.Port)
	v.SetDefault(keyWorkDir, cfg.WorkDirectory)
	v.SetDefault(keyLogLevel, cfg.LogLevel)
	v.SetDefault(keyLogFormat, cfg.LogFormat)
	v.SetDefault(keyMaxFileSize, cfg.MaxFileSize)
	v.SetDefault(keyRosterTemplate, cfg.RosterTemplate)
	v.SetDefault(keyLogoLeft, cfg.LogoLeft)
	v.SetDefault(keyLogoRight, cfg.LogoRight)
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP RDO Report - A Model Context Protocol server for construction daily reports\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --work-dir=/srv/rdo              # stdio mode with custom work directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --log-level=debug --log-format=json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  RDO_MODE             Server mode\n")
		fmt.Fprintf(os.Stderr, "  RDO_HOST             Server host\n")
		fmt.Fprintf(os.Stderr, "  RDO_PORT             Server port\n")
		fmt.Fprintf(os.Stderr, "  RDO_WORK_DIR         Work directory\n")
		fmt.Fprintf(os.Stderr, "  RDO_LOG_LEVEL        Log level\n")
		fmt.Fprintf(os.Stderr, "  RDO_LOG_FORMAT       Log format\n")
		fmt.Fprintf(os.Stderr, "  RDO_MAX_FILE_SIZE    Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  RDO_ROSTER_TEMPLATE  Roster template\n")
		fmt.Fprintf(os.Stderr, "  RDO_LOGO_LEFT        Left header logo\n")
		fmt.Fprintf(os.Stderr, "  RDO_LOGO_RIGHT       Right header logo\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString(keyMode)
	cfg.Host = v.GetString(keyHost)
	cfg.Port = v.GetInt(keyPort)
	cfg.WorkDirectory = v.GetString(keyWorkDir)
	cfg.LogLevel = v.GetString(keyLogLevel)
	cfg.LogFormat = v.GetString(keyLogFormat)
	cfg.MaxFileSize = v.GetInt64(keyMaxFileSize)
	cfg.RosterTemplate = v.GetString(keyRosterTemplate)
	cfg.LogoLeft = v.GetString(keyLogoLeft)
	cfg.LogoRight = v.GetString(keyLogoRight)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.WorkDirectory == "" {
		return errors.New("work directory cannot be empty")
	}

	// Check if the work directory exists, create if it doesn't
	if info, err := os.Stat(c.WorkDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.WorkDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create work directory %s: %w", c.WorkDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access work directory %s: %w", c.WorkDirectory, err)
	} else if !info.IsDir() {
		return fmt.Errorf("work directory %s is not a directory", c.WorkDirectory)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.LogFormat)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, WorkDirectory: %s, LogLevel: %s, LogFormat: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.WorkDirectory, c.LogLevel, c.LogFormat, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/a3tai/mcp-rdo-report/internal/config"
)

const testVersion = "1.2.3"

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = originalStdout }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
		w.Close()
	}()

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	<-done
	return buf.String()
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	version = testVersion
	buildTime = "2023-12-01_10:30:00"
	gitCommit = "abc123"
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	output := captureStdout(t, printVersion)

	for _, expected := range []string{
		"MCP RDO Report",
		"Version: " + testVersion,
		"Build Time: 2023-12-01_10:30:00",
		"Git Commit: abc123",
		"Built with:",
	} {
		assert.Contains(t, output, expected)
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		level    string
		expected string
	}{
		{"stdio quiets info", "stdio", "info", "warn"},
		{"stdio keeps debug", "stdio", "debug", "debug"},
		{"stdio keeps error", "stdio", "error", "error"},
		{"server keeps info", "server", "info", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Mode = tt.mode
			cfg.LogLevel = tt.level
			assert.Equal(t, tt.expected, logLevel(cfg))
		})
	}
}

func TestSetupLogging(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFormat = "json"

	logger, err := setupLogging(cfg)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	cfg.LogFormat = "xml"
	_, err = setupLogging(cfg)
	assert.Error(t, err)
}

func TestServiceOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.WorkDirectory = "/srv/obras"
	cfg.RosterTemplate = "efetivo.yaml"
	cfg.LogoLeft = "logo.png"
	cfg.Version = testVersion

	opts := serviceOptions(cfg)
	assert.Equal(t, "/srv/obras", opts.WorkDirectory)
	assert.Equal(t, "efetivo.yaml", opts.RosterTemplate)
	assert.Equal(t, "logo.png", opts.LogoLeft)
	assert.Equal(t, cfg.MaxFileSize, opts.MaxFileSize)
	assert.Equal(t, testVersion, opts.Version)
}

func TestRun_VersionFlag(t *testing.T) {
	originalArgs := os.Args
	os.Args = []string{"mcp-rdo-report", "--version"}
	defer func() { os.Args = originalArgs }()

	var code int
	output := captureStdout(t, func() { code = run() })
	assert.Equal(t, 0, code)
	assert.Contains(t, output, "MCP RDO Report")
}

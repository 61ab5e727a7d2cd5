package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-rdo-report/internal/config"
	"github.com/a3tai/mcp-rdo-report/internal/rdo"
	"github.com/a3tai/mcp-rdo-report/internal/report"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Mode:          "stdio",
		Host:          "127.0.0.1",
		WorkDirectory: dir,
		Version:       "1.0.0",
		ServerName:    "test-server",
		LogLevel:      "info",
		LogFormat:     "console",
		MaxFileSize:   10 * 1024 * 1024,
	}
	svc, err := rdo.NewService(rdo.Options{
		WorkDirectory: cfg.WorkDirectory,
		MaxFileSize:   cfg.MaxFileSize,
		ServerName:    cfg.ServerName,
		Version:       cfg.Version,
	}, nil)
	require.NoError(t, err)

	s, err := NewServer(cfg, svc, nil)
	require.NoError(t, err)
	return s, svc.WorkDirectory()
}

func call(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}
	return ""
}

func newDocument(t *testing.T, s *Server, days int) {
	t.Helper()
	result, err := s.handleNewDocument(context.Background(), call(map[string]interface{}{
		"output":       "marco.yaml",
		"first_date":   "2024-03-09",
		"first_number": "12-A",
		"contractor":   "Construtora Exemplo",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	if days > 1 {
		path := filepath.Join(s.rdoService.WorkDirectory(), "marco.yaml")
		doc, err := report.Load(path)
		require.NoError(t, err)
		for i := 1; i < days; i++ {
			doc = report.AddDay(doc)
		}
		require.NoError(t, report.Save(path, doc))
	}
}

func TestNewServer(t *testing.T) {
	s, _ := newTestServer(t)
	assert.NotNil(t, s.mcpServer)
	assert.NotNil(t, s.logger)

	_, err := NewServer(config.DefaultConfig(), nil, nil)
	assert.Error(t, err)
}

func TestServer_HandleNewDocument(t *testing.T) {
	s, dir := newTestServer(t)

	result, err := s.handleNewDocument(context.Background(), call(map[string]interface{}{
		"output":     "abril.yaml",
		"first_date": "2024-04-01",
		"fill_month": true,
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "30 day(s)")

	_, err = os.Stat(filepath.Join(dir, "abril.yaml"))
	assert.NoError(t, err)

	result, err = s.handleNewDocument(context.Background(), call(map[string]interface{}{"output": "x.yaml"}))
	require.NoError(t, err)
	assert.True(t, result.IsError, "first_date is required")
}

func TestServer_HandleImportAttendance(t *testing.T) {
	s, dir := newTestServer(t)
	newDocument(t, s, 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "efetivo.csv"),
		[]byte("Data,Função\n10/03/2024,ENC. GERAL\n10/03/2024,Encarregado Geral\n10/03/2024,Astronauta\n"), 0o644))

	result, err := s.handleImportAttendance(context.Background(), call(map[string]interface{}{
		"document": "marco.yaml",
		"source":   "efetivo.csv",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	text := extractTextFromResult(result)
	assert.Contains(t, text, "Efetivo carregado. 2 atribuição(ões)")
	assert.Contains(t, text, "Astronauta")
	assert.Contains(t, text, "Assignments: 2")
	assert.Contains(t, text, "Days without attendance: 09/03/2024")

	result, err = s.handleImportAttendance(context.Background(), call(map[string]interface{}{"document": "marco.yaml"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_HandleImportAttendanceNoMatchingDates(t *testing.T) {
	s, dir := newTestServer(t)
	newDocument(t, s, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abril.csv"), []byte("Data;Cargo\n01/04/2024;Pedreiro\n"), 0o644))

	result, err := s.handleImportAttendance(context.Background(), call(map[string]interface{}{
		"document": "marco.yaml",
		"source":   "abril.csv",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "Nenhuma data do arquivo correspondeu")
}

func TestServer_HandleClearAttendance(t *testing.T) {
	s, _ := newTestServer(t)
	newDocument(t, s, 1)

	result, err := s.handleClearAttendance(context.Background(), call(map[string]interface{}{"document": "marco.yaml"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "Fields cleared: 0")
}

func TestServer_HandleCopyPreviousDay(t *testing.T) {
	s, _ := newTestServer(t)
	newDocument(t, s, 2)

	result, err := s.handleCopyPreviousDay(context.Background(), call(map[string]interface{}{
		"document": "marco.yaml",
		"day":      float64(1),
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError, extractTextFromResult(result))
	assert.Contains(t, extractTextFromResult(result), "Efetivo do sábado copiado com sucesso!")

	result, err = s.handleCopyPreviousDay(context.Background(), call(map[string]interface{}{
		"document": "marco.yaml",
		"day":      float64(0),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError, "Saturday is not a valid target")

	result, err = s.handleCopyPreviousDay(context.Background(), call(map[string]interface{}{
		"document": "marco.yaml",
		"day":      1.5,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_HandleAdjustMonth(t *testing.T) {
	s, _ := newTestServer(t)
	newDocument(t, s, 1)

	result, err := s.handleAdjustMonth(context.Background(), call(map[string]interface{}{
		"document": "marco.yaml",
		"date":     "2024-02-01",
	}))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "from 1 to 29 day(s)")
}

func TestServer_HandleRenderAndInspect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping PDF rendering in short mode")
	}
	s, _ := newTestServer(t)
	newDocument(t, s, 1)

	result, err := s.handleRenderPDF(context.Background(), call(map[string]interface{}{"document": "marco.yaml"}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))
	assert.Contains(t, extractTextFromResult(result), "Pages: 3")

	result, err = s.handleInspectPDF(context.Background(), call(map[string]interface{}{
		"path":         "RDO_12_2024-03-09.pdf",
		"include_text": true,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))
	text := extractTextFromResult(result)
	assert.Contains(t, text, "Complete: true")
	assert.Contains(t, text, "--- Page 3 ---")
}

func TestServer_HandleInspectRejectsOutsidePath(t *testing.T) {
	s, _ := newTestServer(t)

	result, err := s.handleInspectPDF(context.Background(), call(map[string]interface{}{"path": "/etc/hosts.pdf"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "security validation failed")
}

func TestServer_HandleExportRoster(t *testing.T) {
	s, dir := newTestServer(t)
	newDocument(t, s, 1)

	result, err := s.handleExportRoster(context.Background(), call(map[string]interface{}{
		"document": "marco.yaml",
		"output":   "planilhas/efetivo.xlsx",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	_, err = os.Stat(filepath.Join(dir, "planilhas", "efetivo.xlsx"))
	assert.NoError(t, err)
}

func TestServer_HandleServerInfo(t *testing.T) {
	s, _ := newTestServer(t)
	newDocument(t, s, 1)

	result, err := s.handleServerInfo(context.Background(), call(nil))
	require.NoError(t, err)

	text := extractTextFromResult(result)
	assert.Contains(t, text, "test-server v1.0.0")
	assert.Contains(t, text, "marco.yaml")
	assert.Contains(t, text, "Attendance files: none")
	for _, tool := range []string{"rdo_import_attendance", "rdo_render_pdf", "rdo_server_info"} {
		assert.Contains(t, text, tool)
	}
}

func TestArgumentHelpers(t *testing.T) {
	req := call(map[string]interface{}{
		"name":  "  marco.yaml ",
		"flag":  true,
		"text":  "true",
		"day":   float64(3),
		"wrong": "three",
	})

	assert.Equal(t, "marco.yaml", stringArg(req, "name"))
	assert.Equal(t, "", stringArg(req, "missing"))
	assert.True(t, boolArg(req, "flag"))
	assert.True(t, boolArg(req, "text"))
	assert.False(t, boolArg(req, "missing"))

	day, err := intArg(req, "day")
	require.NoError(t, err)
	assert.Equal(t, 3, *day)

	missing, err := intArg(req, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = intArg(req, "wrong")
	assert.Error(t, err)
}

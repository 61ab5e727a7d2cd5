package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-rdo-report/internal/config"
	"github.com/a3tai/mcp-rdo-report/internal/descriptions"
	"github.com/a3tai/mcp-rdo-report/internal/rdo"
	"github.com/a3tai/mcp-rdo-report/internal/render"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	rdoService *rdo.Service
	mcpServer  *server.MCPServer
	logger     *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, rdoService *rdo.Service, logger *zap.Logger) (*Server, error) {
	if rdoService == nil {
		return nil, fmt.Errorf("rdoService cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		rdoService: rdoService,
		mcpServer:  mcpServer,
		logger:     logger,
	}

	s.registerTools()

	return s, nil
}

func documentArg() mcp.ToolOption {
	return mcp.WithString("document",
		mcp.Required(),
		mcp.Description("Report document (YAML) relative to the work directory"),
	)
}

func outputArg(what string) mcp.ToolOption {
	return mcp.WithString("output",
		mcp.Description(what),
	)
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"rdo_new_document",
		mcp.WithDescription(descriptions.GetToolDescription("rdo_new_document")),
		mcp.WithString("output", mcp.Required(), mcp.Description("Document file to create, e.g. marco.yaml")),
		mcp.WithString("first_date", mcp.Required(), mcp.Description("Date of the first day (YYYY-MM-DD)")),
		mcp.WithString("first_number", mcp.Description("RDO number of the first day, e.g. 12-A (default 1-A)")),
		mcp.WithString("contractor", mcp.Description("Contractor name")),
		mcp.WithString("contract_number", mcp.Description("Contract number")),
		mcp.WithString("start_date", mcp.Description("Contract start date (DD/MM/YYYY)")),
		mcp.WithString("deadline", mcp.Description("Contract deadline (DD/MM/YYYY)")),
		mcp.WithBoolean("fill_month", mcp.Description("Create one day per calendar day of the first date's month")),
		mcp.WithBoolean("overwrite", mcp.Description("Replace an existing document")),
	), s.handleNewDocument)

	s.mcpServer.AddTool(mcp.NewTool(
		"rdo_import_attendance",
		mcp.WithDescription(descriptions.GetToolDescription("rdo_import_attendance")),
		documentArg(),
		mcp.WithString("source", mcp.Required(), mcp.Description("Attendance file (CSV, XLSX or XLS) relative to the work directory")),
		outputArg("Where to save the updated document (default: in place)"),
	), s.handleImportAttendance)

	s.mcpServer.AddTool(mcp.NewTool(
		"rdo_clear_attendance",
		mcp.WithDescription(descriptions.GetToolDescription("rdo_clear_attendance")),
		documentArg(),
		outputArg("Where to save the updated document (default: in place)"),
	), s.handleClearAttendance)

	s.mcpServer.AddTool(mcp.NewTool(
		"rdo_copy_previous_day",
		mcp.WithDescription(descriptions.GetToolDescription("rdo_copy_previous_day")),
		documentArg(),
		mcp.WithString("date", mcp.Description("Sunday to copy onto (YYYY-MM-DD)")),
		mcp.WithNumber("day", mcp.Description("Zero-based index of the Sunday to copy onto")),
		mcp.WithBoolean("all_sundays", mcp.Description("Copy onto every Sunday of the report")),
		outputArg("Where to save the updated document (default: in place)"),
	), s.handleCopyPreviousDay)

	s.mcpServer.AddTool(mcp.NewTool(
		"rdo_adjust_month",
		mcp.WithDescription(descriptions.GetToolDescription("rdo_adjust_month")),
		documentArg(),
		mcp.WithString("date", mcp.Description("Date of the first day (YYYY-MM-DD); defaults to the current first day")),
		outputArg("Where to save the updated document (default: in place)"),
	), s.handleAdjustMonth)

	s.mcpServer.AddTool(mcp.NewTool(
		"rdo_render_pdf",
		mcp.WithDescription(descriptions.GetToolDescription("rdo_render_pdf")),
		documentArg(),
		outputArg("PDF file to write (default: RDO_<number>_<date>.pdf next to the document)"),
	), s.handleRenderPDF)

	s.mcpServer.AddTool(mcp.NewTool(
		"rdo_inspect_pdf",
		mcp.WithDescription(descriptions.GetToolDescription("rdo_inspect_pdf")),
		mcp.WithString("path", mcp.Required(), mcp.Description("PDF file relative to the work directory")),
		mcp.WithBoolean("include_text", mcp.Description("Return the text of every page")),
	), s.handleInspectPDF)

	s.mcpServer.AddTool(mcp.NewTool(
		"rdo_export_roster",
		mcp.WithDescription(descriptions.GetToolDescription("rdo_export_roster")),
		documentArg(),
		outputArg("Workbook to write (default: Efetivo_<date>.xlsx next to the document)"),
	), s.handleExportRoster)

	s.mcpServer.AddTool(mcp.NewTool(
		"rdo_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("rdo_server_info")),
	), s.handleServerInfo)
}

// Argument helpers for optional parameters

func stringArg(request mcp.CallToolRequest, key string) string {
	if v, ok := request.GetArguments()[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func boolArg(request mcp.CallToolRequest, key string) bool {
	switch v := request.GetArguments()[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

func intArg(request mcp.CallToolRequest, key string) (*int, error) {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return nil, fmt.Errorf("%s must be a whole number", key)
		}
		n := int(v)
		return &n, nil
	case int:
		return &v, nil
	}
	return nil, fmt.Errorf("%s must be a number", key)
}

// Handler functions
func (s *Server) handleNewDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	output, err := request.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	firstDate, err := request.RequireString("first_date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.rdoService.CreateDocument(rdo.CreateDocumentRequest{
		Output:         output,
		FirstDate:      firstDate,
		FirstNumber:    stringArg(request, "first_number"),
		Contractor:     stringArg(request, "contractor"),
		ContractNumber: stringArg(request, "contract_number"),
		StartDate:      stringArg(request, "start_date"),
		Deadline:       stringArg(request, "deadline"),
		FillMonth:      boolArg(request, "fill_month"),
		Overwrite:      boolArg(request, "overwrite"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created report %s with %d day(s)", result.Document, result.Days)), nil
}

func (s *Server) handleImportAttendance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	document, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.rdoService.ImportAttendance(ctx, rdo.ImportAttendanceRequest{
		Document: document,
		Source:   source,
		Output:   stringArg(request, "output"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := formatImportResult(result)
	if result.Status.IsError() {
		return mcp.NewToolResultError(text), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleClearAttendance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	document, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.rdoService.ClearAttendance(rdo.ClearAttendanceRequest{
		Document: document,
		Output:   stringArg(request, "output"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("%s\nDocument: %s\nFields cleared: %d", result.Status.Message, result.Document, result.Changes)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleCopyPreviousDay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	document, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	day, err := intArg(request, "day")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.rdoService.CopyPreviousDay(rdo.CopyPreviousDayRequest{
		Document:   document,
		Output:     stringArg(request, "output"),
		Day:        day,
		Date:       stringArg(request, "date"),
		AllSundays: boolArg(request, "all_sundays"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := formatCopyResult(result)
	if result.Applied == 0 {
		return mcp.NewToolResultError(text), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleAdjustMonth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	document, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.rdoService.AdjustMonth(rdo.AdjustMonthRequest{
		Document: document,
		Output:   stringArg(request, "output"),
		Date:     stringArg(request, "date"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var text string
	if result.Changed {
		text = fmt.Sprintf("Report resized from %d to %d day(s): %s", result.Before, result.Days, result.Document)
	} else {
		text = fmt.Sprintf("Report already has %d day(s): %s", result.Days, result.Document)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleRenderPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	document, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.rdoService.RenderPDF(ctx, rdo.RenderRequest{
		Document: document,
		Output:   stringArg(request, "output"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRenderResult(result)), nil
}

func (s *Server) handleInspectPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.rdoService.InspectPDF(rdo.InspectRequest{
		Path:        path,
		IncludeText: boolArg(request, "include_text"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatInspection(result)), nil
}

func (s *Server) handleExportRoster(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	document, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.rdoService.ExportRoster(ctx, rdo.ExportRosterRequest{
		Document: document,
		Output:   stringArg(request, "output"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Roster workbook written: %s\nDays: %d\nSize: %d bytes", result.Path, result.Days, result.Size)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.rdoService.ServerInfo()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatServerInfo(result)), nil
}

// Formatting methods
func formatImportResult(result *rdo.ImportAttendanceResult) string {
	res := result.Reconciliation
	text := result.Status.String() + "\n\n"
	text += fmt.Sprintf("Document: %s\n", result.Document)
	text += fmt.Sprintf("Source: %s\n", result.Source)
	if result.Delimiter != "" {
		text += fmt.Sprintf("Delimiter: %q\n", result.Delimiter)
	}
	text += fmt.Sprintf("Records: %d\n", res.Records)
	text += fmt.Sprintf("Assignments: %d\n", res.TotalAssignments)
	text += fmt.Sprintf("Days updated: %d\n", res.DaysUpdated)

	if len(result.Skipped) > 0 {
		text += fmt.Sprintf("\nSkipped rows (%d):\n", len(result.Skipped))
		for _, w := range result.Skipped {
			text += fmt.Sprintf("  line %d: %s\n", w.Line, w.Message)
		}
	}
	if len(res.InvalidRecords) > 0 {
		text += fmt.Sprintf("\nInvalid records (%d):\n", len(res.InvalidRecords))
		for _, rec := range res.InvalidRecords {
			text += fmt.Sprintf("  line %d: %q / %q\n", rec.Line, rec.RawDate, rec.RawLabel)
		}
	}
	if len(result.MissingDays) > 0 {
		text += fmt.Sprintf("\nDays without attendance: %s\n", strings.Join(result.MissingDays, ", "))
	}
	return text
}

func formatCopyResult(result *rdo.CopyPreviousDayResult) string {
	if len(result.Copies) == 0 {
		return "No Sunday found in the report"
	}

	text := fmt.Sprintf("Copies applied: %d of %d\n", result.Applied, len(result.Copies))
	for i, res := range result.Copies {
		text += fmt.Sprintf("\nDay %d: %s", res.TargetIndex+1, result.Statuses[i].Message)
		if res.Copied > 0 {
			text += fmt.Sprintf(" (%d line(s))", res.Copied)
		}
		if res.Err != nil {
			text += "\n  " + res.Err.Error()
		}
	}
	if result.Applied > 0 {
		text += fmt.Sprintf("\n\nDocument: %s", result.Document)
	}
	return text
}

func formatRenderResult(result *rdo.RenderResult) string {
	text := fmt.Sprintf("PDF written: %s\n", result.Path)
	text += fmt.Sprintf("Days: %d\n", result.Days)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Images drawn: %d\n", result.ImagesDrawn)
	if result.ImagesFailed > 0 {
		text += fmt.Sprintf("Images failed: %d\n", result.ImagesFailed)
	}
	if len(result.Problems) > 0 {
		text += fmt.Sprintf("\n⚠️  Problems (%d):\n", len(result.Problems))
		for _, p := range result.Problems {
			text += fmt.Sprintf("  • day %d: %s\n", p.DayIndex+1, p.Error())
		}
	}
	return text
}

func formatInspection(result *render.Inspection) string {
	text := fmt.Sprintf("PDF: %s\n", result.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Days: %d\n", result.Days)
	text += fmt.Sprintf("Complete: %t\n", result.Complete)
	text += fmt.Sprintf("Pages with text: %d\n", result.TextPages)
	for i, page := range result.PageTexts {
		text += fmt.Sprintf("\n--- Page %d ---\n%s\n", i+1, page)
	}
	return text
}

func formatServerInfo(result *rdo.ServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Work Directory: %s\n", result.WorkDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("📑 Attendance Format: %s\n", result.AttendanceFormat)

	text += listing("📂 Report documents", result.Documents)
	text += listing("👷 Attendance files", result.AttendanceFiles)
	text += listing("🖨️  Rendered reports", result.Reports)

	text += "\n🛠️  Available Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		summary, _, _ := strings.Cut(descriptions.GetToolDescription(name), "\n")
		text += fmt.Sprintf("  • %s: %s\n", name, summary)
	}
	return text
}

func listing(title string, files []string) string {
	if len(files) == 0 {
		return fmt.Sprintf("\n%s: none\n", title)
	}
	text := fmt.Sprintf("\n%s (%d):\n", title, len(files))
	for i, f := range files {
		if i >= 20 { // Limit long listings for readability
			text += fmt.Sprintf("   ... and %d more\n", len(files)-20)
			break
		}
		text += fmt.Sprintf("   %d. %s\n", i+1, f)
	}
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode serves MCP over stdin/stdout until ctx is done or stdin closes
func (s *Server) runStdioMode(ctx context.Context) error {
	s.logger.Info("starting MCP server in stdio mode", zap.String("work_directory", s.rdoService.WorkDirectory()))

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over HTTP with server-sent events until ctx is done
func (s *Server) runServerMode(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address(), err)
	}

	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+ln.Addr().String()))
	srv := &http.Server{
		Handler:           sse,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting MCP server in server mode",
		zap.String("address", ln.Addr().String()),
		zap.String("work_directory", s.rdoService.WorkDirectory()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

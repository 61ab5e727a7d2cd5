// Package rdo is the application layer shared by the MCP server and the CLI: it
// resolves every path inside the work directory, loads the report document, runs
// one engine operation and writes the results back.
package rdo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-rdo-report/internal/attendance"
	"github.com/a3tai/mcp-rdo-report/internal/export"
	rdoerrors "github.com/a3tai/mcp-rdo-report/internal/rdo/errors"
	"github.com/a3tai/mcp-rdo-report/internal/rdo/security"
	"github.com/a3tai/mcp-rdo-report/internal/render"
	"github.com/a3tai/mcp-rdo-report/internal/report"
)

// AttendanceFormat documents the accepted attendance layout
const AttendanceFormat = "two columns with headers Data (DD/MM/YYYY) and Função or Cargo; " +
	"CSV separated by ',' or ';', XLSX or XLS"

// Options configure a Service
type Options struct {
	WorkDirectory  string
	MaxFileSize    int64
	RosterTemplate string // optional YAML roster template
	LogoLeft       string
	LogoRight      string
	ServerName     string
	Version        string
}

// Service runs report operations against documents in the work directory
type Service struct {
	opts      Options
	sandbox   *security.Sandbox
	template  []report.RosterLineItem
	renderer  *render.Renderer
	inspector *render.Inspector
	exporter  *export.Exporter
	logger    *zap.Logger
}

// NewService creates a service rooted at opts.WorkDirectory
func NewService(opts Options, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sandbox, err := security.NewSandbox(opts.WorkDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory sandbox: %w", err)
	}

	s := &Service{
		opts:      opts,
		sandbox:   sandbox,
		inspector: render.NewInspector(opts.MaxFileSize),
		exporter:  export.NewExporter(logger.Named("export")),
		logger:    logger,
	}

	if opts.RosterTemplate != "" {
		path, err := sandbox.ResolveFile(opts.RosterTemplate)
		if err != nil {
			return nil, fmt.Errorf("roster template: %w", err)
		}
		if s.template, err = report.LoadRosterTemplate(path); err != nil {
			return nil, err
		}
	}

	loader := render.FileLoader{
		MaxBytes: opts.MaxFileSize,
		Resolve:  sandbox.ResolveFile,
	}
	s.renderer = render.NewRenderer(loader, logger.Named("render"), render.Options{
		LogoLeft:  opts.LogoLeft,
		LogoRight: opts.LogoRight,
	})

	return s, nil
}

// WorkDirectory returns the absolute sandbox root
func (s *Service) WorkDirectory() string {
	return s.sandbox.Root()
}

// MaxFileSize returns the input file size limit
func (s *Service) MaxFileSize() int64 {
	return s.opts.MaxFileSize
}

// CreateDocument writes a new report starting at req.FirstDate
func (s *Service) CreateDocument(req CreateDocumentRequest) (*CreateDocumentResult, error) {
	out, err := s.sandbox.ResolveOutput(req.Output)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	if _, err := os.Stat(out); err == nil && !req.Overwrite {
		return nil, fmt.Errorf("document already exists: %s", req.Output)
	}

	contract := report.ContractInfo{
		Contractor:     req.Contractor,
		ContractNumber: req.ContractNumber,
		StartDate:      req.StartDate,
		Deadline:       req.Deadline,
	}
	doc, err := report.NewDocument(contract, s.template, req.FirstDate, req.FirstNumber)
	if err != nil {
		return nil, rdoerrors.Wrap(rdoerrors.KindInvalidDocument, "cannot create document", err)
	}
	if req.FillMonth {
		if doc, _, err = report.AdjustDaysForMonth(doc, req.FirstDate); err != nil {
			return nil, err
		}
	}

	if err := report.Save(out, doc); err != nil {
		return nil, err
	}
	s.logger.Info("document created", zap.String("document", out), zap.Int("days", len(doc.Days)))
	return &CreateDocumentResult{Document: out, Days: len(doc.Days)}, nil
}

// ImportAttendance reads an attendance file and reconciles it into the document
func (s *Service) ImportAttendance(ctx context.Context, req ImportAttendanceRequest) (*ImportAttendanceResult, error) {
	doc, docPath, err := s.load(req.Document)
	if err != nil {
		return nil, err
	}
	source, err := s.inputFile(req.Source)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	imp, err := attendance.ParseFile(source)
	if err != nil {
		return nil, err
	}
	for _, w := range imp.Skipped {
		s.logger.Warn("attendance row skipped", zap.String("source", source), zap.Int("line", w.Line), zap.String("reason", w.Message))
	}

	doc, res := attendance.Reconcile(doc, imp.Records)
	for _, rec := range res.InvalidRecords {
		s.logger.Warn("invalid attendance record", zap.Int("line", rec.Line), zap.String("date", rec.RawDate), zap.String("label", rec.RawLabel))
	}

	out, err := s.save(doc, docPath, req.Output)
	if err != nil {
		return nil, err
	}

	result := &ImportAttendanceResult{
		Document:       out,
		Source:         source,
		Delimiter:      imp.Delimiter,
		Reconciliation: res,
		Skipped:        imp.Skipped,
		MissingDays:    missingDates(doc),
		Status:         attendance.Summarize(res),
	}
	s.logger.Info("attendance imported",
		zap.String("document", out),
		zap.Int("records", res.Records),
		zap.Int("assignments", res.TotalAssignments),
		zap.Int("days_updated", res.DaysUpdated),
		zap.Int("unmatched", res.Unmatched()))
	return result, nil
}

// ClearAttendance empties every roster quantity of the document
func (s *Service) ClearAttendance(req ClearAttendanceRequest) (*ClearAttendanceResult, error) {
	doc, docPath, err := s.load(req.Document)
	if err != nil {
		return nil, err
	}

	doc, changes := attendance.ClearAll(doc)
	out, err := s.save(doc, docPath, req.Output)
	if err != nil {
		return nil, err
	}

	s.logger.Info("attendance cleared", zap.String("document", out), zap.Int("changes", changes))
	return &ClearAttendanceResult{Document: out, Changes: changes, Status: attendance.ClearStatus(changes)}, nil
}

// CopyPreviousDay copies Saturday rosters onto the selected Sundays. The document
// is saved when at least one copy was applied.
func (s *Service) CopyPreviousDay(req CopyPreviousDayRequest) (*CopyPreviousDayResult, error) {
	doc, docPath, err := s.load(req.Document)
	if err != nil {
		return nil, err
	}

	targets, err := copyTargets(doc, req)
	if err != nil {
		return nil, err
	}

	result := &CopyPreviousDayResult{Document: docPath}
	for _, idx := range targets {
		var res attendance.CopyResult
		doc, res = attendance.CopyPreviousDay(doc, idx)
		result.Copies = append(result.Copies, res)
		result.Statuses = append(result.Statuses, attendance.CopyStatusMessage(res))
		if res.OK() {
			result.Applied++
		}
		if res.Err != nil {
			s.logger.Warn("roster copy incomplete", zap.Int("day", idx), zap.String("status", string(res.Status)), zap.Error(res.Err))
		}
	}

	if result.Applied > 0 {
		if result.Document, err = s.save(doc, docPath, req.Output); err != nil {
			return nil, err
		}
	}
	s.logger.Info("saturday roster copied", zap.Int("targets", len(targets)), zap.Int("applied", result.Applied))
	return result, nil
}

func copyTargets(doc report.Document, req CopyPreviousDayRequest) ([]int, error) {
	switch {
	case req.AllSundays:
		var targets []int
		for i, day := range doc.Days {
			if report.IsSunday(day.Date) {
				targets = append(targets, i)
			}
		}
		return targets, nil
	case req.Day != nil:
		return []int{*req.Day}, nil
	case req.Date != "":
		idx, ok := doc.DayByDate(req.Date)
		if !ok {
			return nil, rdoerrors.Newf(rdoerrors.KindResourceNotFound, "no day dated %s in the report", req.Date)
		}
		return []int{idx}, nil
	}
	return nil, fmt.Errorf("select a day, a date or all Sundays")
}

// AdjustMonth grows or shrinks the document to the days of the month of req.Date
func (s *Service) AdjustMonth(req AdjustMonthRequest) (*AdjustMonthResult, error) {
	doc, docPath, err := s.load(req.Document)
	if err != nil {
		return nil, err
	}

	base := req.Date
	if base == "" {
		base = doc.Days[0].Date
	}
	before := len(doc.Days)
	doc, changed, err := report.AdjustDaysForMonth(doc, base)
	if err != nil {
		return nil, rdoerrors.Wrap(rdoerrors.KindMalformedInput, "cannot adjust month", err)
	}

	out, err := s.save(doc, docPath, req.Output)
	if err != nil {
		return nil, err
	}
	s.logger.Info("month adjusted", zap.String("document", out), zap.Int("before", before), zap.Int("days", len(doc.Days)))
	return &AdjustMonthResult{Document: out, Before: before, Days: len(doc.Days), Changed: changed}, nil
}

// RenderPDF renders the document to a PDF next to it, or to req.Output
func (s *Service) RenderPDF(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	doc, docPath, err := s.load(req.Document)
	if err != nil {
		return nil, err
	}

	output := req.Output
	if output == "" {
		output = filepath.Join(filepath.Dir(docPath), render.DefaultFilename(doc))
	}
	out, err := s.sandbox.ResolveOutput(output)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	var buf bytes.Buffer
	res, err := s.renderer.RenderPDF(ctx, doc, &buf)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	return &RenderResult{Path: out, Size: int64(buf.Len()), Result: *res}, nil
}

// InspectPDF reads back a rendered report
func (s *Service) InspectPDF(req InspectRequest) (*render.Inspection, error) {
	path, err := s.sandbox.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.inspector.Inspect(path, req.IncludeText)
}

// ExportRoster writes the roster workbook of the document
func (s *Service) ExportRoster(ctx context.Context, req ExportRosterRequest) (*ExportRosterResult, error) {
	doc, docPath, err := s.load(req.Document)
	if err != nil {
		return nil, err
	}

	buf, name, err := s.exporter.ExportRoster(ctx, doc)
	if err != nil {
		return nil, err
	}

	output := req.Output
	if output == "" {
		output = filepath.Join(filepath.Dir(docPath), name)
	}
	out, err := s.sandbox.ResolveOutput(output)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	size := int64(buf.Len())
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("roster exported", zap.String("path", out), zap.Int("days", len(doc.Days)))
	return &ExportRosterResult{Path: out, Size: size, Days: len(doc.Days)}, nil
}

// ServerInfo lists the files the tools can work with
func (s *Service) ServerInfo() (*ServerInfoResult, error) {
	info := &ServerInfoResult{
		ServerName:       s.opts.ServerName,
		Version:          s.opts.Version,
		WorkDirectory:    s.sandbox.Root(),
		MaxFileSize:      s.opts.MaxFileSize,
		Documents:        []string{},
		AttendanceFiles:  []string{},
		Reports:          []string{},
		AttendanceFormat: AttendanceFormat,
	}

	const limit = 100
	err := filepath.WalkDir(info.WorkDirectory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != info.WorkDirectory && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(info.WorkDirectory, path)
		if relErr != nil {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			info.Documents = appendLimited(info.Documents, rel, limit)
		case ".csv", ".xlsx", ".xlsm", ".xls":
			info.AttendanceFiles = appendLimited(info.AttendanceFiles, rel, limit)
		case ".pdf":
			info.Reports = appendLimited(info.Reports, rel, limit)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list work directory: %w", err)
	}

	sort.Strings(info.Documents)
	sort.Strings(info.AttendanceFiles)
	sort.Strings(info.Reports)
	return info, nil
}

func appendLimited(list []string, v string, limit int) []string {
	if len(list) >= limit {
		return list
	}
	return append(list, v)
}

func (s *Service) load(path string) (report.Document, string, error) {
	resolved, err := s.inputFile(path)
	if err != nil {
		return report.Document{}, "", err
	}
	doc, err := report.Load(resolved)
	if err != nil {
		return report.Document{}, "", rdoerrors.Wrap(rdoerrors.KindInvalidDocument, "cannot load report document", err).WithContext(path)
	}
	return doc, resolved, nil
}

// save writes doc to output, or back to docPath when output is empty
func (s *Service) save(doc report.Document, docPath, output string) (string, error) {
	target := docPath
	if output != "" {
		resolved, err := s.sandbox.ResolveOutput(output)
		if err != nil {
			return "", fmt.Errorf("security validation failed: %w", err)
		}
		target = resolved
	}
	if err := report.Save(target, report.RecomputeDerivedFields(doc)); err != nil {
		return "", err
	}
	return target, nil
}

func (s *Service) inputFile(path string) (string, error) {
	resolved, err := s.sandbox.ResolveFile(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("cannot access file: %w", err)
	}
	if s.opts.MaxFileSize > 0 && info.Size() > s.opts.MaxFileSize {
		return "", fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), s.opts.MaxFileSize)
	}
	return resolved, nil
}

func missingDates(doc report.Document) []string {
	idx := report.MissingAttendance(doc)
	if len(idx) == 0 {
		return nil
	}
	dates := make([]string, len(idx))
	for i, d := range idx {
		dates[i] = report.ISOToDMY(doc.Days[d].Date)
	}
	return dates
}

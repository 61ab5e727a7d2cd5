package rdo

import (
	"github.com/a3tai/mcp-rdo-report/internal/attendance"
	rdoerrors "github.com/a3tai/mcp-rdo-report/internal/rdo/errors"
	"github.com/a3tai/mcp-rdo-report/internal/render"
)

// Every request names a report document (YAML) relative to the work directory.
// Operations that change the document write it back to Output, or in place when
// Output is empty.

// CreateDocumentRequest starts a new report
type CreateDocumentRequest struct {
	Output         string `json:"output"`
	FirstDate      string `json:"first_date"` // YYYY-MM-DD
	FirstNumber    string `json:"first_number,omitempty"`
	Contractor     string `json:"contractor,omitempty"`
	ContractNumber string `json:"contract_number,omitempty"`
	StartDate      string `json:"start_date,omitempty"` // DD/MM/YYYY
	Deadline       string `json:"deadline,omitempty"`   // DD/MM/YYYY
	FillMonth      bool   `json:"fill_month,omitempty"`
	Overwrite      bool   `json:"overwrite,omitempty"`
}

// CreateDocumentResult describes the new report
type CreateDocumentResult struct {
	Document string `json:"document"`
	Days     int    `json:"days"`
}

// ImportAttendanceRequest applies an attendance file to a report
type ImportAttendanceRequest struct {
	Document string `json:"document"`
	Source   string `json:"source"`
	Output   string `json:"output,omitempty"`
}

// ImportAttendanceResult describes an import
type ImportAttendanceResult struct {
	Document       string                `json:"document"`
	Source         string                `json:"source"`
	Delimiter      string                `json:"delimiter,omitempty"`
	Reconciliation attendance.Result     `json:"reconciliation"`
	Skipped        []*rdoerrors.RDOError `json:"skipped,omitempty"`
	MissingDays    []string              `json:"missing_days,omitempty"`
	Status         attendance.Status     `json:"status"`
}

// ClearAttendanceRequest empties every roster of a report
type ClearAttendanceRequest struct {
	Document string `json:"document"`
	Output   string `json:"output,omitempty"`
}

// ClearAttendanceResult describes a clear
type ClearAttendanceResult struct {
	Document string            `json:"document"`
	Changes  int               `json:"changes"`
	Status   attendance.Status `json:"status"`
}

// CopyPreviousDayRequest copies the Saturday roster onto Sunday days. Either Day
// (zero based) or Date (YYYY-MM-DD) selects one Sunday; AllSundays copies every
// Sunday of the report.
type CopyPreviousDayRequest struct {
	Document   string `json:"document"`
	Output     string `json:"output,omitempty"`
	Day        *int   `json:"day,omitempty"`
	Date       string `json:"date,omitempty"`
	AllSundays bool   `json:"all_sundays,omitempty"`
}

// CopyPreviousDayResult holds one copy outcome per targeted Sunday
type CopyPreviousDayResult struct {
	Document string                  `json:"document"`
	Copies   []attendance.CopyResult `json:"copies"`
	Statuses []attendance.Status     `json:"statuses"`
	Applied  int                     `json:"applied"`
}

// AdjustMonthRequest resizes a report to the days of a month
type AdjustMonthRequest struct {
	Document string `json:"document"`
	Output   string `json:"output,omitempty"`
	Date     string `json:"date,omitempty"` // YYYY-MM-DD, defaults to the first day
}

// AdjustMonthResult describes the resize
type AdjustMonthResult struct {
	Document string `json:"document"`
	Before   int    `json:"before"`
	Days     int    `json:"days"`
	Changed  bool   `json:"changed"`
}

// RenderRequest renders a report to PDF
type RenderRequest struct {
	Document string `json:"document"`
	Output   string `json:"output,omitempty"`
}

// RenderResult describes the written PDF
type RenderResult struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	render.Result
}

// InspectRequest reads back a rendered PDF
type InspectRequest struct {
	Path        string `json:"path"`
	IncludeText bool   `json:"include_text,omitempty"`
}

// ExportRosterRequest writes the roster workbook of a report
type ExportRosterRequest struct {
	Document string `json:"document"`
	Output   string `json:"output,omitempty"`
}

// ExportRosterResult describes the written workbook
type ExportRosterResult struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	Days int    `json:"days"`
}

// ServerInfoResult describes the running server
type ServerInfoResult struct {
	ServerName       string   `json:"server_name"`
	Version          string   `json:"version"`
	WorkDirectory    string   `json:"work_directory"`
	MaxFileSize      int64    `json:"max_file_size"`
	Documents        []string `json:"documents"`
	AttendanceFiles  []string `json:"attendance_files"`
	Reports          []string `json:"reports"`
	AttendanceFormat string   `json:"attendance_format"`
}

package attendance

import (
	rdoerrors "github.com/a3tai/mcp-rdo-report/internal/rdo/errors"
)

// Record is one worker-day of one job title as read from an external sheet.
// RawDate is expected as DD/MM/YYYY.
type Record struct {
	RawDate  string `json:"date"`
	RawLabel string `json:"label"`
	Line     int    `json:"line,omitempty"`
}

// Import is the outcome of reading an attendance file: the usable records plus a
// warning for every row that was skipped.
type Import struct {
	Source    string                `json:"source"`
	Delimiter string                `json:"delimiter,omitempty"`
	Records   []Record              `json:"records"`
	Skipped   []*rdoerrors.RDOError `json:"skipped,omitempty"`
}

func (imp *Import) skip(line int, format string, args ...any) {
	imp.Skipped = append(imp.Skipped, rdoerrors.Newf(rdoerrors.KindMalformedInput, format, args...).WithLine(line))
}

var (
	dateHeader   = Normalize("data")
	labelHeaders = map[string]bool{
		Normalize("função"):           true,
		Normalize("funcao"):           true,
		Normalize("fun\ufffd\ufffdo"): true,
		Normalize("cargo"):            true,
	}
)

// headerColumns locates the date and job-title columns in a header row
func headerColumns(header []string) (dateCol, labelCol int, ok bool) {
	dateCol, labelCol = -1, -1
	for i, h := range header {
		n := Normalize(h)
		if dateCol < 0 && n == dateHeader {
			dateCol = i
		}
		if labelCol < 0 && labelHeaders[n] {
			labelCol = i
		}
	}
	return dateCol, labelCol, dateCol >= 0 && labelCol >= 0
}

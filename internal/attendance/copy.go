package attendance

import (
	"time"

	rdoerrors "github.com/a3tai/mcp-rdo-report/internal/rdo/errors"
	"github.com/a3tai/mcp-rdo-report/internal/report"
)

// CopyStatus is the outcome of CopyPreviousDay
type CopyStatus string

const (
	CopyApplied       CopyStatus = "applied"
	CopyPartial       CopyStatus = "partial"
	CopyInvalidTarget CopyStatus = "invalid_target"
	CopyNotBoundary   CopyStatus = "not_sunday"
	CopySourceMissing CopyStatus = "source_missing"
	CopyNothing       CopyStatus = "nothing_copied"
)

// CopyResult describes what CopyPreviousDay did
type CopyResult struct {
	Status      CopyStatus          `json:"status"`
	TargetIndex int                 `json:"target_index"`
	SourceIndex int                 `json:"source_index"`
	Copied      int                 `json:"copied"`
	Mismatch    bool                `json:"mismatch"`
	Err         *rdoerrors.RDOError `json:"error,omitempty"`
}

// OK reports whether any quantity was copied
func (r CopyResult) OK() bool {
	return r.Status == CopyApplied || r.Status == CopyPartial
}

// CopyPreviousDay copies the Saturday roster onto the Sunday at targetIndex. The
// quantity vector is copied by position, not by label; when the two rosters
// differ in length only the overlapping prefix is copied and the mismatch is
// flagged. Failures are reported in the result, the document is then returned
// unchanged.
func CopyPreviousDay(doc report.Document, targetIndex int) (report.Document, CopyResult) {
	out := doc.Clone()
	res := CopyResult{TargetIndex: targetIndex, SourceIndex: -1}

	if targetIndex < 0 || targetIndex >= len(out.Days) {
		res.Status = CopyInvalidTarget
		res.Err = rdoerrors.Newf(rdoerrors.KindResourceNotFound, "day %d does not exist", targetIndex)
		return out, res
	}

	target := &out.Days[targetIndex]
	date, ok := report.ParseISO(target.Date)
	if !ok {
		res.Status = CopyInvalidTarget
		res.Err = rdoerrors.Newf(rdoerrors.KindInvalidDocument, "day %d has an invalid date %q", targetIndex, target.Date).WithDay(targetIndex)
		return out, res
	}
	if date.Weekday() != time.Sunday {
		res.Status = CopyNotBoundary
		res.Err = rdoerrors.Newf(rdoerrors.KindStructuralMismatch, "%s is a %s, not a Sunday", target.Date, report.WeekdayName(date)).WithDay(targetIndex)
		return out, res
	}

	sourceDate := report.FormatISO(date.AddDate(0, 0, -1))
	sourceIndex, ok := out.DayByDate(sourceDate)
	if !ok {
		res.Status = CopySourceMissing
		res.Err = rdoerrors.Newf(rdoerrors.KindStructuralMismatch, "previous Saturday %s is not in the report", sourceDate).WithDay(targetIndex)
		return out, res
	}
	res.SourceIndex = sourceIndex
	source := out.Days[sourceIndex]

	n := min(len(source.Roster), len(target.Roster))
	if len(source.Roster) != len(target.Roster) {
		res.Mismatch = true
		res.Err = rdoerrors.Newf(rdoerrors.KindStructuralMismatch,
			"roster sizes differ (%d on %s, %d on %s); copied the first %d lines",
			len(source.Roster), sourceDate, len(target.Roster), target.Date, n).WithDay(targetIndex)
	}
	if n == 0 {
		res.Status = CopyNothing
		return doc.Clone(), res
	}

	for i := 0; i < n; i++ {
		target.Roster[i].Quantity = nil
		if q := source.Roster[i].Quantity; q != nil {
			target.Roster[i].Quantity = report.Qty(*q)
		}
	}
	target.Totals = report.ComputeTotals(*target)
	res.Copied = n

	res.Status = CopyApplied
	if res.Mismatch {
		res.Status = CopyPartial
	}
	out.ClearedByUser = false
	out.AttendanceLoaded = true
	return out, res
}

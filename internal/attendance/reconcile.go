package attendance

import (
	"sort"
	"strings"

	rdoerrors "github.com/a3tai/mcp-rdo-report/internal/rdo/errors"
	"github.com/a3tai/mcp-rdo-report/internal/report"
)

// Result summarises one reconciliation run
type Result struct {
	Records          int                   `json:"records"`
	TotalAssignments int                   `json:"total_assignments"`
	DaysUpdated      int                   `json:"days_updated"`
	DatesAggregated  int                   `json:"dates_aggregated"`
	DatesNotFound    []string              `json:"dates_not_found,omitempty"`
	UnmatchedRoles   map[string][]string   `json:"unmatched_roles,omitempty"`
	InvalidRecords   []Record              `json:"invalid_records,omitempty"`
	Warnings         []*rdoerrors.RDOError `json:"warnings,omitempty"`
}

// Unmatched returns the number of unmatched roles across all dates
func (r Result) Unmatched() int {
	n := 0
	for _, roles := range r.UnmatchedRoles {
		n += len(roles)
	}
	return n
}

// UnmatchedDates returns the dates with unmatched roles in calendar order
func (r Result) UnmatchedDates() []string {
	dates := make([]string, 0, len(r.UnmatchedRoles))
	for d := range r.UnmatchedRoles {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// dateCounts keeps the normalized labels of one date in first-seen order, with
// their occurrence count and the first raw spelling seen.
type dateCounts struct {
	keys   []string
	counts map[string]int
	raw    map[string]string
}

func (c *dateCounts) add(key, raw string) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
		c.raw[key] = raw
	}
	c.counts[key]++
}

// Reconcile applies attendance records to the document and returns the updated
// copy. Every day whose date appears in the records has its whole roster cleared
// and rebuilt from the record counts; days without records are left untouched.
func Reconcile(doc report.Document, records []Record) (report.Document, Result) {
	out := doc.Clone()
	res := Result{
		Records:        len(records),
		UnmatchedRoles: make(map[string][]string),
	}
	if len(records) == 0 {
		return out, res
	}

	agg := make(map[string]*dateCounts)
	for _, rec := range records {
		label := strings.TrimSpace(rec.RawLabel)
		date, ok := report.ParseDMY(rec.RawDate)
		switch {
		case label == "":
			res.invalid(rec, "record has an empty job title")
			continue
		case !ok:
			res.invalid(rec, "invalid date %q (expected DD/MM/YYYY)", rec.RawDate)
			continue
		}

		key := Normalize(label)
		if key == "" {
			res.invalid(rec, "job title %q has no significant words", label)
			continue
		}

		iso := report.FormatISO(date)
		counts, ok := agg[iso]
		if !ok {
			counts = &dateCounts{counts: make(map[string]int), raw: make(map[string]string)}
			agg[iso] = counts
		}
		counts.add(key, label)
	}

	res.DatesAggregated = len(agg)
	if len(agg) == 0 {
		return out, res
	}

	out.AttendanceLoaded = true
	out.ClearedByUser = false

	found := make(map[string]bool, len(agg))
	for i := range out.Days {
		day := &out.Days[i]
		counts, ok := agg[day.Date]
		if !ok {
			continue
		}

		for j := range day.Roster {
			day.Roster[j].Quantity = nil
		}

		matcher := NewMatcher(day.RosterLabels())
		assignedBy := make(map[int]string, len(counts.keys))
		for _, key := range counts.keys {
			idx, ok := matcher.MatchIndex(key)
			if !ok {
				res.UnmatchedRoles[day.Date] = append(res.UnmatchedRoles[day.Date], counts.raw[key])
				res.Warnings = append(res.Warnings, rdoerrors.Newf(rdoerrors.KindNoMatch,
					"no roster line matches %q", counts.raw[key]).WithContext(day.Date).WithDay(i))
				continue
			}
			// the last spelling matched to a line wins; its count replaces the earlier one
			if prev, dup := assignedBy[idx]; dup {
				res.TotalAssignments -= counts.counts[prev]
				res.Warnings = append(res.Warnings, rdoerrors.Newf(rdoerrors.KindStructuralMismatch,
					"roster line %q matched by both %q and %q; keeping the count of %q",
					day.Roster[idx].Label, counts.raw[prev], counts.raw[key], counts.raw[key]).WithContext(day.Date).WithDay(i))
			}
			assignedBy[idx] = key
			day.Roster[idx].Quantity = report.Qty(counts.counts[key])
			res.TotalAssignments += counts.counts[key]
		}

		day.Totals = report.ComputeTotals(*day)
		if !found[day.Date] {
			found[day.Date] = true
			res.DaysUpdated++
		}
	}

	for date := range agg {
		if !found[date] {
			res.DatesNotFound = append(res.DatesNotFound, date)
		}
	}
	sort.Strings(res.DatesNotFound)

	return out, res
}

func (r *Result) invalid(rec Record, format string, args ...any) {
	r.InvalidRecords = append(r.InvalidRecords, rec)
	r.Warnings = append(r.Warnings, rdoerrors.Newf(rdoerrors.KindMalformedInput, format, args...).WithLine(rec.Line))
}

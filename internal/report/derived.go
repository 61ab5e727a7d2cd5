package report

import (
	"strconv"
	"time"
)

// NotAvailable is printed when a contract date needed for a counter is missing
const NotAvailable = "N/A"

// RecomputeDerivedFields returns a copy of doc with every derived field refreshed:
// contiguous indices, dates counted from day 0, weekday names, elapsed and
// remaining contract days, and the per-category roster totals.
func RecomputeDerivedFields(doc Document) Document {
	out := Reindex(doc.Clone())
	if len(out.Days) == 0 {
		return out
	}

	start, hasStart := ParseDMY(out.Contract.StartDate)
	deadline, hasDeadline := ParseDMY(out.Contract.Deadline)

	base, hasBase := ParseISO(out.Days[0].Date)
	for i := range out.Days {
		day := &out.Days[i]
		if hasBase {
			day.Date = FormatISO(base.AddDate(0, 0, i))
		}

		if t, ok := ParseISO(day.Date); ok {
			day.Weekday = WeekdayName(t)
			day.Elapsed, day.Remaining = contractCounters(t, start, hasStart, deadline, hasDeadline)
		} else {
			day.Weekday = ""
			day.Elapsed, day.Remaining = NotAvailable, NotAvailable
		}

		day.Totals = ComputeTotals(*day)
	}

	return out
}

func contractCounters(date, start time.Time, hasStart bool, deadline time.Time, hasDeadline bool) (elapsed, remaining string) {
	if !hasStart {
		return NotAvailable, NotAvailable
	}

	elapsedDays := DaysBetween(start, date) + 1
	elapsed = "0"
	if elapsedDays >= 0 {
		elapsed = strconv.Itoa(elapsedDays)
	}

	if !hasDeadline {
		return elapsed, NotAvailable
	}
	total := DaysBetween(start, deadline) + 1
	if total < 0 {
		return elapsed, NotAvailable
	}
	remaining = "0"
	if left := total - elapsedDays; left >= 0 {
		remaining = strconv.Itoa(left)
	}
	return elapsed, remaining
}

// ComputeTotals sums the roster quantities of each category
func ComputeTotals(day DayRecord) Totals {
	var t Totals
	for _, item := range day.Roster {
		switch item.Category {
		case CategoryDirect:
			t.Direct += item.Value()
		case CategoryIndirect:
			t.Indirect += item.Value()
		case CategoryEquipment:
			t.Equipment += item.Value()
		}
	}
	return t
}

// MissingAttendance returns the indices of days that have no headcount. Nothing is
// reported until attendance has been loaded at least once, nor right after the
// user cleared every roster on purpose.
func MissingAttendance(doc Document) []int {
	if !doc.AttendanceLoaded || doc.ClearedByUser {
		return nil
	}
	var missing []int
	for i, day := range doc.Days {
		if !day.HasAttendance() {
			missing = append(missing, i)
		}
	}
	return missing
}

// AnyAttendance reports whether any day holds a positive quantity
func AnyAttendance(doc Document) bool {
	for _, day := range doc.Days {
		if day.HasAttendance() {
			return true
		}
	}
	return false
}

package attendance

import (
	"github.com/a3tai/mcp-rdo-report/internal/report"
)

// ClearAll empties every roster quantity of every day and returns the number of
// fields that actually changed. Clearing an already empty document reports zero
// changes and leaves the flags alone apart from ClearedByUser.
func ClearAll(doc report.Document) (report.Document, int) {
	out := doc.Clone()

	changes := 0
	for i := range out.Days {
		day := &out.Days[i]
		for j := range day.Roster {
			if day.Roster[j].Quantity != nil {
				day.Roster[j].Quantity = nil
				changes++
			}
		}
		day.Totals = report.ComputeTotals(*day)
	}

	if changes > 0 {
		out.ClearedByUser = true
		out.AttendanceLoaded = true
	} else {
		out.ClearedByUser = false
	}
	return out, changes
}

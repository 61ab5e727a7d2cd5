package attendance

import (
	"testing"

	rdoerrors "github.com/a3tai/mcp-rdo-report/internal/rdo/errors"
	"github.com/a3tai/mcp-rdo-report/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T, firstDate string, days int, labels ...string) report.Document {
	t.Helper()
	var template []report.RosterLineItem
	for _, l := range labels {
		template = append(template, report.RosterLineItem{Category: report.CategoryDirect, Label: l})
	}
	template = append(template, report.RosterLineItem{Category: report.CategoryEquipment, Label: "Betoneira"})

	doc, err := report.NewDocument(report.ContractInfo{StartDate: "01/03/2024"}, template, firstDate, "1-A")
	require.NoError(t, err)
	for i := 1; i < days; i++ {
		doc = report.AddDay(doc)
	}
	return doc
}

func TestReconcileAggregatesSpellings(t *testing.T) {
	doc := newDoc(t, "2024-03-10", 1, "Encarregado Geral")
	records := []Record{
		{RawDate: "10/03/2024", RawLabel: "ENC. GERAL"},
		{RawDate: "10/03/2024", RawLabel: "Encarregado Geral"},
	}

	out, res := Reconcile(doc, records)

	require.NotNil(t, out.Days[0].Roster[0].Quantity)
	assert.Equal(t, 2, *out.Days[0].Roster[0].Quantity)
	assert.Equal(t, 1, res.DaysUpdated)
	assert.Equal(t, 2, res.TotalAssignments)
	assert.Equal(t, 2, out.Days[0].Totals.Direct)
	assert.Empty(t, res.InvalidRecords)
	assert.Empty(t, res.DatesNotFound)
	assert.True(t, out.AttendanceLoaded)

	assert.Nil(t, doc.Days[0].Roster[0].Quantity, "input document must not change")
}

func TestReconcileLineMatchedByTwoSpellings(t *testing.T) {
	doc := newDoc(t, "2024-03-10", 1, "Encarregado de Obras")
	records := []Record{
		{RawDate: "10/03/2024", RawLabel: "Enc. Obras"},
		{RawDate: "10/03/2024", RawLabel: "Enc. Obras"},
		{RawDate: "10/03/2024", RawLabel: "Obras Encarregado"},
	}

	out, res := Reconcile(doc, records)

	require.NotNil(t, out.Days[0].Roster[0].Quantity)
	assert.Equal(t, 1, *out.Days[0].Roster[0].Quantity)
	assert.Equal(t, 1, out.Days[0].Totals.Direct)
	assert.Equal(t, out.Days[0].Totals.Direct, res.TotalAssignments)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, rdoerrors.KindStructuralMismatch, res.Warnings[0].Kind)
	assert.Contains(t, res.Warnings[0].Message, "Obras Encarregado")
}

func TestReconcileEmptyIsNoOp(t *testing.T) {
	doc := newDoc(t, "2024-03-10", 2, "Pedreiro")
	doc.Days[0].Roster[0].Quantity = report.Qty(3)

	out, res := Reconcile(doc, nil)

	assert.Equal(t, doc, out)
	assert.Equal(t, 0, res.TotalAssignments)
	assert.Equal(t, 0, res.DaysUpdated)
	assert.False(t, out.AttendanceLoaded)
}

func TestReconcileInvalidDate(t *testing.T) {
	doc := newDoc(t, "2024-02-28", 3, "Pedreiro")
	doc.Days[1].Roster[0].Quantity = report.Qty(4)

	out, res := Reconcile(doc, []Record{{RawDate: "31/02/2024", RawLabel: "Pedreiro", Line: 2}})

	require.Len(t, res.InvalidRecords, 1)
	assert.Equal(t, "31/02/2024", res.InvalidRecords[0].RawDate)
	assert.Equal(t, doc.Days, out.Days)
	assert.Equal(t, 0, res.DaysUpdated)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 2, res.Warnings[0].Line)
}

func TestReconcileRebuildsTouchedDaysOnly(t *testing.T) {
	doc := newDoc(t, "2024-03-10", 2, "Pedreiro", "Servente")
	doc.Days[0].Roster[1].Quantity = report.Qty(9)
	doc.Days[1].Roster[1].Quantity = report.Qty(5)
	doc.ClearedByUser = true

	records := []Record{
		{RawDate: "10/03/2024", RawLabel: "pedreiro"},
		{RawDate: "10/03/2024", RawLabel: "PEDREIRO"},
		{RawDate: "10/03/2024", RawLabel: "Pedreiro"},
		{RawDate: "10/03/2024", RawLabel: "Astronauta"},
		{RawDate: "01/04/2024", RawLabel: "Servente"},
		{RawDate: "10/03/2024", RawLabel: ""},
		{RawDate: "10/03/2024", RawLabel: "de a o"},
	}

	out, res := Reconcile(doc, records)

	day := out.Days[0]
	assert.Equal(t, 3, day.Roster[0].Value())
	assert.True(t, day.Roster[1].IsEmpty(), "existing quantities of a touched day are cleared")
	assert.True(t, day.Roster[2].IsEmpty())
	assert.Equal(t, 5, out.Days[1].Roster[1].Value(), "untouched days keep their roster")

	assert.Equal(t, 3, res.TotalAssignments)
	assert.Equal(t, 1, res.DaysUpdated)
	assert.Equal(t, 2, res.DatesAggregated)
	assert.Equal(t, []string{"2024-04-01"}, res.DatesNotFound)
	assert.Equal(t, map[string][]string{"2024-03-10": {"Astronauta"}}, res.UnmatchedRoles)
	assert.Len(t, res.InvalidRecords, 2)
	assert.Equal(t, 1, res.Unmatched())
	assert.False(t, out.ClearedByUser)
}

func TestClearAll(t *testing.T) {
	doc := newDoc(t, "2024-03-10", 2, "Pedreiro", "Servente")
	doc.Days[0].Roster[0].Quantity = report.Qty(2)
	doc.Days[1].Roster[1].Quantity = report.Qty(0)

	out, changes := ClearAll(doc)
	assert.Equal(t, 2, changes)
	assert.True(t, out.ClearedByUser)
	assert.True(t, out.AttendanceLoaded)
	assert.Equal(t, report.Totals{}, out.Days[0].Totals)
	for _, day := range out.Days {
		for _, item := range day.Roster {
			assert.True(t, item.IsEmpty())
		}
	}

	again, changes := ClearAll(out)
	assert.Equal(t, 0, changes)
	assert.False(t, again.ClearedByUser)
	assert.True(t, again.AttendanceLoaded)
	assert.Empty(t, report.MissingAttendance(out))
}

func TestCopyPreviousDay(t *testing.T) {
	// 2024-03-09 is a Saturday
	doc := newDoc(t, "2024-03-08", 3, "Pedreiro", "Servente")
	doc.Days[1].Roster[0].Quantity = report.Qty(6)
	doc.Days[1].Roster[2].Quantity = report.Qty(1)
	doc.Days[2].Roster[1].Quantity = report.Qty(8)

	out, res := CopyPreviousDay(doc, 2)

	require.True(t, res.OK())
	assert.Equal(t, CopyApplied, res.Status)
	assert.Equal(t, 1, res.SourceIndex)
	assert.Equal(t, 3, res.Copied)
	assert.False(t, res.Mismatch)
	assert.Equal(t, 6, out.Days[2].Roster[0].Value())
	assert.True(t, out.Days[2].Roster[1].IsEmpty(), "empty source fields are copied as empty")
	assert.Equal(t, report.Totals{Direct: 6, Equipment: 1}, out.Days[2].Totals)
	assert.True(t, out.AttendanceLoaded)
}

func TestCopyPreviousDayFailures(t *testing.T) {
	doc := newDoc(t, "2024-03-10", 2, "Pedreiro")

	_, res := CopyPreviousDay(doc, 0)
	assert.Equal(t, CopySourceMissing, res.Status)
	assert.Error(t, res.Err)

	_, res = CopyPreviousDay(doc, 1)
	assert.Equal(t, CopyNotBoundary, res.Status)

	_, res = CopyPreviousDay(doc, 5)
	assert.Equal(t, CopyInvalidTarget, res.Status)
	assert.False(t, res.OK())
}

func TestCopyPreviousDayRosterMismatch(t *testing.T) {
	doc := newDoc(t, "2024-03-09", 2, "Pedreiro", "Servente")
	doc.Days[0].Roster[0].Quantity = report.Qty(2)
	doc.Days[0].Roster[1].Quantity = report.Qty(3)
	doc.Days[1].Roster = doc.Days[1].Roster[:1]

	out, res := CopyPreviousDay(doc, 1)

	assert.Equal(t, CopyPartial, res.Status)
	assert.True(t, res.Mismatch)
	assert.Equal(t, 1, res.Copied)
	assert.Equal(t, 2, out.Days[1].Roster[0].Value())
	require.Error(t, res.Err)
	assert.True(t, res.Err.Recoverable)
}

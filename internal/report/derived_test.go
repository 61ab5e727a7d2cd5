package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeDerivedFieldsCounters(t *testing.T) {
	tests := []struct {
		name          string
		start         string
		deadline      string
		date          string
		wantElapsed   string
		wantRemaining string
	}{
		{"within contract", "01/03/2024", "31/03/2024", "2024-03-10", "10", "21"},
		{"first day", "01/03/2024", "31/03/2024", "2024-03-01", "1", "30"},
		{"before start", "01/03/2024", "31/03/2024", "2024-02-20", "0", "40"},
		{"after deadline", "01/03/2024", "05/03/2024", "2024-03-10", "10", "0"},
		{"no start", "", "31/03/2024", "2024-03-10", NotAvailable, NotAvailable},
		{"no deadline", "01/03/2024", "", "2024-03-10", "10", NotAvailable},
		{"deadline before start", "10/03/2024", "01/03/2024", "2024-03-10", "1", NotAvailable},
		{"invalid start", "31/02/2024", "31/03/2024", "2024-03-10", NotAvailable, NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{
				Contract: ContractInfo{StartDate: tt.start, Deadline: tt.deadline},
				Days:     []DayRecord{NewDay(DefaultRosterTemplate(), 0)},
			}
			doc.Days[0].Date = tt.date

			out := RecomputeDerivedFields(doc)
			assert.Equal(t, tt.wantElapsed, out.Days[0].Elapsed)
			assert.Equal(t, tt.wantRemaining, out.Days[0].Remaining)
		})
	}
}

func TestRecomputeDerivedFieldsDatesFollowDayZero(t *testing.T) {
	doc := newTestDocument(t)
	doc = AddDay(AddDay(doc))
	doc.Days[0].Date = "2024-05-30"
	doc.Days[2].Date = "garbage"

	out := RecomputeDerivedFields(doc)
	assert.Equal(t, "2024-05-30", out.Days[0].Date)
	assert.Equal(t, "2024-05-31", out.Days[1].Date)
	assert.Equal(t, "2024-06-01", out.Days[2].Date)
	assert.Equal(t, "sábado", out.Days[2].Weekday)
	assert.Equal(t, "garbage", doc.Days[2].Date, "input must not be mutated")
}

func TestComputeTotals(t *testing.T) {
	day := DayRecord{Roster: []RosterLineItem{
		{Category: CategoryDirect, Label: "Pedreiro", Quantity: Qty(3)},
		{Category: CategoryDirect, Label: "Servente", Quantity: Qty(2)},
		{Category: CategoryIndirect, Label: "Almoxarife", Quantity: Qty(1)},
		{Category: CategoryEquipment, Label: "Betoneira"},
		{Category: CategoryEquipment, Label: "Gerador", Quantity: Qty(0)},
	}}

	totals := ComputeTotals(day)
	assert.Equal(t, Totals{Direct: 5, Indirect: 1, Equipment: 0}, totals)
	assert.Equal(t, 5, totals.Of(CategoryDirect))
}

func TestMissingAttendance(t *testing.T) {
	doc := AddDay(newTestDocument(t))
	doc.Days[0].Roster[0].Quantity = Qty(1)

	assert.Empty(t, MissingAttendance(doc), "nothing is flagged before the first load")

	doc.AttendanceLoaded = true
	assert.Equal(t, []int{1}, MissingAttendance(doc))

	doc.ClearedByUser = true
	assert.Empty(t, MissingAttendance(doc))

	assert.True(t, AnyAttendance(doc))
}

func TestCloneIsDeep(t *testing.T) {
	doc := newTestDocument(t)
	doc.Days[0].Roster[0].Quantity = Qty(7)
	doc.Days[0].Activities = []ActivityRow{{Service: "Escavação"}}

	clone := doc.Clone()
	*clone.Days[0].Roster[0].Quantity = 1
	clone.Days[0].Activities[0].Service = "Reaterro"
	clone.Days[0].Photos[0].Caption = "changed"

	require.NotNil(t, doc.Days[0].Roster[0].Quantity)
	assert.Equal(t, 7, *doc.Days[0].Roster[0].Quantity)
	assert.Equal(t, "Escavação", doc.Days[0].Activities[0].Service)
	assert.Empty(t, doc.Days[0].Photos[0].Caption)
}

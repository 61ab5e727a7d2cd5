package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContract() ContractInfo {
	return ContractInfo{
		Contractor:     "Construtora Exemplo",
		ContractNumber: "CT-042/2024",
		StartDate:      "01/03/2024",
		Deadline:       "31/03/2024",
	}
}

func newTestDocument(t *testing.T) Document {
	t.Helper()
	doc, err := NewDocument(testContract(), nil, "2024-03-09", "12-A")
	require.NoError(t, err)
	return doc
}

func TestNewDocument(t *testing.T) {
	doc := newTestDocument(t)

	require.Len(t, doc.Days, 1)
	day := doc.Days[0]
	assert.Equal(t, "2024-03-09", day.Date)
	assert.Equal(t, "sábado", day.Weekday)
	assert.Equal(t, "12-A", day.Number)
	assert.Equal(t, "9", day.Elapsed)
	assert.Equal(t, "22", day.Remaining)
	assert.Len(t, day.Roster, len(DefaultRosterTemplate()))
	assert.Len(t, day.Photos, PhotoSlots)
	assert.Len(t, day.Weather.Shifts, ShiftCount)
	for _, item := range day.Roster {
		assert.True(t, item.IsEmpty())
	}
}

func TestNewDocumentRejectsBadInput(t *testing.T) {
	_, err := NewDocument(testContract(), nil, "09/03/2024", "")
	assert.Error(t, err)

	dup := []RosterLineItem{
		{Category: CategoryDirect, Label: "Pedreiro"},
		{Category: CategoryDirect, Label: "Pedreiro"},
	}
	_, err = NewDocument(testContract(), dup, "2024-03-09", "")
	assert.Error(t, err)
}

func TestNewDayDeepCopiesTemplate(t *testing.T) {
	template := []RosterLineItem{{Category: CategoryDirect, Label: "Pedreiro", Quantity: Qty(3)}}
	day := NewDay(template, 2)

	require.Len(t, day.Roster, 1)
	assert.Nil(t, day.Roster[0].Quantity)
	assert.Equal(t, 2, day.Roster[0].DayIndex)

	day.Roster[0].Label = "changed"
	assert.Equal(t, "Pedreiro", template[0].Label)
	assert.Equal(t, 3, *template[0].Quantity)
}

func TestNextNumber(t *testing.T) {
	assert.Equal(t, "13-A", NextNumber("12-A"))
	assert.Equal(t, "2-A", NextNumber("1"))
	assert.Equal(t, "1-A", NextNumber(""))
	assert.Equal(t, "1-A", NextNumber("abc-A"))
}

func TestAddAndRemoveDay(t *testing.T) {
	doc := newTestDocument(t)
	doc.Days[0].Roster[0].Quantity = Qty(4)

	doc = AddDay(doc)
	require.Len(t, doc.Days, 2)
	next := doc.Days[1]
	assert.Equal(t, 1, next.Index)
	assert.Equal(t, "2024-03-10", next.Date)
	assert.Equal(t, "domingo", next.Weekday)
	assert.Equal(t, "13-A", next.Number)
	assert.Equal(t, "10", next.Elapsed)
	assert.Equal(t, "21", next.Remaining)
	assert.True(t, next.Roster[0].IsEmpty())
	assert.Equal(t, 4, doc.Days[0].Roster[0].Value())

	doc = RemoveLastDay(doc)
	assert.Len(t, doc.Days, 1)

	doc = RemoveLastDay(doc)
	assert.Len(t, doc.Days, 1, "the report never drops below one day")
}

func TestAddDayDoesNotMutateInput(t *testing.T) {
	doc := newTestDocument(t)
	_ = AddDay(doc)
	assert.Len(t, doc.Days, 1)
}

func TestAdjustDaysForMonth(t *testing.T) {
	doc := newTestDocument(t)

	doc, adjusted, err := AdjustDaysForMonth(doc, "2024-02-01")
	require.NoError(t, err)
	assert.True(t, adjusted)
	require.Len(t, doc.Days, 29)
	assert.Equal(t, "2024-02-01", doc.Days[0].Date)
	assert.Equal(t, "2024-02-29", doc.Days[28].Date)
	for i, day := range doc.Days {
		assert.Equal(t, i, day.Index)
	}

	doc, adjusted, err = AdjustDaysForMonth(doc, "2024-04-01")
	require.NoError(t, err)
	assert.True(t, adjusted)
	assert.Len(t, doc.Days, 30)

	doc, adjusted, err = AdjustDaysForMonth(doc, "2024-06-15")
	require.NoError(t, err)
	assert.False(t, adjusted)
	assert.Len(t, doc.Days, 30)
	assert.Equal(t, "2024-06-15", doc.Days[0].Date)

	_, _, err = AdjustDaysForMonth(doc, "15/06/2024")
	assert.Error(t, err)
}

func TestIsSunday(t *testing.T) {
	assert.True(t, IsSunday("2024-03-10"))
	assert.False(t, IsSunday("2024-03-09"))
	assert.False(t, IsSunday("not a date"))
}

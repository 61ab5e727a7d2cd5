package layout

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rdoerrors "github.com/a3tai/mcp-rdo-report/internal/rdo/errors"
	"github.com/a3tai/mcp-rdo-report/internal/report"
)

// runeMeasurer makes every rune 1 mm wide
type runeMeasurer struct{}

func (runeMeasurer) TextWidth(text string, _ float64, _ bool) float64 {
	return float64(utf8.RuneCountInString(text))
}

func sumHeights(placements []Placement) float64 {
	var total float64
	for _, p := range placements {
		total += p.Height
	}
	return total
}

func kinds(placements []Placement) []Kind {
	out := make([]Kind, len(placements))
	for i, p := range placements {
		out[i] = p.Kind
	}
	return out
}

func TestLayoutLaborSheetFillsContentHeight(t *testing.T) {
	l := New(nil, nil)
	placements := l.Layout(Page{Sheet: SheetLabor}, ContentHeight)

	want := []Kind{KindHeader, KindContractInfo, KindWeather, KindLegend, KindLaborColumns, KindActivityTable, KindSignatures}
	if diff := cmp.Diff(want, kinds(placements)); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}

	assert.InDelta(t, 283.0, sumHeights(placements), 1e-9)
	for i := 1; i < len(placements); i++ {
		assert.InDelta(t, placements[i-1].Bottom(), placements[i].Top, 1e-9, "section %s", placements[i].Kind)
	}

	sig := placements[len(placements)-1]
	assert.InDelta(t, 265.0, sig.Top, 1e-9)
	assert.InDelta(t, PageHeight-Margin, sig.Bottom(), 1e-9)

	legend := placements[3]
	assert.InDelta(t, l.LegendHeight(), legend.Height, 1e-9)
	assert.Greater(t, legend.Height, 2*LegendPadY)

	table := placements[5]
	assert.Equal(t, report.ActivityRowsFirstPage, table.Rows)
	assert.False(t, table.Overflow)
	assert.InDelta(t, (table.Height-ActivityHeaderHeight)/24, table.RowHeight, 1e-9)
	assert.Greater(t, table.RowHeight, ActivityRowFloor)
	assert.Equal(t, report.ActivityRowsFirstPage, VisibleRows(table))
}

func TestLayoutLaborColumnsHeight(t *testing.T) {
	assert.InDelta(t, 73.0, LaborColumnsHeight, 1e-9)
	assert.InDelta(t, 171.0, PhotosHeight, 1e-9)
	assert.InDelta(t, 283.0, ContentHeight, 1e-9)
	assert.InDelta(t, 196.0, ContentWidth, 1e-9)
}

func TestLayoutActivityRowFloor(t *testing.T) {
	l := New(nil, nil)
	placements := l.Layout(Page{Sheet: SheetLabor}, 200)

	table, ok := PageBlock{Sections: placements}.Section(KindActivityTable)
	require.True(t, ok)
	assert.True(t, table.Overflow)
	assert.Equal(t, ActivityRowFloor, table.RowHeight)
	assert.Less(t, VisibleRows(table), report.ActivityRowsFirstPage)

	sig := placements[len(placements)-1]
	assert.InDelta(t, table.Bottom(), sig.Top, 1e-9, "truncated table still ends at the signatures")
}

func TestLayoutFlagsTooManyActivities(t *testing.T) {
	l := New(nil, nil)
	placements := l.Layout(Page{Sheet: SheetLabor, Activities: 30}, ContentHeight)

	table, ok := PageBlock{Sections: placements}.Section(KindActivityTable)
	require.True(t, ok)
	assert.True(t, table.Overflow)
	assert.InDelta(t, 283.0, sumHeights(placements), 1e-9)
}

func TestLayoutActivitiesSheet(t *testing.T) {
	l := New(nil, nil)
	placements := l.Layout(Page{Sheet: SheetActivities, Observations: "Concretagem da laje do bloco B."}, ContentHeight)

	want := []Kind{KindHeader, KindContractInfo, KindActivityTable, KindObservations, KindSignatures}
	if diff := cmp.Diff(want, kinds(placements)); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}

	table := placements[2]
	assert.InDelta(t, 125.5, table.Height, 1e-9)
	assert.Equal(t, ActivityRowHeightSecondPage, table.RowHeight)
	assert.Equal(t, report.ActivityRowsSecondPage, table.Rows)

	obs := placements[3]
	assert.InDelta(t, 99.5, obs.Height, 1e-9)
	assert.False(t, obs.Overflow)
	assert.InDelta(t, 283.0, sumHeights(placements), 1e-9)
}

func TestLayoutObservationsOverflow(t *testing.T) {
	l := New(nil, nil)
	long := strings.Repeat("linha de observação\n", 60)
	placements := l.Layout(Page{Sheet: SheetActivities, Observations: long}, ContentHeight)

	obs, ok := PageBlock{Sections: placements}.Section(KindObservations)
	require.True(t, ok)
	assert.True(t, obs.Overflow)
	assert.InDelta(t, 99.5, obs.Height, 1e-9, "observations never grow past the signatures")
	assert.Greater(t, l.ObservationsHeight(long), obs.Height)
	assert.InDelta(t, l.ObservationsHeight(long), obs.Needed, 1e-9)

	problems := Overflows([]PageBlock{{Sheet: SheetActivities, DayIndex: 2, Sections: placements}})
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Message, "needs")
	assert.Contains(t, problems[0].Message, "has 99.5 mm")
	assert.Equal(t, 2, problems[0].DayIndex)
}

func TestObservationsIntrinsicHeight(t *testing.T) {
	l := New(nil, nil)

	assert.InDelta(t, TitleBarHeight+ObservationsMinBox, l.ObservationsHeight(""), 1e-9)
	assert.InDelta(t, TitleBarHeight+ObservationsMinBox, l.ObservationsHeight("curta"), 1e-9)
}

func TestLayoutPhotosSheet(t *testing.T) {
	l := New(nil, nil)
	placements := l.Layout(Page{Sheet: SheetPhotos}, ContentHeight)

	want := []Kind{KindHeader, KindContractInfo, KindPhotos, KindSignatures}
	if diff := cmp.Diff(want, kinds(placements)); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}

	photos := placements[2]
	assert.InDelta(t, 225.0, photos.Height, 1e-9)
	assert.Equal(t, PhotosHeight, photos.MinHeight)
	assert.False(t, photos.Overflow)
}

func TestLayoutFlagsLaborOverflow(t *testing.T) {
	l := New(nil, nil)
	page := Page{Sheet: SheetLabor, Labor: map[report.Category]int{report.CategoryDirect: 19}}

	labor, ok := PageBlock{Sections: l.Layout(page, ContentHeight)}.Section(KindLaborColumns)
	require.True(t, ok)
	assert.True(t, labor.Overflow)

	page.Labor = map[report.Category]int{report.CategoryDirect: 18, report.CategoryIndirect: 36}
	labor, _ = PageBlock{Sections: l.Layout(page, ContentHeight)}.Section(KindLaborColumns)
	assert.False(t, labor.Overflow)
}

func TestPaginate(t *testing.T) {
	doc, err := report.NewDocument(report.ContractInfo{}, nil, "2024-03-08", "")
	require.NoError(t, err)
	doc = report.AddDay(report.AddDay(doc))

	l := New(nil, nil)
	blocks := l.Paginate(doc.Days)
	require.Len(t, blocks, 9)

	for i, b := range blocks {
		assert.Equal(t, i/3, b.DayIndex)
		assert.Equal(t, Sheet(i%3), b.Sheet)
		assert.Equal(t, i > 0, b.NewPage, "block %d", i)
		require.NotEmpty(t, b.Sections)
		assert.Equal(t, KindSignatures, b.Sections[len(b.Sections)-1].Kind)
		assert.Equal(t, KindHeader, b.Sections[0].Kind)
	}
	assert.Empty(t, Overflows(blocks))
}

func TestPaginateEmpty(t *testing.T) {
	assert.Empty(t, New(nil, nil).Paginate(nil))
}

func TestOverflows(t *testing.T) {
	doc, err := report.NewDocument(report.ContractInfo{}, nil, "2024-03-08", "")
	require.NoError(t, err)
	doc = report.AddDay(doc)
	doc.Days[1].Activities = make([]report.ActivityRow, 30)

	problems := Overflows(New(nil, nil).Paginate(doc.Days))
	require.Len(t, problems, 1)
	assert.Equal(t, rdoerrors.KindLayoutOverflow, problems[0].Kind)
	assert.Equal(t, 1, problems[0].DayIndex)
	assert.Contains(t, problems[0].Error(), "activity_table")
	assert.True(t, problems[0].Recoverable)
}

func TestWrap(t *testing.T) {
	m := runeMeasurer{}
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"empty", "   ", 10, nil},
		{"fits", "aa bb", 10, []string{"aa bb"}},
		{"wraps on words", "aa bb cc", 5, []string{"aa bb", "cc"}},
		{"breaks long words", "abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"keeps paragraphs", "aa\n\nbb", 10, []string{"aa", "", "bb"}},
		{"collapses spaces", "aa    bb", 10, []string{"aa bb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(m, tt.text, 7, tt.width, false)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Wrap() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApproxMeasurer(t *testing.T) {
	m := ApproxMeasurer{Advance: 0.5}
	assert.InDelta(t, 10*7*PointToMM*0.5, m.TextWidth("abcdefghij", 7, false), 1e-9)
	assert.Greater(t, m.TextWidth("abc", 7, true), m.TextWidth("abc", 7, false))
	assert.Equal(t, ApproxMeasurer{}.TextWidth("ab", 7, false), m.TextWidth("ab", 7, false))
}

func TestSplitColumn(t *testing.T) {
	items := make([]report.RosterLineItem, 40)
	left, right, dropped := SplitColumn(items, LaborItemRows)
	assert.Len(t, left, 18)
	assert.Len(t, right, 18)
	assert.Equal(t, 4, dropped)

	left, right, dropped = SplitColumn(items[:5], LaborItemRows)
	assert.Len(t, left, 5)
	assert.Empty(t, right)
	assert.Zero(t, dropped)
}

func TestFit(t *testing.T) {
	kept, dropped := Fit([]int{1, 2, 3}, 2)
	assert.Equal(t, []int{1, 2}, kept)
	assert.Equal(t, 1, dropped)

	kept, dropped = Fit([]int{1}, 4)
	assert.Equal(t, []int{1}, kept)
	assert.Zero(t, dropped)
}

func TestColumns(t *testing.T) {
	cols := ActivityColumns()
	require.Len(t, cols, 5)
	assert.Equal(t, "Localização", cols[0].Title)
	assert.Equal(t, Margin, cols[0].X)
	last := cols[len(cols)-1]
	assert.InDelta(t, Margin+ContentWidth, last.X+last.W, 1e-9)

	labor := LaborColumns()
	require.Len(t, labor, 3)
	assert.InDelta(t, 39.2, labor[0].W, 1e-9)
	assert.InDelta(t, 78.4, labor[1].W, 1e-9)
	assert.InDelta(t, Margin+ContentWidth, labor[2].X+labor[2].W, 1e-9)
	assert.Len(t, labor[0].SubColumns(), 1)
	assert.Len(t, labor[1].SubColumns(), 2)
}

func TestPhotoCells(t *testing.T) {
	cells := PhotoCells(40)
	require.Len(t, cells, 4)
	assert.InDelta(t, 9.0, cells[0].X, 1e-9)
	assert.InDelta(t, 47.0, cells[0].Y, 1e-9)
	assert.InDelta(t, 91.0, cells[0].W, 1e-9)
	assert.InDelta(t, 82.0, cells[0].H, 1e-9)
	assert.InDelta(t, cells[0].Bottom(), cells[2].Y, 1e-9)
	assert.InDelta(t, 40+PhotosHeight, cells[3].Bottom(), 1e-9)
}

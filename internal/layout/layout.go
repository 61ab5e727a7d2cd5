package layout

import (
	"math"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-rdo-report/internal/report"
)

// LaborCapacity is the number of roster lines each labor column can print
var LaborCapacity = map[report.Category]int{
	report.CategoryDirect:    LaborItemRows,
	report.CategoryIndirect:  2 * LaborItemRows,
	report.CategoryEquipment: 2 * LaborItemRows,
}

// Page is the content of one sheet that influences its layout
type Page struct {
	Sheet Sheet
	// Activities is the number of table rows the sheet has to hold.
	Activities int
	// Labor counts roster lines per category, only read on the labor sheet.
	Labor map[report.Category]int
	// Observations is measured to decide whether the observations box truncates.
	Observations string
}

// PageFor extracts the layout-relevant content of a day for one sheet
func PageFor(day report.DayRecord, sheet Sheet) Page {
	p := Page{Sheet: sheet}
	switch sheet {
	case SheetLabor:
		p.Activities = len(day.Activities)
		p.Labor = make(map[report.Category]int, len(report.Categories))
		for _, item := range day.Roster {
			p.Labor[item.Category]++
		}
	case SheetActivities:
		p.Activities = len(day.Continuation)
		p.Observations = day.Observations
	}
	return p
}

// Layouter places sections on pages
type Layouter struct {
	measurer Measurer
	legend   string
	logger   *zap.Logger
}

// New creates a layouter. A nil measurer falls back to DefaultMeasurer.
func New(m Measurer, logger *zap.Logger) *Layouter {
	if m == nil {
		m = DefaultMeasurer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Layouter{measurer: m, legend: DefaultLegend, logger: logger}
}

// WithLegend replaces the legend text
func (l *Layouter) WithLegend(text string) *Layouter {
	l.legend = text
	return l
}

// Legend returns the legend text
func (l *Layouter) Legend() string {
	return l.legend
}

// Measurer returns the measurer used for wrapped sections
func (l *Layouter) Measurer() Measurer {
	return l.measurer
}

// LegendLines wraps the legend to the legend box
func (l *Layouter) LegendLines() []string {
	return Wrap(l.measurer, l.legend, LegendFontSize, ContentWidth-2*LegendPadX, false)
}

// LegendHeight is the measured height of the legend box
func (l *Layouter) LegendHeight() float64 {
	lines := len(l.LegendLines())
	if lines == 0 {
		lines = 1
	}
	return float64(lines)*LineHeight(LegendFontSize, LegendLineFactor) + 2*LegendPadY
}

// ObservationLines wraps observation text to the observations box
func (l *Layouter) ObservationLines(text string) []string {
	return Wrap(l.measurer, text, ObservationsFontSize, ContentWidth-2*ObservationsPadding, false)
}

// ObservationsHeight is the intrinsic height of the observations section: the text
// plus padding, never less than the minimum box, plus the title bar. Layout
// records it as the placement's Needed height.
func (l *Layouter) ObservationsHeight(text string) float64 {
	return TitleBarHeight + math.Max(l.observationsTextHeight(text), ObservationsMinBox)
}

func (l *Layouter) observationsTextHeight(text string) float64 {
	lines := len(l.ObservationLines(text))
	if lines == 0 {
		return 2 * ObservationsPadding
	}
	return float64(lines-1)*LineHeight(ObservationsFontSize, ObservationsLineFactor) +
		ObservationsFontSize*PointToMM + 2*ObservationsPadding
}

// Sections returns the sizing rules of a sheet in print order
func (l *Layouter) Sections(sheet Sheet) []Section {
	head := []Section{
		{Kind: KindHeader, MinHeight: HeaderHeight},
		{Kind: KindContractInfo, MinHeight: ContractInfoHeight},
	}
	sig := Section{Kind: KindSignatures, MinHeight: SignatureHeight}

	switch sheet {
	case SheetLabor:
		return append(head,
			Section{Kind: KindWeather, MinHeight: WeatherHeight},
			Section{Kind: KindLegend, MinHeight: l.LegendHeight()},
			Section{Kind: KindLaborColumns, MinHeight: LaborColumnsHeight},
			Section{
				Kind:      KindActivityTable,
				MinHeight: ActivityHeaderHeight + report.ActivityRowsFirstPage*ActivityRowFloor,
				Variable:  true,
				Rows:      report.ActivityRowsFirstPage,
			},
			sig,
		)
	case SheetActivities:
		return append(head,
			Section{
				Kind:      KindActivityTable,
				MinHeight: ActivityHeaderHeight + report.ActivityRowsSecondPage*ActivityRowHeightSecondPage,
				Rows:      report.ActivityRowsSecondPage,
			},
			Section{Kind: KindObservations, MinHeight: TitleBarHeight + ObservationsMinBox, Variable: true},
			sig,
		)
	case SheetPhotos:
		return append(head,
			Section{Kind: KindPhotos, MinHeight: PhotosHeight, Variable: true},
			sig,
		)
	}
	return nil
}

// Layout positions the sections of a page inside available mm of content height.
// Signatures are pinned to the bottom and the sheet's variable section absorbs the
// space between the last fixed section and the signatures. Content that does not
// fit is cut and flagged in its placement.
func (l *Layouter) Layout(page Page, available float64) []Placement {
	top := Margin
	sigTop := top + available - SignatureHeight
	cursor := top

	sections := l.Sections(page.Sheet)
	placements := make([]Placement, 0, len(sections))
	for _, s := range sections {
		p := Placement{Kind: s.Kind, Top: cursor, Height: s.MinHeight, MinHeight: s.MinHeight, Rows: s.Rows}

		switch {
		case s.Kind == KindSignatures:
			p.Top = sigTop
		case s.Variable:
			p.Height = math.Max(sigTop-cursor, 0)
		}

		switch s.Kind {
		case KindActivityTable:
			l.sizeActivityTable(&p, page)
		case KindObservations:
			p.Needed = l.ObservationsHeight(page.Observations)
			p.Overflow = TitleBarHeight+l.observationsTextHeight(page.Observations) > p.Height
		case KindPhotos:
			p.Overflow = p.Height < p.MinHeight
		case KindLaborColumns:
			for c, n := range page.Labor {
				if n > LaborCapacity[c] {
					p.Overflow = true
				}
			}
		}

		placements = append(placements, p)
		if s.Kind != KindSignatures {
			cursor += p.Height
		}
	}
	return placements
}

func (l *Layouter) sizeActivityTable(p *Placement, page Page) {
	if page.Activities > p.Rows {
		p.Overflow = true
	}
	if page.Sheet != SheetLabor {
		p.RowHeight = ActivityRowHeightSecondPage
		return
	}

	rowH := (p.Height - ActivityHeaderHeight) / float64(p.Rows)
	if rowH < ActivityRowFloor {
		rowH = ActivityRowFloor
		p.Overflow = true
	}
	p.RowHeight = rowH
}

// VisibleRows returns how many activity rows of a table placement are drawn inside its box
func VisibleRows(p Placement) int {
	if p.RowHeight <= 0 {
		return 0
	}
	fit := int(math.Floor((p.Height-ActivityHeaderHeight)/p.RowHeight + 1e-9))
	if fit < 0 {
		return 0
	}
	if fit > p.Rows {
		return p.Rows
	}
	return fit
}

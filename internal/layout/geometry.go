// Package layout computes where every section of an RDO page goes. It works in
// millimetres on an A4 portrait sheet and never draws anything itself: the render
// package walks the placements produced here.
package layout

// Sheet geometry (mm)
const (
	PageWidth     = 210.0
	PageHeight    = 297.0
	Margin        = 7.0
	ContentWidth  = PageWidth - 2*Margin
	ContentHeight = PageHeight - 2*Margin

	// PointToMM converts font points to millimetres.
	PointToMM = 0.352778
)

// Fixed section heights (mm)
const (
	HeaderHeight       = 16.0
	ContractInfoHeight = 17.0
	WeatherHeight      = 25.0
	SignatureHeight    = 25.0
	TitleBarHeight     = 5.0
)

// Labor columns
const (
	LaborItemRows      = 18
	LaborRowHeight     = 3.5
	LaborTotalsHeight  = 5.0
	LaborColumnsHeight = TitleBarHeight + LaborItemRows*LaborRowHeight + LaborTotalsHeight
)

// Activity table
const (
	ActivityHeaderHeight        = TitleBarHeight + 5.0
	ActivityRowFloor            = 3.5
	ActivityRowHeightSecondPage = 5.25
	ActivityFontSize            = 6.5
)

// Legend
const (
	LegendFontSize   = 6.5
	LegendPadX       = 2.0
	LegendPadY       = 1.5
	LegendLineFactor = 1.15
)

// Observations
const (
	ObservationsFontSize   = 7.0
	ObservationsPadding    = 1.5
	ObservationsMinBox     = 65.0
	ObservationsRuleStep   = 6.0
	ObservationsLineFactor = 1.15
)

// Photo grid
const (
	PhotoGridGapBelowTitle = 2.0
	PhotoGridPadding       = 2.0
	PhotoFrameHeight       = 70.0
	PhotoCaptionHeight     = 12.0
	PhotoColumnGap         = 10.0
	PhotoImagePadding      = 0.5
	PhotoRows              = 2
	PhotoColumns           = 2
	PhotosHeight           = TitleBarHeight + PhotoGridGapBelowTitle + PhotoRows*(PhotoFrameHeight+PhotoCaptionHeight)
)

// DefaultLegend is the legend printed above the labor columns
const DefaultLegend = "Legendas: Tempo: B = Bom, L = Chuva Leve, F = Chuva Forte. " +
	"Trabalho: N = Normal, P = Parcialmente Paralisado, T = Totalmente Paralisado. " +
	"M.O.D = Mão de Obra Direta, M.O.I = Mão de Obra Indireta, Equip. = Equipamentos."

// Rect is an axis-aligned box in page coordinates
type Rect struct {
	X, Y, W, H float64
}

// Bottom returns the y coordinate of the lower edge
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Right returns the x coordinate of the right edge
func (r Rect) Right() float64 { return r.X + r.W }

// Column is one proportional column of a table
type Column struct {
	Title string
	X     float64
	W     float64
}

// activityShares are the Localização, Tipo, Serviço, Status and Observações proportions
var activityShares = []struct {
	title string
	share float64
}{
	{"Localização", 24.14},
	{"Tipo", 13.79},
	{"Serviço", 13.79},
	{"Status", 10.34},
	{"Observações", 37.93},
}

// ActivityColumns splits the content width into the five activity table columns
func ActivityColumns() []Column {
	var total float64
	for _, s := range activityShares {
		total += s.share
	}

	cols := make([]Column, len(activityShares))
	x := Margin
	for i, s := range activityShares {
		w := ContentWidth * s.share / total
		cols[i] = Column{Title: s.title, X: x, W: w}
		x += w
	}
	// absorb rounding so the last column ends on the right margin
	last := &cols[len(cols)-1]
	last.W = Margin + ContentWidth - last.X
	return cols
}

// PhotoCells returns the four photo frames of the grid whose title bar starts at top.
// Cells are ordered left to right, top to bottom.
func PhotoCells(top float64) []Rect {
	gridX := Margin + PhotoGridPadding
	gridY := top + TitleBarHeight + PhotoGridGapBelowTitle
	cellW := (ContentWidth - 2*PhotoGridPadding - PhotoColumnGap) / PhotoColumns
	cellH := PhotoFrameHeight + PhotoCaptionHeight

	cells := make([]Rect, 0, PhotoRows*PhotoColumns)
	for row := 0; row < PhotoRows; row++ {
		for col := 0; col < PhotoColumns; col++ {
			cells = append(cells, Rect{
				X: gridX + float64(col)*(cellW+PhotoColumnGap),
				Y: gridY + float64(row)*cellH,
				W: cellW,
				H: cellH,
			})
		}
	}
	return cells
}

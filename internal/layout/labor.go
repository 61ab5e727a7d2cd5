package layout

import "github.com/a3tai/mcp-rdo-report/internal/report"

// LaborColumn is one category column of the labor section
type LaborColumn struct {
	Category   report.Category
	Title      string
	TotalLabel string
	X          float64
	W          float64
	// Split columns print their lines in two sub-columns of LaborItemRows each.
	Split bool
}

var laborShares = []struct {
	category report.Category
	title    string
	total    string
	share    float64
	split    bool
}{
	{report.CategoryDirect, "MÃO DE OBRA DIRETA", "Total M.O.D = ", 1, false},
	{report.CategoryIndirect, "MÃO DE OBRA INDIRETA", "Total M.O.I = ", 2, true},
	{report.CategoryEquipment, "EQUIPAMENTOS", "Total Equip. = ", 2, true},
}

// LaborColumns returns the three labor columns across the content width
func LaborColumns() []LaborColumn {
	var total float64
	for _, s := range laborShares {
		total += s.share
	}

	cols := make([]LaborColumn, len(laborShares))
	x := Margin
	for i, s := range laborShares {
		w := ContentWidth / total * s.share
		cols[i] = LaborColumn{
			Category:   s.category,
			Title:      s.title,
			TotalLabel: s.total,
			X:          x,
			W:          w,
			Split:      s.split,
		}
		x += w
	}
	return cols
}

// SubColumns returns the x offsets and width of the item stacks of a column
func (c LaborColumn) SubColumns() []Rect {
	if !c.Split {
		return []Rect{{X: c.X, W: c.W, H: LaborItemRows * LaborRowHeight}}
	}
	w := (c.W - 0.1) / 2
	return []Rect{
		{X: c.X, W: w, H: LaborItemRows * LaborRowHeight},
		{X: c.X + w + 0.1, W: w, H: LaborItemRows * LaborRowHeight},
	}
}

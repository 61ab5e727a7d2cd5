package layout

import "fmt"

// Kind identifies a page section
type Kind int

const (
	KindHeader Kind = iota
	KindContractInfo
	KindWeather
	KindLegend
	KindLaborColumns
	KindActivityTable
	KindObservations
	KindPhotos
	KindSignatures
)

// String returns the section name used in logs and tool output
func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindContractInfo:
		return "contract_info"
	case KindWeather:
		return "weather"
	case KindLegend:
		return "legend"
	case KindLaborColumns:
		return "labor_columns"
	case KindActivityTable:
		return "activity_table"
	case KindObservations:
		return "observations"
	case KindPhotos:
		return "photos"
	case KindSignatures:
		return "signatures"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sheet is one of the three physical pages that make up a day
type Sheet int

const (
	SheetLabor Sheet = iota
	SheetActivities
	SheetPhotos
)

// SheetsPerDay is the number of pages printed for every day
const SheetsPerDay = 3

// String returns the sheet name
func (s Sheet) String() string {
	switch s {
	case SheetLabor:
		return "labor"
	case SheetActivities:
		return "activities"
	case SheetPhotos:
		return "photos"
	default:
		return fmt.Sprintf("sheet(%d)", int(s))
	}
}

// Section is the sizing rule of one section: fixed sections always take MinHeight,
// the variable section absorbs whatever is left above the signatures.
type Section struct {
	Kind      Kind
	MinHeight float64
	Variable  bool
	Rows      int
}

// Placement is a section positioned on a page
type Placement struct {
	Kind      Kind    `json:"kind"`
	Top       float64 `json:"top"`
	Height    float64 `json:"height"`
	MinHeight float64 `json:"min_height"`
	Rows      int     `json:"rows,omitempty"`
	RowHeight float64 `json:"row_height,omitempty"`
	// Needed is the intrinsic height of sections sized by their content, zero otherwise.
	Needed float64 `json:"needed,omitempty"`
	// Overflow is set when the content needed more room than it was given and was cut.
	Overflow bool `json:"overflow,omitempty"`
}

// Bottom returns the y coordinate right below the section
func (p Placement) Bottom() float64 { return p.Top + p.Height }

// Rect returns the section box across the content width
func (p Placement) Rect() Rect {
	return Rect{X: Margin, Y: p.Top, W: ContentWidth, H: p.Height}
}

// PageBlock is one physical page of the output
type PageBlock struct {
	DayIndex int         `json:"day_index"`
	Sheet    Sheet       `json:"sheet"`
	NewPage  bool        `json:"new_page"`
	Sections []Placement `json:"sections"`
}

// Section returns the placement of a kind, if the block has one
func (b PageBlock) Section(k Kind) (Placement, bool) {
	for _, p := range b.Sections {
		if p.Kind == k {
			return p, true
		}
	}
	return Placement{}, false
}

// Kinds returns the section kinds of the block in order
func (b PageBlock) Kinds() []Kind {
	kinds := make([]Kind, len(b.Sections))
	for i, p := range b.Sections {
		kinds[i] = p.Kind
	}
	return kinds
}

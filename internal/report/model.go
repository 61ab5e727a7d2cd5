// Package report holds the in-memory RDO document: the shared contract header, the
// roster template and one DayRecord per calendar day. Every operation takes a
// Document and returns an updated copy; nothing in this package keeps global state.
package report

// Category is a labor column of the roster
type Category string

const (
	CategoryDirect    Category = "direct"
	CategoryIndirect  Category = "indirect"
	CategoryEquipment Category = "equipment"
)

// Categories lists the roster columns in the order they are printed
var Categories = []Category{CategoryDirect, CategoryIndirect, CategoryEquipment}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryDirect, CategoryIndirect, CategoryEquipment:
		return true
	}
	return false
}

// RosterLineItem is one job title or equipment line of a day's roster. A nil
// Quantity means the field is empty, which is different from an explicit 0.
type RosterLineItem struct {
	Category Category `yaml:"category" json:"category"`
	Label    string   `yaml:"label" json:"label"`
	DayIndex int      `yaml:"-" json:"day_index"`
	Quantity *int     `yaml:"quantity,omitempty" json:"quantity,omitempty"`
}

// Value returns the quantity, treating empty as zero
func (r RosterLineItem) Value() int {
	if r.Quantity == nil {
		return 0
	}
	return *r.Quantity
}

// IsEmpty reports whether the quantity field is blank
func (r RosterLineItem) IsEmpty() bool {
	return r.Quantity == nil
}

// Qty returns a pointer to n for populating roster quantities
func Qty(n int) *int {
	return &n
}

// ActivityRow is one line of the executed-activities table
type ActivityRow struct {
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
	Type     string `yaml:"type,omitempty" json:"type,omitempty"`
	Service  string `yaml:"service,omitempty" json:"service,omitempty"`
	Status   string `yaml:"status,omitempty" json:"status,omitempty"`
	Notes    string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// Shift holds the weather and work condition codes of one work shift
type Shift struct {
	Label   string `yaml:"label" json:"label"`
	Time    string `yaml:"time,omitempty" json:"time,omitempty"`
	Weather string `yaml:"weather,omitempty" json:"weather,omitempty"` // B, L or F
	Work    string `yaml:"work,omitempty" json:"work,omitempty"`       // N, P or T
}

// Weather is the climate and work-conditions panel of page 1
type Weather struct {
	Shifts   []Shift `yaml:"shifts,omitempty" json:"shifts,omitempty"`
	Rainfall string  `yaml:"rainfall,omitempty" json:"rainfall,omitempty"`
	Notes    string  `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// Photo is one cell of the photographic report
type Photo struct {
	Path    string `yaml:"path,omitempty" json:"path,omitempty"`
	Caption string `yaml:"caption,omitempty" json:"caption,omitempty"`
}

// Totals are the per-category quantity sums shown under the labor columns
type Totals struct {
	Direct    int `yaml:"direct" json:"direct"`
	Indirect  int `yaml:"indirect" json:"indirect"`
	Equipment int `yaml:"equipment" json:"equipment"`
}

// Of returns the total of one category
func (t Totals) Of(c Category) int {
	switch c {
	case CategoryDirect:
		return t.Direct
	case CategoryIndirect:
		return t.Indirect
	case CategoryEquipment:
		return t.Equipment
	}
	return 0
}

// DayRecord is one RDO: every form field of one calendar day
type DayRecord struct {
	Index        int              `yaml:"-" json:"index"`
	Date         string           `yaml:"date" json:"date"` // YYYY-MM-DD
	Weekday      string           `yaml:"weekday,omitempty" json:"weekday,omitempty"`
	Number       string           `yaml:"number,omitempty" json:"number,omitempty"`
	Elapsed      string           `yaml:"elapsed,omitempty" json:"elapsed,omitempty"`
	Remaining    string           `yaml:"remaining,omitempty" json:"remaining,omitempty"`
	Weather      Weather          `yaml:"weather,omitempty" json:"weather,omitempty"`
	Roster       []RosterLineItem `yaml:"roster" json:"roster"`
	Totals       Totals           `yaml:"totals,omitempty" json:"totals"`
	Activities   []ActivityRow    `yaml:"activities,omitempty" json:"activities,omitempty"`
	Continuation []ActivityRow    `yaml:"continuation,omitempty" json:"continuation,omitempty"`
	Observations string           `yaml:"observations,omitempty" json:"observations,omitempty"`
	Photos       []Photo          `yaml:"photos,omitempty" json:"photos,omitempty"`
}

// RosterLabels returns the roster labels in table order
func (d DayRecord) RosterLabels() []string {
	labels := make([]string, len(d.Roster))
	for i, item := range d.Roster {
		labels[i] = item.Label
	}
	return labels
}

// RosterByCategory returns the roster lines of one category, in table order
func (d DayRecord) RosterByCategory(c Category) []RosterLineItem {
	var items []RosterLineItem
	for _, item := range d.Roster {
		if item.Category == c {
			items = append(items, item)
		}
	}
	return items
}

// HasAttendance reports whether any roster line holds a positive quantity
func (d DayRecord) HasAttendance() bool {
	for _, item := range d.Roster {
		if item.Value() > 0 {
			return true
		}
	}
	return false
}

// ContractInfo is the header shared by every page of every day
type ContractInfo struct {
	Contractor     string `yaml:"contractor,omitempty" json:"contractor,omitempty"`
	ContractNumber string `yaml:"contract_number,omitempty" json:"contract_number,omitempty"`
	Deadline       string `yaml:"deadline,omitempty" json:"deadline,omitempty"`     // DD/MM/YYYY
	StartDate      string `yaml:"start_date,omitempty" json:"start_date,omitempty"` // DD/MM/YYYY
	SignatureImage string `yaml:"signature_image,omitempty" json:"signature_image,omitempty"`
}

// Document is the whole multi-day report
type Document struct {
	Contract ContractInfo     `yaml:"contract" json:"contract"`
	Template []RosterLineItem `yaml:"roster_template,omitempty" json:"roster_template,omitempty"`
	Days     []DayRecord      `yaml:"days" json:"days"`

	// AttendanceLoaded is set once any attendance import or copy has touched the roster.
	AttendanceLoaded bool `yaml:"attendance_loaded,omitempty" json:"attendance_loaded"`
	// ClearedByUser is set when the current empty state comes from an explicit clear.
	ClearedByUser bool `yaml:"cleared_by_user,omitempty" json:"cleared_by_user"`
}

// Clone returns a deep copy of the document
func (d Document) Clone() Document {
	out := d
	out.Template = cloneRoster(d.Template)
	out.Days = make([]DayRecord, len(d.Days))
	for i, day := range d.Days {
		out.Days[i] = day.Clone()
	}
	return out
}

// Clone returns a deep copy of the day
func (d DayRecord) Clone() DayRecord {
	out := d
	out.Roster = cloneRoster(d.Roster)
	out.Weather.Shifts = append([]Shift(nil), d.Weather.Shifts...)
	out.Activities = append([]ActivityRow(nil), d.Activities...)
	out.Continuation = append([]ActivityRow(nil), d.Continuation...)
	out.Photos = append([]Photo(nil), d.Photos...)
	return out
}

// DayByDate returns the index of the day with the given ISO date
func (d Document) DayByDate(iso string) (int, bool) {
	for i, day := range d.Days {
		if day.Date == iso {
			return i, true
		}
	}
	return -1, false
}

func cloneRoster(items []RosterLineItem) []RosterLineItem {
	if items == nil {
		return nil
	}
	out := make([]RosterLineItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.Quantity != nil {
			out[i].Quantity = Qty(*item.Quantity)
		}
	}
	return out
}

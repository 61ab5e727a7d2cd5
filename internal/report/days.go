package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NewDocument creates a one-day report starting at firstDate (YYYY-MM-DD) with
// RDO number firstNumber. A nil template falls back to DefaultRosterTemplate.
func NewDocument(contract ContractInfo, template []RosterLineItem, firstDate, firstNumber string) (Document, error) {
	if template == nil {
		template = DefaultRosterTemplate()
	}
	if err := ValidateRoster(template); err != nil {
		return Document{}, err
	}
	if _, ok := ParseISO(firstDate); !ok {
		return Document{}, fmt.Errorf("invalid first date %q (expected YYYY-MM-DD)", firstDate)
	}
	if firstNumber == "" {
		firstNumber = "1-A"
	}

	doc := Document{
		Contract: contract,
		Template: cloneRoster(template),
	}
	day := NewDay(doc.Template, 0)
	day.Date = firstDate
	day.Number = firstNumber
	doc.Days = []DayRecord{day}

	return RecomputeDerivedFields(doc), nil
}

// NewDay builds an empty day from the roster template. The roster is deep-copied
// and every quantity starts empty.
func NewDay(template []RosterLineItem, index int) DayRecord {
	roster := cloneRoster(template)
	for i := range roster {
		roster[i].DayIndex = index
		roster[i].Quantity = nil
	}
	return DayRecord{
		Index:  index,
		Roster: roster,
		Weather: Weather{
			Shifts: DefaultShifts(),
		},
		Photos: make([]Photo, PhotoSlots),
	}
}

// NextNumber returns the RDO number following prev: the base number before the
// first '-' plus one, with the "-A" suffix. Unparsable numbers restart at 1.
func NextNumber(prev string) string {
	base := strings.TrimSpace(strings.SplitN(prev, "-", 2)[0])
	n, err := strconv.Atoi(base)
	if err != nil {
		return "1-A"
	}
	return fmt.Sprintf("%d-A", n+1)
}

// AddDay appends a fresh day after the last one: next calendar date, next RDO
// number, empty roster and content.
func AddDay(doc Document) Document {
	out := doc.Clone()
	if len(out.Days) == 0 {
		day := NewDay(out.Template, 0)
		day.Number = "1-A"
		out.Days = append(out.Days, day)
		return RecomputeDerivedFields(out)
	}

	prev := out.Days[len(out.Days)-1]
	day := NewDay(out.Template, len(out.Days))
	if t, ok := ParseISO(prev.Date); ok {
		day.Date = FormatISO(t.AddDate(0, 0, 1))
	}
	day.Number = NextNumber(prev.Number)
	out.Days = append(out.Days, day)

	return RecomputeDerivedFields(out)
}

// RemoveLastDay drops the last day. The report always keeps at least one day, so
// a single-day document is returned unchanged.
func RemoveLastDay(doc Document) Document {
	out := doc.Clone()
	if len(out.Days) <= 1 {
		return out
	}
	out.Days = out.Days[:len(out.Days)-1]
	return RecomputeDerivedFields(out)
}

// AdjustDaysForMonth anchors day 0 on baseDate (YYYY-MM-DD) and grows or shrinks
// the report to one day per calendar day in baseDate's month. It also returns
// whether the day count changed.
func AdjustDaysForMonth(doc Document, baseDate string) (Document, bool, error) {
	t, ok := ParseISO(baseDate)
	if !ok {
		return doc, false, fmt.Errorf("invalid base date %q (expected YYYY-MM-DD)", baseDate)
	}
	target := DaysInMonth(t.Year(), t.Month())

	out := doc.Clone()
	if len(out.Days) == 0 {
		out = AddDay(out)
	}
	out.Days[0].Date = FormatISO(t)

	adjusted := false
	for len(out.Days) < target {
		out = AddDay(out)
		adjusted = true
	}
	for len(out.Days) > target && len(out.Days) > 1 {
		out = RemoveLastDay(out)
		adjusted = true
	}

	return RecomputeDerivedFields(out), adjusted, nil
}

// Reindex restores contiguous day indices on days and their roster lines
func Reindex(doc Document) Document {
	for i := range doc.Days {
		doc.Days[i].Index = i
		for j := range doc.Days[i].Roster {
			doc.Days[i].Roster[j].DayIndex = i
		}
	}
	return doc
}

// IsSunday reports whether the ISO date falls on a Sunday
func IsSunday(iso string) bool {
	t, ok := ParseISO(iso)
	return ok && t.Weekday() == time.Sunday
}

package report

import (
	"strconv"
	"strings"
	"time"
)

const (
	// ISOLayout is the layout of DayRecord.Date
	ISOLayout = "2006-01-02"
	// BRLayout is the DD/MM/YYYY layout used for contract dates and on the printed form
	BRLayout = "02/01/2006"
)

var weekdays = [...]string{
	"domingo",
	"segunda-feira",
	"terça-feira",
	"quarta-feira",
	"quinta-feira",
	"sexta-feira",
	"sábado",
}

// ParseDMY parses a strict DD/MM/YYYY date. The year must lie strictly between 1000
// and 3000 and the components must round-trip, so 31/02/2024 is rejected.
func ParseDMY(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return time.Time{}, false
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	if year <= 1000 || year >= 3000 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// ParseISO parses a YYYY-MM-DD date
func ParseISO(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(ISOLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatISO formats t as YYYY-MM-DD
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// FormatDMY formats t as DD/MM/YYYY
func FormatDMY(t time.Time) string {
	return t.Format(BRLayout)
}

// ISOToDMY converts YYYY-MM-DD to DD/MM/YYYY, returning the input unchanged when it
// does not parse.
func ISOToDMY(iso string) string {
	t, ok := ParseISO(iso)
	if !ok {
		return iso
	}
	return FormatDMY(t)
}

// WeekdayName returns the Portuguese weekday name of t
func WeekdayName(t time.Time) string {
	return weekdays[t.Weekday()]
}

// DaysBetween returns the number of calendar days from start to end
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// DaysInMonth returns the number of days of the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDMY(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"10/03/2024", "2024-03-10", true},
		{"1/3/2024", "2024-03-01", true},
		{" 29/02/2024 ", "2024-02-29", true},
		{"31/02/2024", "", false},
		{"29/02/2023", "", false},
		{"00/01/2024", "", false},
		{"10/13/2024", "", false},
		{"10/03/1000", "", false},
		{"10/03/3000", "", false},
		{"2024-03-10", "", false},
		{"10/03", "", false},
		{"aa/03/2024", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDMY(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, FormatISO(got))
			}
		})
	}
}

func TestParseDMYRoundTrip(t *testing.T) {
	start := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 800; i++ {
		d := start.AddDate(0, 0, i)
		dmy := FormatDMY(d)

		parsed, ok := ParseDMY(dmy)
		require.True(t, ok, dmy)

		iso := FormatISO(parsed)
		back, ok := ParseISO(iso)
		require.True(t, ok, iso)

		again, ok := ParseDMY(FormatDMY(back))
		require.True(t, ok)
		assert.True(t, again.Equal(d), "round trip changed %s", dmy)
	}
}

func TestWeekdayName(t *testing.T) {
	sunday, _ := ParseISO("2024-03-10")
	saturday, _ := ParseISO("2024-03-09")
	wednesday, _ := ParseISO("2024-03-13")

	assert.Equal(t, "domingo", WeekdayName(sunday))
	assert.Equal(t, "sábado", WeekdayName(saturday))
	assert.Equal(t, "quarta-feira", WeekdayName(wednesday))
}

func TestDaysBetweenAndMonthLength(t *testing.T) {
	a, _ := ParseISO("2024-02-28")
	b, _ := ParseISO("2024-03-01")
	assert.Equal(t, 2, DaysBetween(a, b))
	assert.Equal(t, -2, DaysBetween(b, a))

	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2023, time.February))
	assert.Equal(t, 31, DaysInMonth(2024, time.December))
	assert.Equal(t, 30, DaysInMonth(2024, time.April))
}

func TestISOToDMY(t *testing.T) {
	assert.Equal(t, "10/03/2024", ISOToDMY("2024-03-10"))
	assert.Equal(t, "garbage", ISOToDMY("garbage"))
}

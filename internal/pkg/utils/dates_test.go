package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLateMinutes(t *testing.T) {
	cases := []struct {
		scheduled, actual string
		want              int
	}{
		{"08:00", "08:12", 12},
		{"08:00", "07:50", 0},
		{"08:00", "08:00", 0},
		{"22:30", "23:59", 89},
		{"8:05", "9:00", 55},
		{"", "08:12", 0},
		{"08:00", "bad", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LateMinutes(c.scheduled, c.actual), "LateMinutes(%q, %q)", c.scheduled, c.actual)
	}
}

func TestLateMinutes_NeverNegativeAcrossDay(t *testing.T) {
	for s := 0; s < 24*60; s += 37 {
		for a := 0; a < 24*60; a += 41 {
			sched := time.Date(2024, 1, 1, s/60, s%60, 0, 0, time.UTC).Format("15:04")
			actual := time.Date(2024, 1, 1, a/60, a%60, 0, 0, time.UTC).Format("15:04")
			want := a - s
			if want < 0 {
				want = 0
			}
			require.Equal(t, want, LateMinutes(sched, actual))
		}
	}
}

func TestAddDays(t *testing.T) {
	base, err := ParseDate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-13", FormatDate(AddDays(base, 3)))

	endOfFeb, _ := ParseDate("2024-02-27")
	assert.Equal(t, "2024-03-01", FormatDate(AddDays(endOfFeb, 3)))
}

func TestFormatDateAR(t *testing.T) {
	d, _ := ParseDate("2024-03-05")
	assert.Equal(t, "5/3/2024", FormatDateAR(d))
	assert.Equal(t, "-", FormatOptionalDateAR(nil))
}

func TestMonthHelpers(t *testing.T) {
	m, err := ParseMonth("2024-12")
	require.NoError(t, err)
	assert.Equal(t, "diciembre de 2024", MonthLabelES(m))

	start, end := MonthRange(m)
	assert.Equal(t, "2024-12-01", FormatDate(start))
	assert.Equal(t, "2025-01-01", FormatDate(end))
	assert.Equal(t, "2024-12", FormatMonth(start))
}

func TestToday(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	// 01:30 UTC on the 11th is still the 10th in Buenos Aires (UTC-3).
	now := time.Date(2024, 3, 11, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-10", FormatDate(Today(now, loc)))
}

func TestParseOptionalDate(t *testing.T) {
	empty := ""
	got, err := ParseOptionalDate(&empty)
	assert.NoError(t, err)
	assert.Nil(t, got)

	bad := "10/03/2024"
	_, err = ParseOptionalDate(&bad)
	assert.Error(t, err)
}

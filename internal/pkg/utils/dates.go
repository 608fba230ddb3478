package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var monthNamesES = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// ParseClock converts an HH:MM string into minutes since midnight.
func ParseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// LateMinutes returns max(0, actual-scheduled) in minutes, or 0 when either time is unparsable.
func LateMinutes(scheduled, actual string) int {
	s, ok := ParseClock(scheduled)
	if !ok {
		return 0
	}
	a, ok := ParseClock(actual)
	if !ok {
		return 0
	}
	if a <= s {
		return 0
	}
	return a - s
}

// AddDays adds calendar days to a date.
func AddDays(date time.Time, days int) time.Time {
	return date.AddDate(0, 0, days)
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay compares calendar dates ignoring time and location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Today returns the current calendar date in loc as a UTC midnight value,
// matching how DATE columns are scanned.
func Today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ParseOptionalDate returns nil for an empty string.
func ParseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatOptionalDate renders nil as nil.
func FormatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}

// FormatDateAR renders a date the way es-AR short dates read: d/m/yyyy.
func FormatDateAR(t time.Time) string {
	return t.Format("2/1/2006")
}

// FormatOptionalDateAR renders nil as "-".
func FormatOptionalDateAR(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return FormatDateAR(*t)
}

// MonthLabelES renders "marzo de 2024".
func MonthLabelES(t time.Time) string {
	return fmt.Sprintf("%s de %d", monthNamesES[t.Month()-1], t.Year())
}

// ParseMonth parses YYYY-MM into the first day of that month (UTC).
func ParseMonth(s string) (time.Time, error) {
	return time.Parse("2006-01", strings.TrimSpace(s))
}

// FormatMonth renders YYYY-MM.
func FormatMonth(t time.Time) string {
	return t.Format("2006-01")
}

// MonthRange returns [first day of month, first day of next month).
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

package cron

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// searchHorizon bounds the recurrence so expressions that never fire (e.g. "0 0 30 2 *") terminate.
const searchHorizon = 5 * 366 * 24 * time.Hour

type field struct {
	name     string
	min, max int
}

var (
	minuteField  = field{"minute", 0, 59}
	hourField    = field{"hour", 0, 23}
	domField     = field{"day-of-month", 1, 31}
	monthField   = field{"month", 1, 12}
	weekdayField = field{"day-of-week", 0, 7}
)

var weekdays = [...]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// Schedule is a parsed five-field cron expression: minute hour day-of-month month day-of-week.
type Schedule struct {
	expr     string
	minutes  []int
	hours    []int
	days     []int
	months   []int
	weekdays []rrule.Weekday

	// Standard cron semantics: when both day fields are restricted a day matches either of them.
	domRestricted bool
	dowRestricted bool
}

// Parse parses a cron expression. Fields accept "*", lists, ranges and steps ("*/5", "1-10/2").
func Parse(expr string) (Schedule, error) {
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return Schedule{}, fmt.Errorf("cron expression %q: expected 5 fields, got %d", expr, len(parts))
	}

	minutes, err := parseField(parts[0], minuteField)
	if err != nil {
		return Schedule{}, fmt.Errorf("cron expression %q: %w", expr, err)
	}
	hours, err := parseField(parts[1], hourField)
	if err != nil {
		return Schedule{}, fmt.Errorf("cron expression %q: %w", expr, err)
	}
	days, err := parseField(parts[2], domField)
	if err != nil {
		return Schedule{}, fmt.Errorf("cron expression %q: %w", expr, err)
	}
	months, err := parseField(parts[3], monthField)
	if err != nil {
		return Schedule{}, fmt.Errorf("cron expression %q: %w", expr, err)
	}
	dows, err := parseField(parts[4], weekdayField)
	if err != nil {
		return Schedule{}, fmt.Errorf("cron expression %q: %w", expr, err)
	}

	seen := make(map[int]bool)
	var wds []rrule.Weekday
	for _, d := range dows {
		d %= 7
		if !seen[d] {
			seen[d] = true
			wds = append(wds, weekdays[d])
		}
	}

	return Schedule{
		expr:          expr,
		minutes:       minutes,
		hours:         hours,
		days:          days,
		months:        months,
		weekdays:      wds,
		domRestricted: parts[2] != "*",
		dowRestricted: parts[4] != "*",
	}, nil
}

func (s Schedule) String() string {
	return s.expr
}

// Next returns the first fire time strictly after t, evaluated in loc.
// The zero time is returned when nothing fires within the search horizon.
func (s Schedule) Next(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), 0, 0, loc)

	set := &rrule.Set{}
	for _, opt := range s.options(start) {
		r, err := rrule.NewRRule(opt)
		if err != nil {
			return time.Time{}
		}
		set.RRule(r)
	}
	return set.After(local, false)
}

func (s Schedule) options(start time.Time) []rrule.ROption {
	base := rrule.ROption{
		Freq:     rrule.DAILY,
		Dtstart:  start,
		Until:    start.Add(searchHorizon),
		Byhour:   s.hours,
		Byminute: s.minutes,
		Bysecond: []int{0},
		Bymonth:  s.months,
	}

	switch {
	case s.domRestricted && s.dowRestricted:
		byDay := base
		byDay.Bymonthday = s.days
		byWeekday := base
		byWeekday.Byweekday = s.weekdays
		return []rrule.ROption{byDay, byWeekday}
	case s.domRestricted:
		base.Bymonthday = s.days
	case s.dowRestricted:
		base.Byweekday = s.weekdays
	}
	return []rrule.ROption{base}
}

func parseField(spec string, f field) ([]int, error) {
	seen := make(map[int]bool)
	var out []int
	for _, part := range strings.Split(spec, ",") {
		values, err := parseRange(part, f)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func parseRange(part string, f field) ([]int, error) {
	if part == "" {
		return nil, fmt.Errorf("%s: empty value", f.name)
	}

	step := 1
	if idx := strings.Index(part, "/"); idx >= 0 {
		n, err := strconv.Atoi(part[idx+1:])
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%s: invalid step %q", f.name, part[idx+1:])
		}
		step = n
		part = part[:idx]
	}

	lo, hi := f.min, f.max
	switch {
	case part == "*":
	case strings.Contains(part, "-"):
		bounds := strings.SplitN(part, "-", 2)
		var err error
		if lo, err = parseValue(bounds[0], f); err != nil {
			return nil, err
		}
		if hi, err = parseValue(bounds[1], f); err != nil {
			return nil, err
		}
		if lo > hi {
			return nil, fmt.Errorf("%s: invalid range %q", f.name, part)
		}
	default:
		v, err := parseValue(part, f)
		if err != nil {
			return nil, err
		}
		lo = v
		if step == 1 {
			hi = v
		}
	}

	var out []int
	for v := lo; v <= hi; v += step {
		out = append(out, v)
	}
	return out, nil
}

func parseValue(s string, f field) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid value %q", f.name, s)
	}
	if v < f.min || v > f.max {
		return 0, fmt.Errorf("%s: value %d out of range [%d, %d]", f.name, v, f.min, f.max)
	}
	return v, nil
}

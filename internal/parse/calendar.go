package parse

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns the instant this clock reads on the given calendar day in loc.
func (c Clock) On(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// ParseClock parses a 24 hour "HH:MM" time.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("%q is not a valid time, expected HH:MM", s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ParseDate parses a "YYYY-MM-DD" calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a valid date, expected YYYY-MM-DD", s)
	}
	return t, nil
}

var weekdays = map[string]time.Weekday{
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
	"SUN": time.Sunday,
}

// ParseWeekday accepts the three letter abbreviations MON through SUN in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	d, ok := weekdays[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%q is not a weekday, expected one of MON TUE WED THU FRI SAT SUN", s)
	}
	return d, nil
}

// ParseList splits a comma or space separated list and parses every item with fn.
func ParseList[T any](s string, fn func(string) (T, error)) ([]T, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]T, 0, len(fields))
	for _, f := range fields {
		v, err := fn(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

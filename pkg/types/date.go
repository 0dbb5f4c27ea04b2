package types

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used on the wire and as map keys
const DateLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD into a UTC midnight
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// DateOnly drops the time part and keeps the calendar date as UTC midnight
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats the calendar date of t
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Combine builds the literal slot instant (date + wall clock) without any zone conversion
func Combine(date time.Time, at TimeString) (time.Time, error) {
	minutes, err := at.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, time.UTC), nil
}

// WallClock returns now as it reads on a wall clock in loc, re-expressed as a UTC literal.
// Slot instants are literal local times, so comparisons must use this value.
func WallClock(now time.Time, loc *time.Location) time.Time {
	if loc != nil {
		now = now.In(loc)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
}

// DaysBetween returns every date from start to end inclusive
func DaysBetween(start, end time.Time) []time.Time {
	start, end = DateOnly(start), DateOnly(end)
	if end.Before(start) {
		return nil
	}
	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Package dateutil handles calendar dates (no time of day) in UTC.
package dateutil

import (
	"time"
)

const Layout = "2006-01-02"

// ParseDate parses YYYY-MM-DD into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.UTC)
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// Truncate drops the time of day, keeping the calendar date of t.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInclusive counts calendar days in [start, end]. It returns 0 when end
// precedes start.
func DaysInclusive(start, end time.Time) int {
	s, e := Truncate(start), Truncate(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// MonthRange returns the first and last calendar day of month/year.
func MonthRange(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func DaysInMonth(month, year int) int {
	_, end := MonthRange(month, year)
	return end.Day()
}

// Clip intersects [start, end] with [lo, hi]. ok is false when they do not
// overlap.
func Clip(start, end, lo, hi time.Time) (time.Time, time.Time, bool) {
	s, e := Truncate(start), Truncate(end)
	if s.Before(lo) {
		s = lo
	}
	if e.After(hi) {
		e = hi
	}
	return s, e, !e.Before(s)
}

// Package valueobject contains domain value objects for the Budget Tracker system.
package valueobject

import (
	"time"
)

// MonthsPerYear is the number of valid month indexes (0..11).
const MonthsPerYear = 12

// Period is the inclusive calendar range a budget covers.
type Period struct {
	Start time.Time
	End   time.Time
}

// MonthPeriod returns the period for a zero-based month index in the given year.
// Start is the first instant of the month and End the last representable
// microsecond of it, both in UTC.
func MonthPeriod(year, monthIndex int) Period {
	start := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Microsecond)
	return Period{Start: start, End: end}
}

// ValidMonthIndex reports whether idx is a zero-based month index.
func ValidMonthIndex(idx int) bool {
	return idx >= 0 && idx < MonthsPerYear
}

// MonthIndexOf returns the zero-based UTC month index of t.
func MonthIndexOf(t time.Time) int {
	return int(t.UTC().Month()) - 1
}

// MonthInPast reports whether the month index is before now's month.
// Month indexes always refer to now's year.
func MonthInPast(monthIndex int, now time.Time) bool {
	return monthIndex < MonthIndexOf(now)
}

// SameMonth reports whether a and b fall in the same UTC year and month.
func SameMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Contains reports whether t lies in [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

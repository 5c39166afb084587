// Package datetime provides calendar-date utility functions.
package datetime

import (
	"time"

	"github.com/spriced-qa/pricing-audit/pkg/constants"
)

const (
	// DateLayout is the calendar-date format used across the application.
	DateLayout = constants.DateLayout
)

// ParseDate parses a date string using DateLayout into a date-only time.Time
// in UTC. Truncating to a calendar date keeps comparisons stable regardless
// of the time zone the value was captured in.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// MustParseDate parses a date string using DateLayout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseDate(dateStr string) time.Time {
	t, err := ParseDate(dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// Day strips any time-of-day component, returning the calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// OnOrBefore returns true if date is on or before ref, compared as calendar
// dates.
func OnOrBefore(date, ref time.Time) bool {
	return !Day(date).After(Day(ref))
}

// SameDay returns true if both times fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

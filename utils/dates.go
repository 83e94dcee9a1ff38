package utils

import (
	"errors"
	"fmt"
	"time"
)

// Shared calendar helpers for the availability engine. All date comparisons
// in the project go through DateOnly first so that time-of-day and timezone
// never shift a stay across a midnight boundary.

const dateLayout = "2006-01-02"

var (
	ErrMonthFormat = errors.New("month must be in YYYY-MM format")
	ErrMonthRange  = errors.New("Month must be between 01 and 12")
)

// DateOnly strips the time-of-day and pins the value to UTC midnight.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOnly(t), nil
}

// FormatDate renders a date-only value as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseMonth parses a YYYY-MM month string. An out-of-range month number
// (not 01-12) returns ErrMonthRange so callers can report it precisely.
func ParseMonth(s string) (int, time.Month, error) {
	var year, month int
	if _, err := fmt.Sscanf(s, "%4d-%2d", &year, &month); err != nil || len(s) != 7 || s[4] != '-' {
		return 0, 0, ErrMonthFormat
	}
	if month < 1 || month > 12 {
		return 0, 0, ErrMonthRange
	}
	if year < 1 {
		return 0, 0, ErrMonthFormat
	}
	return year, time.Month(month), nil
}

// MonthWindow returns the half-open interval [first day, first day of next
// month) for a year/month pair.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// DaysInMonth returns 28..31 for the given month, leap years included.
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Overlaps reports whether the stay [bStart, bEnd) intersects the query
// window [qStart, qEnd) under half-open semantics: a checkout on day N and a
// check-in on day N do not collide.
//
// A zero-length stay (bStart == bEnd) is an administrative single-day block
// and is matched by any window containing that day.
func Overlaps(bStart, bEnd, qStart, qEnd time.Time) bool {
	if bStart.Equal(bEnd) {
		return !bStart.Before(qStart) && bStart.Before(qEnd)
	}
	return bStart.Before(qEnd) && bEnd.After(qStart)
}

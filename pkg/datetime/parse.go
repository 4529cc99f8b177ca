// Package datetime provides date and time utility functions.
package datetime

import (
	"time"
)

// MonthYearLayout renders dates as "January 2006".
const MonthYearLayout = "January 2006"

// MonthKeyLayout renders dates as "2006-01"; used to bucket date-dependent values.
const MonthKeyLayout = "2006-01"

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// OffsetMonths returns t shifted by the given number of months. Day overflow
// normalizes forward the same way time.AddDate does (Jan 31 + 1 month = Mar 2 or 3).
func OffsetMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}

// FormatMonthYear renders t as "January 2006".
func FormatMonthYear(t time.Time) string {
	return t.Format(MonthYearLayout)
}

// MonthKey renders t as "2006-01".
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

package dateutil

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the only accepted date format, both in configuration and in output.
const DateLayout = "2006-01-02"

// ErrInvalidDate is the sentinel behind InvalidDateError.
var ErrInvalidDate = errors.New("invalid date")

// InvalidDateError reports a malformed date string or a day index that does not round-trip
type InvalidDateError struct {
	Value  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Value, e.Reason)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

var datePattern = regexp.MustCompile(`^20\d\d-\d\d-\d\d$`)

// Calendar maps YYYY-MM-DD strings to day indexes (whole days since 1970-01-01 UTC) and back.
type Calendar struct{}

// ToDay parses a date string into its day index
func (Calendar) ToDay(date string) (int, error) {
	if date == "" {
		return 0, &InvalidDateError{Value: date, Reason: "date is required"}
	}
	if !datePattern.MatchString(date) {
		return 0, &InvalidDateError{Value: date, Reason: "expected format 20YY-MM-DD"}
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, &InvalidDateError{Value: date, Reason: "not a calendar date"}
	}
	return DayOf(t), nil
}

// ToDate formats a day index, failing when the result does not parse back to the same day
func (c Calendar) ToDate(day int) (string, error) {
	s := Time(day).Format(DateLayout)
	back, err := c.ToDay(s)
	if err != nil {
		return "", &InvalidDateError{Value: s, Reason: fmt.Sprintf("day %d is outside the supported range", day)}
	}
	if back != day {
		return "", &InvalidDateError{Value: s, Reason: fmt.Sprintf("round trip of day %d produced %d", day, back)}
	}
	return s, nil
}

// MustDay parses a date known to be valid (tests and built-in tables)
func (c Calendar) MustDay(date string) int {
	d, err := c.ToDay(date)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns UTC midnight of a day index
func Time(day int) time.Time {
	return time.Unix(int64(day)*86400, 0).UTC()
}

// DayOf returns the day index of a time, ignoring its clock
func DayOf(t time.Time) int {
	u := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(u.Unix() / 86400)
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns the number of days in a given year
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// LastDayOfMonth returns the final day number of the given month
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay maps a configured day-of-month onto a real day of the given month,
// so 31 means "last day" in shorter months.
func ClampDay(year int, month time.Month, day int) int {
	last := LastDayOfMonth(year, month)
	if day > last {
		return last
	}
	return day
}

// IsMonthlyAnniversary reports whether t falls on the monthly anniversary of origin
// (strictly after origin). Origins late in the month fall on the last day of shorter months.
func IsMonthlyAnniversary(origin, t time.Time) bool {
	if !t.After(origin) {
		return false
	}
	return t.Day() == ClampDay(t.Year(), t.Month(), origin.Day())
}

// IsYearlyAnniversary reports whether t is an anniversary of origin (strictly after origin).
// A Feb 29 origin falls on Feb 28 in common years.
func IsYearlyAnniversary(origin, t time.Time) bool {
	if !t.After(origin) || t.Month() != origin.Month() {
		return false
	}
	return t.Day() == ClampDay(t.Year(), t.Month(), origin.Day())
}

// YearsBetween calculates the fractional number of years between two dates
func YearsBetween(fromDate, toDate time.Time) float64 {
	duration := toDate.Sub(fromDate)
	return duration.Hours() / 24 / 365.25
}

// AddYears adds a specified number of years to a date
func AddYears(date time.Time, years int) time.Time {
	return date.AddDate(years, 0, 0)
}

// IsMonthDay reports whether t falls on the given month and day
func IsMonthDay(t time.Time, month time.Month, day int) bool {
	return t.Month() == month && t.Day() == day
}

// Package date provides a civil date type with day granularity.
//
// Billing math in this tool works on whole calendar days; carrying a
// time.Time around invites timezone and DST bugs when adding day offsets.
// All ledger and billing code uses this type and converts to time.Time
// only at the API boundary.
package date

import (
	"fmt"
	"time"
)

// LedgerFormat is the format used in the ledger file (e.g. "10/21/2017").
const LedgerFormat = "01/02/2006"

// ISOFormat is the format used in API query parameters.
const ISOFormat = "2006-01-02"

// Date represents a calendar date with no time-of-day component.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date in the local timezone.
func Today() Date {
	return New(time.Now().Date())
}

// time returns the canonical time.Time for the date (midnight UTC).
func (d Date) time() time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC)
}

// Add returns a new Date with the given number of days added.
// Negative offsets move backwards.
func (d Date) Add(days int) Date {
	return New(d.y, d.m, d.d+days)
}

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// Equal reports whether d and x are the same calendar day.
func (d Date) Equal(x Date) bool { return d == x }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// Time returns the date as a time.Time at midnight UTC.
func (d Date) Time() time.Time { return d.time() }

// String formats the date in the ledger format.
func (d Date) String() string { return d.time().Format(LedgerFormat) }

// ISO formats the date as an ISO-8601 calendar date.
func (d Date) ISO() string { return d.time().Format(ISOFormat) }

// Short formats the date as MM/DD/YY, used in invoice descriptions
// and mail subjects.
func (d Date) Short() string { return d.time().Format("01/02/06") }

// Parse parses a date in the ledger format.
func Parse(s string) (Date, error) {
	t, err := time.Parse(LedgerFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format like 10/21/2017: %w", s, err)
	}
	return New(t.Date()), nil
}

// MustParse is like Parse but panics on error. For tests and constants.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// ParseISO parses an ISO-8601 calendar date.
func ParseISO(s string) (Date, error) {
	t, err := time.Parse(ISOFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format like 2017-10-21: %w", s, err)
	}
	return New(t.Date()), nil
}

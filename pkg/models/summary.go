package models

import "github.com/shopspring/decimal"

// TimeSummary is the aggregated billable time for one client over one
// billing interval, as reported by the time-tracking system.
type TimeSummary struct {
	// WorkHours is the total tracked time in hours, rounded to two
	// decimal places.
	WorkHours decimal.Decimal

	// TotalMillis is the raw grand total from the report, in
	// milliseconds. Kept for diagnostics.
	TotalMillis int64
}

// HoursFromMillis converts a report grand total in milliseconds to
// hours rounded to two decimal places.
func HoursFromMillis(millis int64) decimal.Decimal {
	return decimal.NewFromInt(millis).
		Div(decimal.NewFromInt(1000 * 60 * 60)).
		Round(2)
}

// NewTimeSummary builds a TimeSummary from a report grand total.
func NewTimeSummary(totalMillis int64) TimeSummary {
	return TimeSummary{
		WorkHours:   HoursFromMillis(totalMillis),
		TotalMillis: totalMillis,
	}
}

// IsZero reports whether no billable time was tracked.
func (s TimeSummary) IsZero() bool {
	return s.WorkHours.IsZero()
}

// Package billing holds the invoice scheduling and reconciliation
// logic: which clients are due, what date range to bill, and how a
// candidate invoice is matched against invoices already open in the
// accounting system.
//
// Everything here is pure. The current date is always passed in, and
// operator interaction happens through the Confirmer interface, so the
// whole package is testable without collaborators.
package billing

import (
	"autoinvoice/internal/date"
	"autoinvoice/internal/ledger"
)

// Interval is one billing period, both endpoints inclusive.
type Interval struct {
	Since date.Date
	Until date.Date
}

// String formats the interval for prompts and log output.
func (i Interval) String() string {
	return i.Since.String() + " to " + i.Until.String()
}

// Days returns the number of calendar days the interval covers.
func (i Interval) Days() int {
	return int(i.Until.Time().Sub(i.Since.Time()).Hours()/24) + 1
}

// NextInterval derives the next billing interval for a client:
// the day after the last invoice through one full period later.
//
// A client with no invoicing history is treated as if it was last
// invoiced one period ago, making it immediately eligible. The second
// return value reports that this default was applied so the caller can
// surface it to the operator rather than billing silently.
func NextInterval(c *ledger.Client, today date.Date) (Interval, bool) {
	last := c.LastInvoice
	defaulted := false
	if last.IsZero() {
		last = today.Add(-c.InvoicePeriodDays)
		defaulted = true
	}
	return Interval{
		Since: last.Add(1),
		Until: last.Add(c.InvoicePeriodDays),
	}, defaulted
}

// NextInvoiceEnd returns the end date of the client's next billing
// period. The second return value is false for a client that has never
// been invoiced.
func NextInvoiceEnd(c *ledger.Client) (date.Date, bool) {
	if c.LastInvoice.IsZero() {
		return date.Date{}, false
	}
	return c.LastInvoice.Add(c.InvoicePeriodDays), true
}

// NeedsInvoice reports whether the client is due for invoicing as of
// today: always true for a never-invoiced client, otherwise true once
// today is strictly after the end of the next billing period.
func NeedsInvoice(c *ledger.Client, today date.Date) bool {
	end, ok := NextInvoiceEnd(c)
	if !ok {
		return true
	}
	return today.After(end)
}

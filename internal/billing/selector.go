package billing

import (
	"autoinvoice/internal/date"
	"autoinvoice/internal/ledger"
)

// SelectDue filters the ledger down to the clients due for invoicing
// as of today. The input order is preserved; nothing is mutated, so
// calling it twice over an unchanged ledger yields the same set.
func SelectDue(clients []*ledger.Client, today date.Date) []*ledger.Client {
	var due []*ledger.Client
	for _, c := range clients {
		if NeedsInvoice(c, today) {
			due = append(due, c)
		}
	}
	return due
}

// NextInvoiceDates returns the next invoice end date for every client
// not yet due, keyed by client name. Never-invoiced clients are always
// due, so they never appear here; every returned date applies the same
// defaulting rule as NextInterval and is therefore deterministic.
func NextInvoiceDates(clients []*ledger.Client, today date.Date) map[string]date.Date {
	next := make(map[string]date.Date)
	for _, c := range clients {
		if NeedsInvoice(c, today) {
			continue
		}
		interval, _ := NextInterval(c, today)
		next[c.Name] = interval.Until
	}
	return next
}

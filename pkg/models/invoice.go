package models

import (
	"github.com/shopspring/decimal"

	"autoinvoice/internal/date"
)

// Invoice statuses as reported by the accounting system. An invoice is
// considered open when it has been authorised but not yet paid or voided.
const (
	StatusDraft      = "DRAFT"
	StatusAuthorised = "AUTHORISED"
	StatusPaid       = "PAID"
	StatusVoided     = "VOIDED"
)

type Invoice struct {
	// Core identifiers
	ID            string // Accounting system invoice identifier (GUID)
	InvoiceNumber string // Human-readable invoice number

	// Party
	ContactID string // Accounting contact the invoice is billed to

	// Dates
	IssueDate date.Date // Date the invoice was issued
	DueDate   date.Date // Payment due date

	// Amounts. Stored as exact decimals so reconciliation can compare
	// a candidate amount against existing invoice totals with no
	// tolerance window.
	Total    decimal.Decimal // Invoice total
	Currency string          // Currency code (USD, EUR, etc.)

	// Status
	Status string // DRAFT, AUTHORISED, PAID, VOIDED

	// Optional metadata
	Reference   string // External reference number
	Description string // First line item description
}

// IsOpen reports whether the invoice is authorised and still unpaid.
func (i *Invoice) IsOpen() bool {
	return i.Status == StatusAuthorised
}

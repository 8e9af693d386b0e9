package workflow

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"autoinvoice/internal/billing"
)

var (
	// ErrUnaccountedTime is the hard stop: tracked time exists that is
	// not attributed to any billable project, so no invoice may be
	// created for anyone until the operator cleans it up.
	ErrUnaccountedTime = errors.New("unaccounted time exists")

	// ErrAmbiguousInvoice is returned when multiple open invoices
	// match the candidate amount and the operator elected to abort.
	ErrAmbiguousInvoice = errors.New("multiple open invoices match the candidate amount")
)

// UnaccountedTimeError reports tracked-but-unattributed hours found
// during the pre-flight check. Fatal for the entire run.
type UnaccountedTimeError struct {
	WorkspaceID int64
	Interval    billing.Interval
	Hours       decimal.Decimal
}

func (e *UnaccountedTimeError) Error() string {
	return fmt.Sprintf(
		"%s hours tracked between %s are not assigned to any project; assign or delete them before invoicing",
		e.Hours.StringFixed(2), e.Interval)
}

func (e *UnaccountedTimeError) Unwrap() error { return ErrUnaccountedTime }

// AmbiguousInvoiceError records the operator's decision to abort on an
// ambiguous reconciliation. Fatal for the run; the ledger is not
// advanced for the affected client.
type AmbiguousInvoiceError struct {
	Client string
	Amount decimal.Decimal
}

func (e *AmbiguousInvoiceError) Error() string {
	return fmt.Sprintf("client %s: aborted, multiple open invoices match %s", e.Client, e.Amount.StringFixed(2))
}

func (e *AmbiguousInvoiceError) Unwrap() error { return ErrAmbiguousInvoice }

// CollaboratorError wraps a failed external call. Aborts processing of
// the current client only; the run continues with the next one.
type CollaboratorError struct {
	Op     string
	Client string
	Err    error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("client %s: %s: %v", e.Client, e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

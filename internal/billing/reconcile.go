package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"autoinvoice/pkg/models"
)

// Confirmer asks the operator a yes/no question. Reconciliation must
// block on an explicit answer; it is never auto-resolved.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// DecisionKind classifies the outcome of reconciling a candidate
// invoice against the invoices already open for a client.
type DecisionKind int

const (
	// CreateNew means no open invoice stands in for this period and a
	// fresh invoice should be created.
	CreateNew DecisionKind = iota

	// UseExisting means exactly one open invoice matched the candidate
	// amount and the operator confirmed reusing it.
	UseExisting

	// UseFirstOpen means open invoices exist with different totals and
	// the operator chose the first of them over creating a duplicate.
	UseFirstOpen

	// Abort means multiple open invoices matched the candidate amount
	// and the operator elected to stop rather than risk double billing.
	Abort
)

func (k DecisionKind) String() string {
	switch k {
	case CreateNew:
		return "create-new"
	case UseExisting:
		return "use-existing"
	case UseFirstOpen:
		return "use-first-open"
	case Abort:
		return "abort"
	default:
		return fmt.Sprintf("DecisionKind(%d)", int(k))
	}
}

// Decision is the reconciliation outcome. Invoice is set for
// UseExisting and UseFirstOpen.
type Decision struct {
	Kind    DecisionKind
	Invoice *models.Invoice
}

// Reconcile decides how a candidate invoice amount relates to the
// invoices already open for the client.
//
// Exact-amount matching is a heuristic for "an invoice covering this
// period already exists": the accounting system has no period field on
// an invoice, but hours and rate are computed identically on both
// sides, so a genuine duplicate matches to the cent. Comparison is
// exact, with no tolerance window.
//
// Ambiguity (more than one exact match) is put to the operator rather
// than guessed at; a wrong automatic choice here is real double
// billing. An Abort decision is returned to the caller, never acted on
// in place: the orchestration layer decides what aborting the run means.
func Reconcile(open []models.Invoice, amount decimal.Decimal, ask Confirmer) (Decision, error) {
	if len(open) == 0 {
		return Decision{Kind: CreateNew}, nil
	}

	var matches []*models.Invoice
	for i := range open {
		if open[i].Total.Equal(amount) {
			matches = append(matches, &open[i])
		}
	}

	switch {
	case len(matches) == 1:
		ok, err := ask.Confirm(fmt.Sprintf(
			"Warning! Open invoice %s matches the amount (%s). Use it instead of creating a new one?",
			matches[0].InvoiceNumber, amount.StringFixed(2)))
		if err != nil {
			return Decision{}, err
		}
		if ok {
			return Decision{Kind: UseExisting, Invoice: matches[0]}, nil
		}
		return Decision{Kind: CreateNew}, nil

	case len(matches) > 1:
		ok, err := ask.Confirm(fmt.Sprintf(
			"%d open invoices all match the amount (%s). Abort to avoid duplicate billing?",
			len(matches), amount.StringFixed(2)))
		if err != nil {
			return Decision{}, err
		}
		if ok {
			return Decision{Kind: Abort}, nil
		}
		return Decision{Kind: CreateNew}, nil

	default:
		ok, err := ask.Confirm(fmt.Sprintf(
			"Warning! %d open invoice(s) exist for this client with different totals. Create another?",
			len(open)))
		if err != nil {
			return Decision{}, err
		}
		if ok {
			return Decision{Kind: CreateNew}, nil
		}
		return Decision{Kind: UseFirstOpen, Invoice: &open[0]}, nil
	}
}

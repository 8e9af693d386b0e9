// Package workflow sequences one invoicing run: pre-flight checks,
// per-client time summaries, invoice reconciliation and creation, mail
// dispatch, and ledger advancement, with operator confirmation gates
// between side-effecting steps.
//
// The run is strictly sequential, one client at a time. The ledger is
// persisted after every advancement so an interrupted run never
// re-offers a period it already closed.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"

	"autoinvoice/internal/billing"
	"autoinvoice/internal/date"
	"autoinvoice/internal/ledger"
	"autoinvoice/internal/logger"
	"autoinvoice/internal/mail"
	"autoinvoice/internal/xero"
	"autoinvoice/pkg/models"
)

// Due dates on created invoices fall this many days after the run.
const paymentTermDays = 14

// TimeTracker is the time-tracking collaborator.
type TimeTracker interface {
	GetUnaccountedSummary(ctx context.Context, workspaceID int64, since, until date.Date) (models.TimeSummary, error)
	GetSummary(ctx context.Context, workspaceID, clientID int64, since, until date.Date) (models.TimeSummary, error)
	GetSummaryPDF(ctx context.Context, workspaceID, clientID int64, since, until date.Date) (string, error)
}

// Accounting is the accounting collaborator.
type Accounting interface {
	ListOpenInvoices(ctx context.Context, contactID string) ([]models.Invoice, error)
	CreateInvoice(ctx context.Context, req xero.InvoiceRequest) (*models.Invoice, error)
	GetShareLink(ctx context.Context, invoice *models.Invoice) (string, error)
	GetInvoicePDF(ctx context.Context, invoice *models.Invoice) (string, error)
}

// Mailer is the mail collaborator.
type Mailer interface {
	Send(recipients []string, subject, body string, attachments []mail.Attachment) error
}

// Store persists ledger mutations. *ledger.Ledger satisfies it.
type Store interface {
	SetLastInvoice(c *ledger.Client, until date.Date) error
	Save() error
}

// Runner holds the collaborators for one invoicing run.
type Runner struct {
	Time  TimeTracker
	Books Accounting
	Mail  Mailer
	Ask   billing.Confirmer
	Store Store

	// SenderName signs the outgoing mail body.
	SenderName string

	// Out receives operator-facing output. Prompts are separate; this
	// is for status lines and diagnostics.
	Out io.Writer

	// Today is the clock; defaults to date.Today. Injectable for tests.
	Today func() date.Date
}

func (r *Runner) today() date.Date {
	if r.Today != nil {
		return r.Today()
	}
	return date.Today()
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.Out, format+"\n", args...)
}

// Run processes every due client in ledger order. When nobody is due
// it prints each client's next invoice date instead.
//
// An unaccounted-time finding or an operator abort on an ambiguous
// reconciliation stops the whole run; any other per-client failure is
// printed and the run moves on to the next client.
func (r *Runner) Run(ctx context.Context, clients []*ledger.Client) error {
	today := r.today()
	due := billing.SelectDue(clients, today)

	if len(due) == 0 {
		r.printf("No clients need invoicing!")
		r.reportNextDates(clients, today)
		return nil
	}

	// Unaccounted time is checked for every due client up front, so
	// the run stops before a single invoice exists anywhere in the
	// batch.
	if err := r.checkUnaccounted(ctx, due, today); err != nil {
		return err
	}

	for _, c := range due {
		err := r.invoiceClient(ctx, c, today)
		if err == nil {
			continue
		}

		// Only collaborator failures are scoped to one client. An
		// ambiguous-invoice abort, a prompt failure, or a ledger
		// persistence failure stops the run.
		var collab *CollaboratorError
		if !errors.As(err, &collab) {
			return err
		}
		r.printf("%s: %v", c, err)
		log := logger.WithComponent("workflow")
		log.Error().
			Err(err).
			Str("client", c.Name).
			Msg("Client aborted, continuing with next")
	}
	return nil
}

// reportNextDates prints every client's next invoice date, soonest
// first.
func (r *Runner) reportNextDates(clients []*ledger.Client, today date.Date) {
	next := billing.NextInvoiceDates(clients, today)

	names := make([]string, 0, len(next))
	for name := range next {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := next[names[i]], next[names[j]]
		if a.Equal(b) {
			return names[i] < names[j]
		}
		return a.Before(b)
	})

	for _, name := range names {
		d := next[name]
		days := int(d.Time().Sub(today.Time()).Hours() / 24)
		r.printf("%s: next invoice %s (in %d days)", name, d, days)
	}
}

func (r *Runner) checkUnaccounted(ctx context.Context, due []*ledger.Client, today date.Date) error {
	// A workspace+interval pair only needs checking once even when
	// several clients share it.
	type span struct {
		workspace    int64
		since, until date.Date
	}
	seen := make(map[span]bool)

	for _, c := range due {
		interval, _ := billing.NextInterval(c, today)
		key := span{c.WorkspaceID, interval.Since, interval.Until}
		if seen[key] {
			continue
		}
		seen[key] = true

		summary, err := r.Time.GetUnaccountedSummary(ctx, c.WorkspaceID, interval.Since, interval.Until)
		if err != nil {
			return &CollaboratorError{Op: "check unaccounted time", Client: c.Name, Err: err}
		}
		if !summary.IsZero() {
			return &UnaccountedTimeError{
				WorkspaceID: c.WorkspaceID,
				Interval:    interval,
				Hours:       summary.WorkHours,
			}
		}
	}
	return nil
}

func (r *Runner) invoiceClient(ctx context.Context, c *ledger.Client, today date.Date) error {
	interval, defaulted := billing.NextInterval(c, today)
	if defaulted {
		r.printf("%s: no invoicing history, assuming the period started %d days ago", c, c.InvoicePeriodDays)
	}
	r.printf("Invoicing %s from %s (%s) to %s (%s)",
		c, interval.Since, interval.Since.Weekday(), interval.Until, interval.Until.Weekday())

	summary, err := r.Time.GetSummary(ctx, c.WorkspaceID, c.ClientID, interval.Since, interval.Until)
	if err != nil {
		return &CollaboratorError{Op: "fetch time summary", Client: c.Name, Err: err}
	}

	if summary.IsZero() {
		// Period examined, nothing billed. Still closed so it is
		// never re-offered.
		r.printf("%s: no billable hours this period, skipping invoice", c)
		return r.advance(c, interval.Until)
	}

	amount := summary.WorkHours.Mul(decimal.NewFromInt(c.RateHourly))
	r.printf("%s: total hours %s. Bill: $%s", c, summary.WorkHours.StringFixed(2), amount.StringFixed(2))

	ok, err := r.Ask.Confirm(fmt.Sprintf("Invoice %s for $%s?", c.Name, amount.StringFixed(2)))
	if err != nil {
		return err
	}
	if !ok {
		// The period stays open so a re-run offers it again.
		r.printf("%s: skipped by operator, period left open", c)
		return nil
	}

	billErr := r.bill(ctx, c, interval, summary, amount, today)
	if errors.Is(billErr, ErrAmbiguousInvoice) {
		return billErr
	}

	// The summary succeeded and the operator confirmed, so the period
	// is closed even when a later step failed: re-running must not
	// risk billing it twice.
	if err := r.advance(c, interval.Until); err != nil {
		return err
	}
	return billErr
}

func (r *Runner) bill(ctx context.Context, c *ledger.Client, interval billing.Interval, summary models.TimeSummary, amount decimal.Decimal, today date.Date) error {
	pdfPath, err := r.Time.GetSummaryPDF(ctx, c.WorkspaceID, c.ClientID, interval.Since, interval.Until)
	if err != nil {
		return &CollaboratorError{Op: "fetch hours PDF", Client: c.Name, Err: err}
	}
	r.printf("Hours report PDF: %s", pdfPath)

	open, err := r.Books.ListOpenInvoices(ctx, c.ContactID)
	if err != nil {
		return &CollaboratorError{Op: "list open invoices", Client: c.Name, Err: err}
	}

	decision, err := billing.Reconcile(open, amount, r.Ask)
	if err != nil {
		return err
	}

	var invoice *models.Invoice
	switch decision.Kind {
	case billing.Abort:
		return &AmbiguousInvoiceError{Client: c.Name, Amount: amount}
	case billing.UseExisting, billing.UseFirstOpen:
		invoice = decision.Invoice
		r.printf("Reusing open invoice %s (total %s)", invoice.InvoiceNumber, invoice.Total.StringFixed(2))
	case billing.CreateNew:
		invoice, err = r.Books.CreateInvoice(ctx, xero.InvoiceRequest{
			ContactID:   c.ContactID,
			AccountCode: c.AccountCode,
			Description: fmt.Sprintf("%s contracting %s %s", c.Name, interval.Since.Short(), interval.Until.Short()),
			Hours:       summary.WorkHours,
			RateHourly:  c.RateHourly,
			DueDate:     today.Add(paymentTermDays),
		})
		if err != nil {
			return &CollaboratorError{Op: "create invoice", Client: c.Name, Err: err}
		}
		r.printf("Invoice %s created", invoice.InvoiceNumber)
	}

	link, err := r.Books.GetShareLink(ctx, invoice)
	if err != nil {
		return &CollaboratorError{Op: "get share link", Client: c.Name, Err: err}
	}
	r.printf("Link: %s", link)

	invoicePDF, err := r.Books.GetInvoicePDF(ctx, invoice)
	if err != nil {
		return &CollaboratorError{Op: "fetch invoice PDF", Client: c.Name, Err: err}
	}

	recipients := c.Recipients()
	ok, err := r.Ask.Confirm(fmt.Sprintf("Send invoice email for %s to %v?", c.Name, recipients))
	if err != nil {
		return err
	}
	if !ok {
		r.printf("%s: email not sent", c)
		return nil
	}

	err = r.Mail.Send(
		recipients,
		mail.InvoiceSubject(interval.Since, interval.Until),
		mail.InvoiceBody(link, r.SenderName),
		[]mail.Attachment{
			{Name: mail.AttachmentName("hours", interval.Since, interval.Until), Path: pdfPath},
			{Name: mail.AttachmentName("invoice", interval.Since, interval.Until), Path: invoicePDF},
		},
	)
	if err != nil {
		return &CollaboratorError{Op: "send email", Client: c.Name, Err: err}
	}
	r.printf("Invoice sent!")
	return nil
}

// advance closes the period: records the interval end as the client's
// last invoice date and persists the ledger before the run moves on.
func (r *Runner) advance(c *ledger.Client, until date.Date) error {
	if err := r.Store.SetLastInvoice(c, until); err != nil {
		return err
	}
	if err := r.Store.Save(); err != nil {
		return err
	}
	log := logger.WithComponent("workflow")
	log.Info().
		Str("client", c.Name).
		Str("last_invoice", until.String()).
		Msg("Ledger advanced")
	return nil
}

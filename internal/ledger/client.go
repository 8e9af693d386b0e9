package ledger

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"autoinvoice/internal/date"
)

var validate = validator.New()

// Client is one billable client's configuration and invoicing history,
// backed by a "client.<name>" section of the ledger file.
type Client struct {
	// Name is the operator-chosen identifier (section suffix).
	Name string `validate:"required,alphanum"`

	// Time-tracking identifiers.
	WorkspaceID int64 `validate:"required,gt=0"`
	ClientID    int64 `validate:"required,gt=0"`

	// Accounting identifiers.
	ContactID   string `validate:"required"`
	AccountCode string `validate:"required"`

	// Billing terms.
	RateHourly        int64 `validate:"required,gt=0"`
	InvoicePeriodDays int   `validate:"required,gt=0"`

	// EmailAddresses is the comma-separated recipient list.
	EmailAddresses string `validate:"required"`

	// LastInvoice is the end date of the most recently sent invoice.
	// Zero for a client that has never been invoiced.
	LastInvoice date.Date
}

// Recipients splits the comma-separated address list.
func (c *Client) Recipients() []string {
	parts := strings.Split(c.EmailAddresses, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the record invariants. A record that fails here is a
// configuration error and must stop the run before any collaborator is
// called.
func (c *Client) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &FieldError{Section: c.section(), Err: err}
	}
	recipients := c.Recipients()
	if len(recipients) == 0 {
		return &FieldError{Section: c.section(), Field: "email_addresses", Err: ErrMissingField}
	}
	for _, addr := range recipients {
		if err := validate.Var(addr, "email"); err != nil {
			return &FieldError{
				Section: c.section(),
				Field:   "email_addresses",
				Err:     fmt.Errorf("%q is not a valid email address", addr),
			}
		}
	}
	return nil
}

// String implements fmt.Stringer for log and prompt output.
func (c *Client) String() string {
	return fmt.Sprintf("Client[%s]", c.Name)
}

func (c *Client) section() string {
	return clientSectionPrefix + c.Name
}

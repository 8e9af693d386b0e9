// Package ledger persists per-client billing configuration and
// invoicing history in a flat section-keyed key/value file
// (~/.autoinvoice/ledger.ini by default).
//
// The ledger is the only mutable state shared across a run. It is
// loaded once, passed explicitly to the components that need it, and
// written back after every mutation so that a crash mid-run leaves
// already-processed clients correctly marked.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"autoinvoice/internal/date"
	"autoinvoice/internal/logger"
)

const (
	clientSectionPrefix = "client."

	timeTrackingSection = "toggl"
	emailSection        = "email"

	keyWorkspaceID    = "workspace_id"
	keyClientID       = "client_id"
	keyContactID      = "contact_id"
	keyAccountCode    = "account_code"
	keyRateHourly     = "rate_hourly"
	keyPeriodDays     = "invoice_period_days"
	keyEmailAddresses = "email_addresses"
	keyLastInvoice    = "last_invoice"

	keySender     = "sender"
	keySenderName = "your_name"
)

// Ledger is the loaded ledger file plus the path to write it back to.
type Ledger struct {
	path string
	file *ini.File
}

// DefaultPath returns the ledger location under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}
	return filepath.Join(home, ".autoinvoice", "ledger.ini"), nil
}

// Load reads the ledger file at path. A missing file yields an empty
// ledger; any client that is later registered will create it on Save.
func Load(path string) (*Ledger, error) {
	log := logger.WithComponent("ledger")

	file, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("ledger: load %s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("sections", len(file.Sections())).
		Msg("Ledger loaded")

	return &Ledger{path: path, file: file}, nil
}

// Save writes the ledger back to disk, creating the parent directory
// if needed. Must be called after every mutation before the workflow
// proceeds to the next client.
func (l *Ledger) Save() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return fmt.Errorf("ledger: create directory: %w", err)
	}
	if err := l.file.SaveTo(l.path); err != nil {
		return fmt.Errorf("ledger: save %s: %w", l.path, err)
	}
	return nil
}

// Path returns the file the ledger was loaded from.
func (l *Ledger) Path() string { return l.path }

// Clients returns every registered client in file order, validated.
func (l *Ledger) Clients() ([]*Client, error) {
	var clients []*Client
	for _, section := range l.file.Sections() {
		if !strings.HasPrefix(section.Name(), clientSectionPrefix) {
			continue
		}
		c, err := l.clientFromSection(section)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, nil
}

// Client returns the registered client with the given name.
func (l *Ledger) Client(name string) (*Client, error) {
	section, err := l.file.GetSection(clientSectionPrefix + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, name)
	}
	return l.clientFromSection(section)
}

// HasClient reports whether a section exists for the given client name.
func (l *Ledger) HasClient(name string) bool {
	_, err := l.file.GetSection(clientSectionPrefix + name)
	return err == nil
}

// PutClient writes the client's section, replacing any existing keys.
// The record is validated first; an invalid record is never persisted.
func (l *Ledger) PutClient(c *Client) error {
	if err := c.Validate(); err != nil {
		return err
	}

	section := l.file.Section(clientSectionPrefix + c.Name)
	section.Key(keyWorkspaceID).SetValue(fmt.Sprintf("%d", c.WorkspaceID))
	section.Key(keyClientID).SetValue(fmt.Sprintf("%d", c.ClientID))
	section.Key(keyContactID).SetValue(c.ContactID)
	section.Key(keyAccountCode).SetValue(c.AccountCode)
	section.Key(keyRateHourly).SetValue(fmt.Sprintf("%d", c.RateHourly))
	section.Key(keyPeriodDays).SetValue(fmt.Sprintf("%d", c.InvoicePeriodDays))
	section.Key(keyEmailAddresses).SetValue(c.EmailAddresses)
	if !c.LastInvoice.IsZero() {
		section.Key(keyLastInvoice).SetValue(c.LastInvoice.String())
	}
	return nil
}

// SetLastInvoice records the end date of the client's most recent
// invoice. The in-memory record and the backing section are updated
// together; the caller is responsible for Save.
func (l *Ledger) SetLastInvoice(c *Client, until date.Date) error {
	section, err := l.file.GetSection(clientSectionPrefix + c.Name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrClientNotFound, c.Name)
	}
	section.Key(keyLastInvoice).SetValue(until.String())
	c.LastInvoice = until
	return nil
}

// WorkspaceID returns the configured time-tracking workspace, if set.
func (l *Ledger) WorkspaceID() (int64, bool) {
	key := l.file.Section(timeTrackingSection).Key(keyWorkspaceID)
	id, err := key.Int64()
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// SetWorkspaceID stores the time-tracking workspace id.
func (l *Ledger) SetWorkspaceID(id int64) {
	l.file.Section(timeTrackingSection).Key(keyWorkspaceID).SetValue(fmt.Sprintf("%d", id))
}

// Sender returns the configured sender address and display name.
func (l *Ledger) Sender() (addr, name string) {
	section := l.file.Section(emailSection)
	return section.Key(keySender).String(), section.Key(keySenderName).String()
}

// SetSender stores the sender address and display name used when
// dispatching invoice mail.
func (l *Ledger) SetSender(addr, name string) {
	section := l.file.Section(emailSection)
	section.Key(keySender).SetValue(addr)
	section.Key(keySenderName).SetValue(name)
}

func (l *Ledger) clientFromSection(section *ini.Section) (*Client, error) {
	name := strings.TrimPrefix(section.Name(), clientSectionPrefix)

	c := &Client{
		Name:           name,
		ContactID:      section.Key(keyContactID).String(),
		AccountCode:    section.Key(keyAccountCode).String(),
		EmailAddresses: section.Key(keyEmailAddresses).String(),
	}

	var err error
	if c.WorkspaceID, err = section.Key(keyWorkspaceID).Int64(); err != nil {
		return nil, &FieldError{Section: section.Name(), Field: keyWorkspaceID, Err: err}
	}
	if c.ClientID, err = section.Key(keyClientID).Int64(); err != nil {
		return nil, &FieldError{Section: section.Name(), Field: keyClientID, Err: err}
	}
	if c.RateHourly, err = section.Key(keyRateHourly).Int64(); err != nil {
		return nil, &FieldError{Section: section.Name(), Field: keyRateHourly, Err: err}
	}
	if c.InvoicePeriodDays, err = section.Key(keyPeriodDays).Int(); err != nil {
		return nil, &FieldError{Section: section.Name(), Field: keyPeriodDays, Err: err}
	}

	if raw := section.Key(keyLastInvoice).String(); raw != "" {
		if c.LastInvoice, err = date.Parse(raw); err != nil {
			return nil, &FieldError{Section: section.Name(), Field: keyLastInvoice, Err: err}
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

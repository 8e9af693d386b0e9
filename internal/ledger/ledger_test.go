package ledger_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoinvoice/internal/date"
	"autoinvoice/internal/ledger"
)

const sampleLedger = `[toggl]
workspace_id = 12345

[email]
sender    = me@example.com
your_name = Pat Example

[client.acme]
workspace_id        = 12345
client_id           = 777
contact_id          = 9b9ba9e5-e907-4b4e-8210-54d82b0aa479
account_code        = 200
rate_hourly         = 150
invoice_period_days = 30
email_addresses     = billing@acme.test, ceo@acme.test
last_invoice        = 01/01/2024

[client.globex]
workspace_id        = 12345
client_id           = 888
contact_id          = 1f2e3d4c-0000-4b4e-8210-54d82b0aa479
account_code        = 200
rate_hourly         = 95
invoice_period_days = 14
email_addresses     = accounts@globex.test
`

func writeLedger(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.ini")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadClients(t *testing.T) {
	l, err := ledger.Load(writeLedger(t, sampleLedger))
	require.NoError(t, err)

	clients, err := l.Clients()
	require.NoError(t, err)
	require.Len(t, clients, 2)

	acme := clients[0]
	assert.Equal(t, "acme", acme.Name)
	assert.Equal(t, int64(12345), acme.WorkspaceID)
	assert.Equal(t, int64(777), acme.ClientID)
	assert.Equal(t, int64(150), acme.RateHourly)
	assert.Equal(t, 30, acme.InvoicePeriodDays)
	assert.Equal(t, date.New(2024, time.January, 1), acme.LastInvoice)
	assert.Equal(t, []string{"billing@acme.test", "ceo@acme.test"}, acme.Recipients())

	globex := clients[1]
	assert.Equal(t, "globex", globex.Name)
	assert.True(t, globex.LastInvoice.IsZero(), "globex has never been invoiced")
}

func TestLoadMissingFileYieldsEmptyLedger(t *testing.T) {
	l, err := ledger.Load(filepath.Join(t.TempDir(), "does-not-exist.ini"))
	require.NoError(t, err)

	clients, err := l.Clients()
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestLoadRejectsInvalidRecord(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{
			name: "zero_period",
			contents: `[client.bad]
workspace_id        = 1
client_id           = 2
contact_id          = abc
account_code        = 200
rate_hourly         = 100
invoice_period_days = 0
email_addresses     = a@b.test
`,
		},
		{
			name: "missing_rate",
			contents: `[client.bad]
workspace_id        = 1
client_id           = 2
contact_id          = abc
account_code        = 200
invoice_period_days = 30
email_addresses     = a@b.test
`,
		},
		{
			name: "bad_email",
			contents: `[client.bad]
workspace_id        = 1
client_id           = 2
contact_id          = abc
account_code        = 200
rate_hourly         = 100
invoice_period_days = 30
email_addresses     = not-an-address
`,
		},
		{
			name: "bad_last_invoice_date",
			contents: `[client.bad]
workspace_id        = 1
client_id           = 2
contact_id          = abc
account_code        = 200
rate_hourly         = 100
invoice_period_days = 30
email_addresses     = a@b.test
last_invoice        = 2024-01-01
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l, err := ledger.Load(writeLedger(t, tc.contents))
			require.NoError(t, err)

			_, err = l.Clients()
			assert.Error(t, err)

			var fieldErr *ledger.FieldError
			assert.ErrorAs(t, err, &fieldErr)
		})
	}
}

func TestSetLastInvoiceRoundTrip(t *testing.T) {
	path := writeLedger(t, sampleLedger)
	l, err := ledger.Load(path)
	require.NoError(t, err)

	c, err := l.Client("globex")
	require.NoError(t, err)

	until := date.New(2024, time.March, 15)
	require.NoError(t, l.SetLastInvoice(c, until))
	assert.Equal(t, until, c.LastInvoice)
	require.NoError(t, l.Save())

	reloaded, err := ledger.Load(path)
	require.NoError(t, err)
	c2, err := reloaded.Client("globex")
	require.NoError(t, err)
	assert.Equal(t, until, c2.LastInvoice)
}

func TestSetLastInvoiceUnknownClient(t *testing.T) {
	l, err := ledger.Load(writeLedger(t, sampleLedger))
	require.NoError(t, err)

	err = l.SetLastInvoice(&ledger.Client{Name: "nobody"}, date.Today())
	assert.ErrorIs(t, err, ledger.ErrClientNotFound)
}

func TestPutClientCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.ini")
	l, err := ledger.Load(path)
	require.NoError(t, err)

	c := &ledger.Client{
		Name:              "initech",
		WorkspaceID:       12345,
		ClientID:          999,
		ContactID:         "deadbeef",
		AccountCode:       "200",
		RateHourly:        120,
		InvoicePeriodDays: 7,
		EmailAddresses:    "ap@initech.test",
	}
	require.NoError(t, l.PutClient(c))
	require.NoError(t, l.Save())

	reloaded, err := ledger.Load(path)
	require.NoError(t, err)
	got, err := reloaded.Client("initech")
	require.NoError(t, err)
	assert.Equal(t, c.RateHourly, got.RateHourly)
	assert.True(t, got.LastInvoice.IsZero())
	assert.True(t, reloaded.HasClient("initech"))
	assert.False(t, reloaded.HasClient("acme"))
}

func TestPutClientRejectsInvalid(t *testing.T) {
	l, err := ledger.Load(filepath.Join(t.TempDir(), "ledger.ini"))
	require.NoError(t, err)

	err = l.PutClient(&ledger.Client{Name: "bad?name"})
	assert.Error(t, err)
}

func TestSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.ini")
	l, err := ledger.Load(path)
	require.NoError(t, err)

	_, ok := l.WorkspaceID()
	assert.False(t, ok)

	l.SetWorkspaceID(4242)
	l.SetSender("me@example.com", "Pat Example")
	require.NoError(t, l.Save())

	reloaded, err := ledger.Load(path)
	require.NoError(t, err)
	id, ok := reloaded.WorkspaceID()
	require.True(t, ok)
	assert.Equal(t, int64(4242), id)

	addr, name := reloaded.Sender()
	assert.Equal(t, "me@example.com", addr)
	assert.Equal(t, "Pat Example", name)
}

package xero_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoinvoice/internal/date"
	"autoinvoice/internal/xero"
	"autoinvoice/pkg/models"
)

func newTestClient(t *testing.T, handler http.Handler) *xero.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := xero.New("access-token", "tenant-id", xero.WithBaseURL(server.URL))
	require.NoError(t, err)
	return c
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := xero.New("", "tenant")
	assert.ErrorIs(t, err, xero.ErrMissingCredentials)

	_, err = xero.New("token", "")
	assert.ErrorIs(t, err, xero.ErrMissingCredentials)
}

func TestListContacts(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Contacts", r.URL.Path)
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		assert.Equal(t, "tenant-id", r.Header.Get("Xero-tenant-id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Contacts": [{"ContactID": "abc", "Name": "ACME Corp"}]}`))
	}))

	contacts, err := c.ListContacts(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "abc", contacts[0].ContactID)
	assert.Equal(t, "ACME Corp", contacts[0].Name)
}

func TestListOpenInvoices(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Invoices", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "abc", q.Get("ContactIDs"))
		assert.Equal(t, "AUTHORISED", q.Get("Statuses"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Invoices": [
			{"InvoiceID": "inv-1", "InvoiceNumber": "INV-001", "Status": "AUTHORISED", "Total": 4600.00, "Contact": {"ContactID": "abc"}},
			{"InvoiceID": "inv-2", "InvoiceNumber": "INV-002", "Status": "AUTHORISED", "Total": 150.25, "Contact": {"ContactID": "abc"}}
		]}`))
	}))

	invoices, err := c.ListOpenInvoices(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "inv-1", invoices[0].ID)
	assert.True(t, invoices[0].Total.Equal(decimal.RequireFromString("4600.00")))
	assert.True(t, invoices[1].Total.Equal(decimal.RequireFromString("150.25")))
	assert.True(t, invoices[0].IsOpen())
}

func TestCreateInvoice(t *testing.T) {
	var gotBody map[string]any
	var gotIdempotencyKey string

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/Invoices", r.URL.Path)
		gotIdempotencyKey = r.Header.Get("Idempotency-Key")

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Invoices": [{"InvoiceID": "inv-9", "InvoiceNumber": "INV-009", "Status": "AUTHORISED", "Total": 6075, "Contact": {"ContactID": "abc"}}]}`))
	}))

	invoice, err := c.CreateInvoice(context.Background(), xero.InvoiceRequest{
		ContactID:   "abc",
		AccountCode: "200",
		Description: "acme contracting 01/02/24 01/31/24",
		Hours:       decimal.RequireFromString("40.5"),
		RateHourly:  150,
		DueDate:     date.New(2024, time.February, 19),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, gotIdempotencyKey)
	assert.Equal(t, "ACCREC", gotBody["Type"])
	assert.Equal(t, "AUTHORISED", gotBody["Status"])
	assert.Equal(t, "2024-02-19", gotBody["DueDate"])

	lineItems := gotBody["LineItems"].([]any)
	require.Len(t, lineItems, 1)
	item := lineItems[0].(map[string]any)
	assert.Equal(t, "acme contracting 01/02/24 01/31/24", item["Description"])
	assert.Equal(t, 40.5, item["Quantity"])
	assert.Equal(t, float64(150), item["UnitAmount"])
	assert.Equal(t, "200", item["AccountCode"])

	assert.Equal(t, "inv-9", invoice.ID)
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(6075)))
	assert.Equal(t, date.New(2024, time.February, 19), invoice.DueDate)
}

func TestCreateInvoiceEmptyResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Invoices": []}`))
	}))

	_, err := c.CreateInvoice(context.Background(), xero.InvoiceRequest{DueDate: date.Today()})
	assert.ErrorIs(t, err, xero.ErrEmptyResponse)
}

func TestCreateInvoiceAPIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "validation error", http.StatusBadRequest)
	}))

	_, err := c.CreateInvoice(context.Background(), xero.InvoiceRequest{DueDate: date.Today()})
	require.Error(t, err)
	assert.ErrorIs(t, err, xero.ErrRequestFailed)

	var apiErr *xero.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestGetShareLink(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Invoices/inv-9/OnlineInvoice", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"OnlineInvoices": [{"OnlineInvoiceUrl": "https://in.xero.com/abc123"}]}`))
	}))

	link, err := c.GetShareLink(context.Background(), &models.Invoice{ID: "inv-9"})
	require.NoError(t, err)
	assert.Equal(t, "https://in.xero.com/abc123", link)
}

func TestGetInvoicePDF(t *testing.T) {
	pdf := []byte("%PDF-1.4 invoice")
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Invoices/inv-9", r.URL.Path)
		assert.Equal(t, "application/pdf", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	}))

	path, err := c.GetInvoicePDF(context.Background(), &models.Invoice{ID: "inv-9"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(path) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pdf, data)
}

// Package xero is a thin client for the Xero accounting API: contact
// and account listings, invoice creation, share links, and PDF
// renditions of invoices.
package xero

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"autoinvoice/internal/date"
	"autoinvoice/internal/logger"
	"autoinvoice/pkg/models"
)

const defaultBaseURL = "https://api.xero.com/api.xro/2.0"

// Contact is an accounting contact an invoice can be billed to.
type Contact struct {
	ContactID string `json:"ContactID"`
	Name      string `json:"Name"`
}

// Account is a chart-of-accounts entry invoice line items post to.
type Account struct {
	Code string `json:"Code"`
	Name string `json:"Name"`
}

type contactsResponse struct {
	Contacts []Contact `json:"Contacts"`
}

type accountsResponse struct {
	Accounts []Account `json:"Accounts"`
}

type wireInvoice struct {
	InvoiceID     string          `json:"InvoiceID"`
	InvoiceNumber string          `json:"InvoiceNumber"`
	Status        string          `json:"Status"`
	Total         decimal.Decimal `json:"Total"`
	Contact       struct {
		ContactID string `json:"ContactID"`
	} `json:"Contact"`
}

type invoicesResponse struct {
	Invoices []wireInvoice `json:"Invoices"`
}

type onlineInvoiceResponse struct {
	OnlineInvoices []struct {
		OnlineInvoiceURL string `json:"OnlineInvoiceUrl"`
	} `json:"OnlineInvoices"`
}

// InvoiceRequest describes the invoice to create: a single line item
// of contracted hours at the client's hourly rate.
type InvoiceRequest struct {
	ContactID   string
	AccountCode string
	Description string
	Hours       decimal.Decimal
	RateHourly  int64
	DueDate     date.Date
}

// Client calls the Xero accounting API.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// Option adjusts the client, primarily for tests.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(url)
	}
}

// New builds a Xero client for the given OAuth2 access token and
// tenant.
func New(accessToken, tenantID string, opts ...Option) (*Client, error) {
	if accessToken == "" || tenantID == "" {
		return nil, ErrMissingCredentials
	}

	c := &Client{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetAuthToken(accessToken).
			SetHeader("Xero-tenant-id", tenantID).
			SetHeader("Accept", "application/json"),
		log: logger.WithComponent("xero"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListContacts returns every contact in the organisation.
func (c *Client) ListContacts(ctx context.Context) ([]Contact, error) {
	var payload contactsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&payload).
		Get("/Contacts")
	if err != nil {
		return nil, fmt.Errorf("xero: list contacts: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Op: "ListContacts", Status: resp.StatusCode(), Body: resp.String()}
	}
	return payload.Contacts, nil
}

// ListAccounts returns the chart of accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var payload accountsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&payload).
		Get("/Accounts")
	if err != nil {
		return nil, fmt.Errorf("xero: list accounts: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Op: "ListAccounts", Status: resp.StatusCode(), Body: resp.String()}
	}
	return payload.Accounts, nil
}

// ListOpenInvoices returns the authorised (unpaid, unvoided) invoices
// for the given contact. These are the invoices reconciliation matches
// a candidate amount against.
func (c *Client) ListOpenInvoices(ctx context.Context, contactID string) ([]models.Invoice, error) {
	var payload invoicesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ContactIDs": contactID,
			"Statuses":   models.StatusAuthorised,
		}).
		SetResult(&payload).
		Get("/Invoices")
	if err != nil {
		return nil, fmt.Errorf("xero: list open invoices: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Op: "ListOpenInvoices", Status: resp.StatusCode(), Body: resp.String()}
	}

	invoices := make([]models.Invoice, 0, len(payload.Invoices))
	for _, w := range payload.Invoices {
		invoices = append(invoices, w.toModel())
	}
	return invoices, nil
}

// CreateInvoice creates an authorised sales invoice with a single line
// item. An idempotency key is attached so that retrying after a
// network failure cannot produce a second invoice.
func (c *Client) CreateInvoice(ctx context.Context, req InvoiceRequest) (*models.Invoice, error) {
	body := map[string]any{
		"Type": "ACCREC",
		"Contact": map[string]string{
			"ContactID": req.ContactID,
		},
		"LineItems": []map[string]any{{
			"Description": req.Description,
			"Quantity":    req.Hours.InexactFloat64(),
			"UnitAmount":  req.RateHourly,
			"AccountCode": req.AccountCode,
		}},
		"Status":  models.StatusAuthorised,
		"DueDate": req.DueDate.ISO(),
	}

	var payload invoicesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetBody(body).
		SetResult(&payload).
		Post("/Invoices")
	if err != nil {
		return nil, fmt.Errorf("xero: create invoice: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Op: "CreateInvoice", Status: resp.StatusCode(), Body: resp.String()}
	}
	if len(payload.Invoices) == 0 {
		return nil, fmt.Errorf("xero: create invoice: %w", ErrEmptyResponse)
	}

	invoice := payload.Invoices[0].toModel()
	invoice.Description = req.Description
	invoice.DueDate = req.DueDate

	c.log.Info().
		Str("invoice_id", invoice.ID).
		Str("invoice_number", invoice.InvoiceNumber).
		Str("total", invoice.Total.String()).
		Msg("Invoice created")

	return &invoice, nil
}

// GetShareLink returns the public online-invoice URL for the invoice.
func (c *Client) GetShareLink(ctx context.Context, invoice *models.Invoice) (string, error) {
	var payload onlineInvoiceResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&payload).
		Get(fmt.Sprintf("/Invoices/%s/OnlineInvoice", invoice.ID))
	if err != nil {
		return "", fmt.Errorf("xero: get share link: %w", err)
	}
	if resp.IsError() {
		return "", &APIError{Op: "GetShareLink", Status: resp.StatusCode(), Body: resp.String()}
	}
	if len(payload.OnlineInvoices) == 0 {
		return "", fmt.Errorf("xero: get share link: %w", ErrEmptyResponse)
	}
	return payload.OnlineInvoices[0].OnlineInvoiceURL, nil
}

// GetInvoicePDF downloads the rendered invoice and writes it to a
// temporary file, returning its path.
func (c *Client) GetInvoicePDF(ctx context.Context, invoice *models.Invoice) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/pdf").
		Get(fmt.Sprintf("/Invoices/%s", invoice.ID))
	if err != nil {
		return "", fmt.Errorf("xero: get invoice PDF: %w", err)
	}
	if resp.IsError() {
		return "", &APIError{Op: "GetInvoicePDF", Status: resp.StatusCode(), Body: resp.String()}
	}

	f, err := os.CreateTemp("", "invoice-*.pdf")
	if err != nil {
		return "", fmt.Errorf("xero: create temp file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(resp.Body()); err != nil {
		return "", fmt.Errorf("xero: write invoice PDF: %w", err)
	}
	return f.Name(), nil
}

func (w wireInvoice) toModel() models.Invoice {
	return models.Invoice{
		ID:            w.InvoiceID,
		InvoiceNumber: w.InvoiceNumber,
		Status:        w.Status,
		Total:         w.Total,
		ContactID:     w.Contact.ContactID,
	}
}

// Package toggl is a thin client for the Toggl time-tracking API:
// workspace and client listings plus summary reports over a date range.
package toggl

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"autoinvoice/internal/date"
	"autoinvoice/internal/logger"
	"autoinvoice/pkg/models"
)

const (
	defaultBaseURL    = "https://api.track.toggl.com/api/v9"
	defaultReportsURL = "https://api.track.toggl.com/reports/api/v2"

	// userAgent identifies this tool to the reports API, which
	// requires one on every request.
	userAgent = "autoinvoice"
)

// Workspace is a Toggl workspace the operator can bill from.
type Workspace struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TrackedClient is a client as known to Toggl.
type TrackedClient struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"wid"`
	Name        string `json:"name"`
}

// summaryResponse is the reports API summary payload. TotalGrand is
// null when nothing was tracked in the range.
type summaryResponse struct {
	TotalGrand *int64 `json:"total_grand"`
}

// Client calls the Toggl core and reports APIs.
type Client struct {
	api     *resty.Client
	reports *resty.Client
	log     zerolog.Logger
}

// Option adjusts the client, primarily for tests.
type Option func(*Client)

// WithBaseURLs overrides the API endpoints.
func WithBaseURLs(api, reports string) Option {
	return func(c *Client) {
		c.api.SetBaseURL(api)
		c.reports.SetBaseURL(reports)
	}
}

// New builds a Toggl client authenticated with the given API token.
func New(apiToken string, opts ...Option) (*Client, error) {
	if apiToken == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		api: resty.New().
			SetBaseURL(defaultBaseURL).
			SetBasicAuth(apiToken, "api_token").
			SetHeader("Content-Type", "application/json"),
		reports: resty.New().
			SetBaseURL(defaultReportsURL).
			SetBasicAuth(apiToken, "api_token").
			SetHeader("Content-Type", "application/json"),
		log: logger.WithComponent("toggl"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListWorkspaces returns the workspaces visible to the API token.
func (c *Client) ListWorkspaces(ctx context.Context) ([]Workspace, error) {
	var workspaces []Workspace
	resp, err := c.api.R().
		SetContext(ctx).
		SetResult(&workspaces).
		Get("/workspaces")
	if err != nil {
		return nil, fmt.Errorf("toggl: list workspaces: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Op: "ListWorkspaces", Status: resp.StatusCode(), Body: resp.String()}
	}
	return workspaces, nil
}

// ListClients returns every client across the token's workspaces.
func (c *Client) ListClients(ctx context.Context) ([]TrackedClient, error) {
	var clients []TrackedClient
	resp, err := c.api.R().
		SetContext(ctx).
		SetResult(&clients).
		Get("/me/clients")
	if err != nil {
		return nil, fmt.Errorf("toggl: list clients: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Op: "ListClients", Status: resp.StatusCode(), Body: resp.String()}
	}
	return clients, nil
}

// GetSummary returns total billable hours for one client over the
// inclusive date range.
func (c *Client) GetSummary(ctx context.Context, workspaceID, clientID int64, since, until date.Date) (models.TimeSummary, error) {
	return c.summary(ctx, "GetSummary", map[string]string{
		"user_agent":   userAgent,
		"workspace_id": fmt.Sprintf("%d", workspaceID),
		"client_ids":   fmt.Sprintf("%d", clientID),
		"since":        since.ISO(),
		"until":        until.ISO(),
	})
}

// GetUnaccountedSummary returns hours tracked in the range that are
// not attributed to any project, and therefore to no client.
// project_ids=0 is the reports API selector for "no project".
func (c *Client) GetUnaccountedSummary(ctx context.Context, workspaceID int64, since, until date.Date) (models.TimeSummary, error) {
	return c.summary(ctx, "GetUnaccountedSummary", map[string]string{
		"user_agent":   userAgent,
		"workspace_id": fmt.Sprintf("%d", workspaceID),
		"project_ids":  "0",
		"since":        since.ISO(),
		"until":        until.ISO(),
	})
}

func (c *Client) summary(ctx context.Context, op string, params map[string]string) (models.TimeSummary, error) {
	var payload summaryResponse
	resp, err := c.reports.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&payload).
		Get("/summary")
	if err != nil {
		return models.TimeSummary{}, fmt.Errorf("toggl: %s: %w", op, err)
	}
	if resp.IsError() {
		return models.TimeSummary{}, &APIError{Op: op, Status: resp.StatusCode(), Body: resp.String()}
	}

	var total int64
	if payload.TotalGrand != nil {
		total = *payload.TotalGrand
	}
	summary := models.NewTimeSummary(total)

	c.log.Debug().
		Str("op", op).
		Int64("total_millis", summary.TotalMillis).
		Str("hours", summary.WorkHours.String()).
		Msg("Summary fetched")

	return summary, nil
}

// GetSummaryPDF downloads the rendered summary report for one client
// over the range and writes it to a temporary file, returning its path.
func (c *Client) GetSummaryPDF(ctx context.Context, workspaceID, clientID int64, since, until date.Date) (string, error) {
	resp, err := c.reports.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"user_agent":   userAgent,
			"workspace_id": fmt.Sprintf("%d", workspaceID),
			"client_ids":   fmt.Sprintf("%d", clientID),
			"since":        since.ISO(),
			"until":        until.ISO(),
		}).
		Get("/summary.pdf")
	if err != nil {
		return "", fmt.Errorf("toggl: GetSummaryPDF: %w", err)
	}
	if resp.IsError() {
		return "", &APIError{Op: "GetSummaryPDF", Status: resp.StatusCode(), Body: resp.String()}
	}

	f, err := os.CreateTemp("", "hours-*.pdf")
	if err != nil {
		return "", fmt.Errorf("toggl: create temp file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(resp.Body()); err != nil {
		return "", fmt.Errorf("toggl: write summary PDF: %w", err)
	}

	c.log.Debug().
		Str("path", f.Name()).
		Int("bytes", len(resp.Body())).
		Msg("Summary PDF downloaded")

	return f.Name(), nil
}

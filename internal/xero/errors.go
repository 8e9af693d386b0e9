package xero

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned when the access token or
	// tenant id is not configured.
	ErrMissingCredentials = errors.New("missing Xero credentials")

	// ErrRequestFailed is returned when the Xero API rejects a request.
	ErrRequestFailed = errors.New("xero API request failed")

	// ErrEmptyResponse is returned when a call succeeds but the
	// expected resource is missing from the payload.
	ErrEmptyResponse = errors.New("xero API returned an empty response")
)

// APIError carries the status and body of a failed Xero API call.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("xero: %s failed with status %d: %s", e.Op, e.Status, e.Body)
}

func (e *APIError) Unwrap() error { return ErrRequestFailed }

package toggl

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is returned when no API token is configured.
	ErrMissingToken = errors.New("missing Toggl API token")

	// ErrRequestFailed is returned when the Toggl API rejects a request.
	ErrRequestFailed = errors.New("toggl API request failed")
)

// APIError carries the status and body of a failed Toggl API call.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("toggl: %s failed with status %d: %s", e.Op, e.Status, e.Body)
}

func (e *APIError) Unwrap() error { return ErrRequestFailed }

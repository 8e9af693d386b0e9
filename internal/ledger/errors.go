package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is returned when a required ledger field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrClientNotFound is returned when no client section exists for
	// the given name.
	ErrClientNotFound = errors.New("client not found in ledger")
)

// FieldError describes an invalid or missing field in a ledger section.
type FieldError struct {
	Section string
	Field   string
	Err     error
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("ledger: section [%s], field %q: %v", e.Section, e.Field, e.Err)
	}
	return fmt.Sprintf("ledger: section [%s]: %v", e.Section, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

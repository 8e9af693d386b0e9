package mail

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when no mail API key is configured.
	ErrMissingAPIKey = errors.New("missing mail API key")

	// ErrMissingSender is returned when no sender address is configured.
	ErrMissingSender = errors.New("missing sender address")

	// ErrConnection is returned when the mail service cannot be
	// reached at all. Distinguished from RejectedError so the operator
	// can tell a network problem from a bad message.
	ErrConnection = errors.New("cannot connect to the mail service")
)

// RejectedError means the mail service received the message and
// refused it. Diagnostic carries the server-provided explanation when
// one was returned.
type RejectedError struct {
	Status     int
	Diagnostic string
}

func (e *RejectedError) Error() string {
	if e.Diagnostic != "" {
		return fmt.Sprintf("mail: message rejected with status %d: %s", e.Status, e.Diagnostic)
	}
	return fmt.Sprintf("mail: message rejected with status %d", e.Status)
}

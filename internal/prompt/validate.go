package prompt

import (
	"fmt"
	"strings"

	playground "github.com/go-playground/validator/v10"

	"autoinvoice/internal/date"
)

var validate = playground.New()

// Validator checks one line of operator input. Validators are pure
// functions so they can be tested without any prompt widget; the
// widget re-prompts on failure.
type Validator func(input string) error

// ValidationError describes why an input was rejected. The message is
// shown to the operator verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ClientName accepts alphanumeric client identifiers. The name becomes
// a ledger section suffix, so punctuation and spaces are rejected.
func ClientName(input string) error {
	if input == "" {
		return invalid("client names must be alphanumeric")
	}
	for _, r := range input {
		if !isAlphanumeric(r) {
			return invalid("client names must be alphanumeric")
		}
	}
	return nil
}

// Date accepts calendar dates in the ledger format.
func Date(input string) error {
	if _, err := date.Parse(input); err != nil {
		return invalid("expected a date like 10/21/2017")
	}
	return nil
}

// Number accepts positive integers.
func Number(input string) error {
	if input == "" {
		return invalid("expected a number")
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return invalid("expected a number")
		}
	}
	return nil
}

// EmailList accepts a comma-separated list of email addresses.
func EmailList(input string) error {
	addresses := strings.Split(input, ",")
	for _, address := range addresses {
		address = strings.TrimSpace(address)
		if err := validate.Var(address, "required,email"); err != nil {
			return invalid("%q is not a valid email address", address)
		}
	}
	return nil
}

// Email accepts a single email address.
func Email(input string) error {
	if err := validate.Var(input, "required,email"); err != nil {
		return invalid("%q is not a valid email address", input)
	}
	return nil
}

func isAlphanumeric(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

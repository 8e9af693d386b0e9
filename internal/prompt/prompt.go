// Package prompt is the interactive layer between the workflow and the
// operator: free-form input with validation, option selection, and the
// yes/no confirmation gates the invoicing workflow blocks on.
package prompt

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// Prompter asks the operator for input on the terminal. It satisfies
// billing.Confirmer.
type Prompter struct{}

// New returns a terminal-backed Prompter.
func New() *Prompter {
	return &Prompter{}
}

// Input asks for a line of input, re-prompting until the validator
// accepts it. defaultValue pre-fills the answer when non-empty.
func (p *Prompter) Input(message, defaultValue string, v Validator) (string, error) {
	var opts []survey.AskOpt
	if v != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, ok := ans.(string)
			if !ok {
				return fmt.Errorf("expected a string answer")
			}
			return v(s)
		}))
	}

	var answer string
	err := survey.AskOne(&survey.Input{Message: message, Default: defaultValue}, &answer, opts...)
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	return answer, nil
}

// Choose presents the options and returns the index of the selected one.
func (p *Prompter) Choose(message string, options []string) (int, error) {
	var index int
	err := survey.AskOne(&survey.Select{Message: message, Options: options}, &index)
	if err != nil {
		return 0, fmt.Errorf("prompt: %w", err)
	}
	return index, nil
}

// Confirm asks a yes/no question and blocks until the operator answers.
func (p *Prompter) Confirm(question string) (bool, error) {
	var answer bool
	err := survey.AskOne(&survey.Confirm{Message: question}, &answer)
	if err != nil {
		return false, fmt.Errorf("prompt: %w", err)
	}
	return answer, nil
}

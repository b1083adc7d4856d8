// Package prompt collects user input for the interactive menu.
package prompt

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var (
	// ErrInterrupted is returned when the user aborts a prompt (Ctrl-C).
	ErrInterrupted = errors.New("prompt: interrupted")

	// ErrNoOptions is returned when Select is called with nothing to choose.
	ErrNoOptions = errors.New("prompt: no options to select from")
)

// Prompter asks the user for one value at a time.
type Prompter interface {
	// Select shows options as a single-choice list and returns the index of
	// the chosen entry. Options may repeat; the index disambiguates them.
	Select(message string, options []string) (int, error)

	// Input asks for one line of free text.
	Input(message string) (string, error)
}

// Survey is the terminal Prompter.
type Survey struct {
	opts     []survey.AskOpt
	pageSize int
}

// NewSurvey returns a Prompter reading from the terminal. opts are passed to
// every question, e.g. survey.WithStdio to redirect input and output.
func NewSurvey(opts ...survey.AskOpt) *Survey {
	return &Survey{opts: opts, pageSize: 12}
}

func (s *Survey) Select(message string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, ErrNoOptions
	}
	var idx int
	q := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: s.pageSize,
	}
	if err := survey.AskOne(q, &idx, s.opts...); err != nil {
		return 0, wrap(err)
	}
	return idx, nil
}

func (s *Survey) Input(message string) (string, error) {
	var answer string
	if err := survey.AskOne(&survey.Input{Message: message}, &answer, s.opts...); err != nil {
		return "", wrap(err)
	}
	return answer, nil
}

func wrap(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrInterrupted
	}
	return fmt.Errorf("prompt: %w", err)
}

var _ Prompter = (*Survey)(nil)

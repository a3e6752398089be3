// Package prompt asks the user yes/no and free-text questions.
//
// Terminal uses charmbracelet/huh forms. Scripted replays queued answers
// for tests and non-interactive runs.
package prompt

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrNoAnswer indicates a Scripted confirmer ran out of answers.
var ErrNoAnswer = errors.New("no scripted answer")

// Confirmer asks blocking questions.
//
// Confirm reports whether the user accepted. Prompt returns the entered
// text; ok is false when the user cancelled.
type Confirmer interface {
	Confirm(message string) (bool, error)
	Prompt(message string) (text string, ok bool, err error)
}

// Terminal asks questions on a terminal.
type Terminal struct {
	accessible bool
	in         io.Reader
	out        io.Writer
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithAccessible switches huh to its plain line-based mode.
func WithAccessible(on bool) TerminalOption {
	return func(t *Terminal) {
		t.accessible = on
	}
}

// WithIO redirects input and output.
func WithIO(in io.Reader, out io.Writer) TerminalOption {
	return func(t *Terminal) {
		t.in = in
		t.out = out
	}
}

// NewTerminal creates a terminal confirmer.
func NewTerminal(opts ...TerminalOption) *Terminal {
	t := &Terminal{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Confirm implements Confirmer. An aborted form counts as a decline.
func (t *Terminal) Confirm(message string) (bool, error) {
	var ok bool
	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)

	if err := t.run(field); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// Prompt implements Confirmer. An aborted form or blank answer is a cancel.
func (t *Terminal) Prompt(message string) (string, bool, error) {
	var text string
	field := huh.NewInput().
		Title(message).
		Value(&text)

	if err := t.run(field); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, nil
		}
		return "", false, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false, nil
	}
	return text, true, nil
}

func (t *Terminal) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(t.accessible).
		WithShowHelp(false)
	if t.in != nil {
		form = form.WithInput(t.in)
	}
	if t.out != nil {
		form = form.WithOutput(t.out)
	}
	return form.Run()
}

var _ Confirmer = (*Terminal)(nil)

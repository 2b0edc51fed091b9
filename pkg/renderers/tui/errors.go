package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnresolvable is returned when submission is blocked only by fields
	// that have no input control, so no answer can clear the errors.
	ErrUnresolvable = errors.New("tui: errors on fields without a control")
	// ErrSubmitFailed wraps a submit handler failure the user chose not to
	// retry.
	ErrSubmitFailed = errors.New("tui: submit failed")
)

package formstate

import "errors"

var (
	// ErrUnknownField is returned when a binding or meta lookup names a field
	// the schema does not declare.
	ErrUnknownField = errors.New("formstate: unknown field")
	// ErrValueKind is returned when Change receives a value of the wrong type
	// for the field.
	ErrValueKind = errors.New("formstate: value does not match field kind")
	// ErrSubmitInProgress is reported when Submit or Reset is called while a
	// submission is running.
	ErrSubmitInProgress = errors.New("formstate: submission in progress")
	// ErrNoHandler is returned by New when no submit handler is supplied.
	ErrNoHandler = errors.New("formstate: submit handler is required")
	// ErrHandlerPanic wraps a panic raised by the submit handler.
	ErrHandlerPanic = errors.New("formstate: submit handler panicked")
	// ErrNoValidator is returned by New when no validator is supplied.
	ErrNoValidator = errors.New("formstate: validator is required")
)

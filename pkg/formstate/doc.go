// Package formstate holds the values and per-field meta of one form session.
//
// A Store is built per form instance from a validation.Validator and a
// SubmitHandler; there is no package-level registry. Controls obtain a
// FieldBinding by name, write through Change and report focus loss through
// Blur. Blur marks the field touched and runs a validation pass over the whole
// value set, replacing every field's error. Submit validates again; with
// errors outstanding it touches every field and never calls the handler,
// otherwise it runs the handler in its own goroutine and returns a SubmitTask
// that can be waited on or cancelled.
package formstate

// Package callback declares the "Need Help" callback-request form and wires
// it to a field state store.
package callback

import (
	"context"
	"html"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-callbackform/pkg/formstate"
	"github.com/goliatone/go-callbackform/pkg/model"
	"github.com/goliatone/go-callbackform/pkg/schema"
	"github.com/goliatone/go-callbackform/pkg/validation"
)

// Field names.
const (
	FieldFullName      = "FullName"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldAcceptedTerms = "acceptedTerms"
	FieldJobType       = "jobType"
)

// SchemaFile is the bundled declaration inside SchemaFS.
const SchemaFile = "callback.yaml"

var (
	loadOnce  sync.Once
	loaded    model.Schema
	loadErr   error
	stripTags = bluemonday.StrictPolicy()
	markup    = regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9-]*(\s[^<>]*)?/?>`)
)

// Schema returns the bundled form declaration.
func Schema() model.Schema {
	loadOnce.Do(func() {
		loaded, loadErr = schema.LoadFS(SchemaFS(), SchemaFile)
	})
	if loadErr != nil {
		// the bundled file is covered by tests
		panic(loadErr)
	}
	return loaded
}

// Validator builds a validator for the bundled declaration.
func Validator() *validation.Validator {
	v, err := validation.New(Schema())
	if err != nil {
		panic(err)
	}
	return v
}

// NewStore creates a session store for the bundled form. Values are stored
// exactly as changed; pass formstate.WithSanitizer(Sanitize) to strip markup.
func NewStore(handler formstate.SubmitHandler, opts ...formstate.Option) (*formstate.Store, error) {
	return formstate.New(Validator(), handler, opts...)
}

// Sanitize strips HTML elements from free text. Input without a complete tag
// is returned unchanged, and entities the user typed are kept literally.
func Sanitize(input string) string {
	if !markup.MatchString(input) {
		return input
	}
	escaped := strings.ReplaceAll(input, "&", "&amp;")
	return html.UnescapeString(stripTags.Sanitize(escaped))
}

// DelayHandler returns a submit handler that waits d and then succeeds,
// standing in for a network call. It returns ctx.Err() if ctx ends first.
func DelayHandler(d time.Duration) formstate.SubmitHandler {
	return func(ctx context.Context, _ model.Values) error {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

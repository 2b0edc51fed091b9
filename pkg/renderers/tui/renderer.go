package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/goliatone/go-callbackform/pkg/formstate"
	"github.com/goliatone/go-callbackform/pkg/model"
)

// Renderer walks a form session in the terminal. Each answer is written to
// the store through the field's binding and followed by a blur, so errors
// appear exactly when a web control would show them.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       NewSurveyDriver(),
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Serialize.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Run prompts every rendered field, then submits until the handler succeeds,
// the user gives up after a failure, or only unrendered fields block the
// submission.
func (r *Renderer) Run(ctx context.Context, store *formstate.Store) (formstate.SubmitOutcome, error) {
	if ctx == nil {
		return formstate.SubmitOutcome{}, errors.New("tui: context is required")
	}
	if store == nil {
		return formstate.SubmitOutcome{}, errors.New("tui: store is nil")
	}

	schema := store.Schema()
	if err := r.header(ctx, schema); err != nil {
		return formstate.SubmitOutcome{}, err
	}
	for _, field := range schema.Fields {
		if !field.Rendered() {
			continue
		}
		if err := r.askField(ctx, store, field); err != nil {
			return formstate.SubmitOutcome{}, err
		}
	}

	for {
		outcome, err := store.Submit(ctx).Wait(ctx)
		if err != nil {
			return formstate.SubmitOutcome{}, err
		}

		switch outcome.Status {
		case formstate.SubmitSucceeded:
			return outcome, nil
		case formstate.SubmitCanceled, formstate.SubmitBusy:
			return outcome, outcome.Err
		case formstate.SubmitFailed:
			_ = r.info(ctx, r.theme.ErrorPrefix+"Submission failed: "+outcome.Err.Error())
			retry, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
			if err != nil {
				return outcome, err
			}
			if !retry {
				return outcome, fmt.Errorf("%w: %w", ErrSubmitFailed, outcome.Err)
			}
		case formstate.SubmitBlocked:
			fixable := r.reportErrors(ctx, schema, outcome.Errors)
			if len(fixable) == 0 {
				return outcome, fmt.Errorf("%w: %s", ErrUnresolvable, strings.Join(outcome.Errors.Fields(), ", "))
			}
			for _, field := range fixable {
				if err := r.askField(ctx, store, field); err != nil {
					return outcome, err
				}
			}
		}
	}
}

func (r *Renderer) header(ctx context.Context, schema model.Schema) error {
	if schema.Title != "" {
		if err := r.info(ctx, r.theme.InfoPrefix+schema.Title); err != nil {
			return err
		}
	}
	for _, line := range schema.Headlines {
		if err := r.info(ctx, r.theme.InfoPrefix+line); err != nil {
			return err
		}
	}
	return nil
}

// reportErrors prints every failing field in declaration order and returns
// the ones the user can still change.
func (r *Renderer) reportErrors(ctx context.Context, schema model.Schema, errs model.Errors) []model.Field {
	var fixable []model.Field
	for _, field := range schema.Fields {
		msg, failed := errs[field.Name]
		if !failed {
			continue
		}
		if field.Rendered() {
			fixable = append(fixable, field)
			_ = r.info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, displayLabel(field), msg))
			continue
		}
		_ = r.info(ctx, fmt.Sprintf("%s%s (no input available): %s", r.theme.ErrorPrefix, displayLabel(field), msg))
	}
	return fixable
}

func (r *Renderer) askField(ctx context.Context, store *formstate.Store, field model.Field) error {
	binding, err := store.Binding(field.Name)
	if err != nil {
		return err
	}
	for {
		value, err := r.prompt(ctx, field, binding.Value())
		if err != nil {
			return err
		}
		if err := binding.Change(value); err != nil {
			return err
		}
		binding.Blur()

		msg := binding.Meta().Visible()
		if msg == "" {
			return nil
		}
		_ = r.info(ctx, r.theme.ErrorPrefix+msg)
	}
}

func (r *Renderer) prompt(ctx context.Context, field model.Field, current any) (any, error) {
	label := displayLabel(field)
	help := displayHelp(field)

	switch field.Control {
	case model.ControlCheckbox:
		def, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: def, Help: help})
	case model.ControlSelect:
		options := field.Options()
		def, _ := current.(string)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: indexOf(options, def),
			Help:         help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(options) {
			return "", nil
		}
		return options[idx], nil
	default:
		def, _ := current.(string)
		return r.driver.Input(ctx, InputConfig{Message: label, Default: def, Help: help})
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, msg)
}

// Serialize encodes submitted values in the configured output format.
func (r *Renderer) Serialize(values model.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(encodeForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.MarshalIndent(values, "", "  ")
	}
}

func displayLabel(field model.Field) string {
	if strings.TrimSpace(field.Label) != "" {
		return field.Label
	}
	return field.Name
}

func displayHelp(field model.Field) string {
	if field.Help != "" {
		return field.Help
	}
	return field.Placeholder
}

func encodeForm(values model.Values) string {
	form := url.Values{}
	for key, value := range values {
		form.Set(key, fmt.Sprint(value))
	}
	return form.Encode()
}

func prettyPrint(values model.Values) string {
	var b strings.Builder
	for _, key := range slices.Sorted(maps.Keys(values)) {
		fmt.Fprintf(&b, "%s=%v\n", key, values[key])
	}
	return b.String()
}

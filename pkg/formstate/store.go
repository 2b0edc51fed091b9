package formstate

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-callbackform/pkg/model"
	"github.com/goliatone/go-callbackform/pkg/validation"
)

// SubmitHandler receives a snapshot of the values after a clean validation
// pass. It should return when ctx is cancelled.
type SubmitHandler func(ctx context.Context, values model.Values) error

// FieldMeta is a read-only snapshot of a field's UI state.
type FieldMeta struct {
	Touched bool
	Error   string
}

// Visible returns the error message when the field has been touched, the
// condition under which a control should display it.
func (m FieldMeta) Visible() string {
	if !m.Touched {
		return ""
	}
	return m.Error
}

// Store is the single source of truth for one form session. All methods are
// safe for concurrent use.
type Store struct {
	validator *validation.Validator
	schema    model.Schema
	handler   SubmitHandler
	logger    Logger
	sanitizer Sanitizer
	initial   model.Values

	mu          sync.Mutex
	values      model.Values
	touched     map[string]bool
	errors      model.Errors
	submitting  bool
	active      string
	submitCount int
	formErr     error
}

// New builds a Store for the validator's schema.
func New(validator *validation.Validator, handler SubmitHandler, opts ...Option) (*Store, error) {
	if validator == nil {
		return nil, ErrNoValidator
	}
	if handler == nil {
		return nil, ErrNoHandler
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	schema := validator.Schema()
	initial := make(model.Values, len(schema.Fields))
	for _, field := range schema.Fields {
		initial[field.Name] = field.ZeroValue()
	}
	for name, value := range cfg.initial {
		field, ok := schema.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w %q in initial values", ErrUnknownField, name)
		}
		if !kindMatches(field.Kind, value) {
			return nil, fmt.Errorf("%w: initial value for %q", ErrValueKind, name)
		}
		initial[name] = value
	}

	s := &Store{
		validator: validator,
		schema:    schema,
		handler:   handler,
		logger:    cfg.logger,
		sanitizer: cfg.sanitizer,
		initial:   initial,
	}
	s.resetLocked()
	return s, nil
}

// Schema returns the declaration the store validates against.
func (s *Store) Schema() model.Schema {
	return s.schema
}

// Binding returns the control binding for name.
func (s *Store) Binding(name string) (FieldBinding, error) {
	field, ok := s.schema.Field(name)
	if !ok {
		return FieldBinding{}, fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	return FieldBinding{store: s, field: field}, nil
}

// Meta returns a snapshot of name's touched flag and error.
func (s *Store) Meta(name string) (FieldMeta, error) {
	if _, ok := s.schema.Field(name); !ok {
		return FieldMeta{}, fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return FieldMeta{Touched: s.touched[name], Error: s.errors[name]}, nil
}

// Values returns a snapshot of every field value.
func (s *Store) Values() model.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone()
}

// Errors returns the mapping produced by the latest validation pass.
func (s *Store) Errors() model.Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors.Clone()
}

// Validate runs a full pass and replaces every field's error.
func (s *Store) Validate() model.Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked().Clone()
}

// SetSubmitting toggles the submitting flag. Clearing it while a submit
// handler is running is ignored; that submission clears it when it ends.
func (s *Store) SetSubmitting(submitting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !submitting && s.active != "" {
		s.logger.Warn("submitting flag is held by a running submission", "id", s.active)
		return
	}
	s.submitting = submitting
}

// Submitting reports whether a submission is in flight.
func (s *Store) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// SubmitCount is the number of Submit calls that ran a validation pass.
func (s *Store) SubmitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitCount
}

// FormError is the error returned by the last failed submission, or nil.
func (s *Store) FormError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formErr
}

// Reset restores initial values and clears touched flags, errors and the form
// error. It fails while a submission is running.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmitInProgress
	}
	s.resetLocked()
	s.logger.Debug("form reset", "form", s.schema.ID)
	return nil
}

func (s *Store) resetLocked() {
	s.values = s.initial.Clone()
	s.touched = make(map[string]bool, len(s.schema.Fields))
	s.errors = make(model.Errors)
	s.submitCount = 0
	s.formErr = nil
}

func (s *Store) validateLocked() model.Errors {
	s.errors = s.validator.Validate(s.values)
	return s.errors
}

func (s *Store) change(field model.Field, value any) error {
	if !kindMatches(field.Kind, value) {
		return fmt.Errorf("%w: %q expects %s, got %T", ErrValueKind, field.Name, field.Kind, value)
	}
	if str, ok := value.(string); ok && s.sanitizer != nil {
		value = s.sanitizer(str)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[field.Name] = value
	return nil
}

func (s *Store) blur(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[name] = true
	errs := s.validateLocked()
	s.logger.Debug("field blurred", "field", name, "errors", len(errs))
}

func (s *Store) value(name string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[name]
}

func kindMatches(kind model.FieldKind, value any) bool {
	switch kind {
	case model.FieldKindBoolean:
		_, ok := value.(bool)
		return ok
	default:
		_, ok := value.(string)
		return ok
	}
}

// FieldBinding connects one control to the store.
type FieldBinding struct {
	store *Store
	field model.Field
}

// Name is the bound field's name.
func (b FieldBinding) Name() string {
	return b.field.Name
}

// Field is the bound field's declaration.
func (b FieldBinding) Field() model.Field {
	return b.field
}

// Value reads the current value.
func (b FieldBinding) Value() any {
	return b.store.value(b.field.Name)
}

// Change overwrites the value. It does not validate.
func (b FieldBinding) Change(value any) error {
	return b.store.change(b.field, value)
}

// Blur marks the field touched and validates the whole form.
func (b FieldBinding) Blur() {
	b.store.blur(b.field.Name)
}

// Meta is shorthand for Store.Meta on the bound field.
func (b FieldBinding) Meta() FieldMeta {
	meta, _ := b.store.Meta(b.field.Name)
	return meta
}

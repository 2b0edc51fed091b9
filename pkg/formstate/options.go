package formstate

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-callbackform/pkg/model"
)

// Logger is the subset of *log.Logger the store writes to.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
}

// Sanitizer rewrites free-text input before it is stored.
type Sanitizer func(string) string

// Option configures a Store.
type Option func(*config)

type config struct {
	initial   model.Values
	logger    Logger
	sanitizer Sanitizer
}

func defaultConfig() config {
	return config{
		logger: log.New(io.Discard),
	}
}

// WithInitialValues overrides field defaults. Names must be declared in the
// schema.
func WithInitialValues(values model.Values) Option {
	return func(c *config) {
		c.initial = values.Clone()
	}
}

// WithLogger routes store diagnostics to logger.
func WithLogger(logger Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSanitizer applies fn to every string passed to FieldBinding.Change.
func WithSanitizer(fn Sanitizer) Option {
	return func(c *config) {
		c.sanitizer = fn
	}
}

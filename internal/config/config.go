// Package config loads the callback-form CLI settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalid reports a configuration that cannot be used.
	ErrInvalid = errors.New("config: invalid")
)

// Output formats understood by the CLI.
const (
	OutputJSON   = "json"
	OutputForm   = "form"
	OutputPretty = "pretty"
)

// DefaultSubmitDelay is how long the simulated submission takes.
const DefaultSubmitDelay = 500 * time.Millisecond

// Config is the file form of the CLI flags. Flags override file values.
type Config struct {
	LogLevel         string            `yaml:"logLevel"`
	Schema           string            `yaml:"schema"`
	OpenAPI          string            `yaml:"openapi"`
	OpenAPIComponent string            `yaml:"openapiComponent"`
	Prefill          map[string]string `yaml:"prefill"`
	SubmitDelay      time.Duration     `yaml:"submitDelay"`
	Output           string            `yaml:"output"`
	StripMarkup      bool              `yaml:"stripMarkup"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		LogLevel:    "warn",
		SubmitDelay: DefaultSubmitDelay,
		Output:      OutputJSON,
	}
}

// Load reads path on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks combinations the CLI cannot act on.
func (c Config) Validate() error {
	switch c.Output {
	case OutputJSON, OutputForm, OutputPretty:
	default:
		return fmt.Errorf("%w: output %q (want json, form or pretty)", ErrInvalid, c.Output)
	}
	if c.SubmitDelay < 0 {
		return fmt.Errorf("%w: negative submit delay %s", ErrInvalid, c.SubmitDelay)
	}
	if c.Schema != "" && c.OpenAPI != "" {
		return fmt.Errorf("%w: schema and openapi are mutually exclusive", ErrInvalid)
	}
	if c.OpenAPI != "" && c.OpenAPIComponent == "" {
		return fmt.Errorf("%w: openapi requires a component name", ErrInvalid)
	}
	return nil
}

// Package cli wires the callback form to a cobra command.
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-callbackform/internal/config"
	"github.com/goliatone/go-callbackform/pkg/callback"
	"github.com/goliatone/go-callbackform/pkg/formstate"
	"github.com/goliatone/go-callbackform/pkg/model"
	"github.com/goliatone/go-callbackform/pkg/renderers/tui"
	"github.com/goliatone/go-callbackform/pkg/schema"
	"github.com/goliatone/go-callbackform/pkg/validation"
)

// NewRootCmd builds the callback-form command. rendererOpts are passed to the
// terminal renderer after the defaults derived from flags.
func NewRootCmd(name, shortDesc, longDesc string, rendererOpts ...tui.Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:           name,
		Short:         shortDesc,
		Long:          longDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.String("config", "", "YAML settings file")
	flags.String("log-level", "warn", "Set the log level (debug, info, warn, error)")
	flags.String("schema", "", "form declaration (YAML or JSON) instead of the bundled callback form")
	flags.String("openapi", "", "OpenAPI 3 document to derive the form from")
	flags.String("openapi-component", "", "component schema name inside --openapi")
	flags.StringArray("set", nil, "prefill a field as name=value (repeatable)")
	flags.Duration("submit-delay", config.DefaultSubmitDelay, "duration of the simulated submission")
	flags.String("output", config.OutputJSON, "submitted values format (json, form, pretty)")
	flags.Bool("strip-markup", false, "remove HTML elements from typed text")

	cmd.RunE = func(cc *cobra.Command, _ []string) error {
		cfg, sets, err := resolveConfig(cc)
		if err != nil {
			return err
		}

		logger, err := newLogger(cc, cfg.LogLevel)
		if err != nil {
			return err
		}

		return run(cc, cfg, sets, logger, rendererOpts)
	}

	return cmd
}

// resolveConfig layers changed flags over the config file (or defaults).
func resolveConfig(cc *cobra.Command) (config.Config, []string, error) {
	flags := cc.Flags()

	var merr error

	path, err := flags.GetString("config")
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	sets, err := flags.GetStringArray("set")
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	if merr != nil {
		return config.Config{}, nil, fmt.Errorf("invalid argument: %w", merr)
	}

	cfg := config.Default()
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, nil, err
		}
	}

	stringFlags := map[string]*string{
		"log-level":         &cfg.LogLevel,
		"schema":            &cfg.Schema,
		"openapi":           &cfg.OpenAPI,
		"openapi-component": &cfg.OpenAPIComponent,
		"output":            &cfg.Output,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		*dst = v
	}
	if flags.Changed("submit-delay") {
		d, err := flags.GetDuration("submit-delay")
		if err != nil {
			merr = multierror.Append(merr, err)
		}
		cfg.SubmitDelay = d
	}
	if flags.Changed("strip-markup") {
		strip, err := flags.GetBool("strip-markup")
		if err != nil {
			merr = multierror.Append(merr, err)
		}
		cfg.StripMarkup = strip
	}
	if merr != nil {
		return config.Config{}, nil, fmt.Errorf("invalid argument: %w", merr)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	return cfg, sets, nil
}

func newLogger(cc *cobra.Command, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid argument: log level %q: %w", level, err)
	}
	return log.NewWithOptions(cc.ErrOrStderr(), log.Options{
		Level:           lvl,
		Prefix:          cc.Name(),
		ReportTimestamp: true,
	}), nil
}

func run(cc *cobra.Command, cfg config.Config, sets []string, logger *log.Logger, rendererOpts []tui.Option) error {
	ctx := cc.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	decl, err := loadSchema(ctx, cfg)
	if err != nil {
		return err
	}
	validator, err := validation.New(decl)
	if err != nil {
		return err
	}

	initial, err := prefill(decl, cfg.Prefill, sets)
	if err != nil {
		return err
	}

	storeOpts := []formstate.Option{
		formstate.WithLogger(logger),
		formstate.WithInitialValues(initial),
	}
	if cfg.StripMarkup {
		storeOpts = append(storeOpts, formstate.WithSanitizer(callback.Sanitize))
	}
	store, err := formstate.New(validator, callback.DelayHandler(cfg.SubmitDelay), storeOpts...)
	if err != nil {
		return err
	}
	logger.Debug("form ready", "schema", decl.ID, "fields", len(decl.Fields), "prefilled", len(initial))

	opts := append([]tui.Option{tui.WithOutputFormat(tui.OutputFormat(cfg.Output))}, rendererOpts...)
	renderer, err := tui.New(opts...)
	if err != nil {
		return err
	}

	outcome, err := renderer.Run(ctx, store)
	if err != nil {
		return err
	}

	payload, err := renderer.Serialize(outcome.Values)
	if err != nil {
		return fmt.Errorf("serialize submission: %w", err)
	}
	_, err = fmt.Fprintln(cc.OutOrStdout(), strings.TrimRight(string(payload), "\n"))
	return err
}

func loadSchema(ctx context.Context, cfg config.Config) (model.Schema, error) {
	switch {
	case cfg.Schema != "":
		data, err := os.ReadFile(cfg.Schema)
		if err != nil {
			return model.Schema{}, fmt.Errorf("read schema: %w", err)
		}
		return schema.Parse(data, cfg.Schema)
	case cfg.OpenAPI != "":
		data, err := os.ReadFile(cfg.OpenAPI)
		if err != nil {
			return model.Schema{}, fmt.Errorf("read openapi: %w", err)
		}
		return schema.FromOpenAPI(ctx, data, cfg.OpenAPIComponent)
	default:
		return callback.Schema(), nil
	}
}

// prefill converts name=value pairs into typed initial values. Entries from
// --set win over the config file.
func prefill(decl model.Schema, fromConfig map[string]string, sets []string) (model.Values, error) {
	raw := make(map[string]string, len(fromConfig)+len(sets))
	for name, value := range fromConfig {
		raw[name] = value
	}
	for _, entry := range sets {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid argument: --set %q (want name=value)", entry)
		}
		raw[strings.TrimSpace(name)] = value
	}

	values := make(model.Values, len(raw))
	for name, value := range raw {
		field, ok := decl.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w %q", formstate.ErrUnknownField, name)
		}
		if field.Kind != model.FieldKindBoolean {
			values[name] = value
			continue
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid argument: %s=%q is not a boolean", name, value)
		}
		values[name] = b
	}
	return values, nil
}

package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-callbackform/pkg/model"
)

const extensionPrefix = "x-formgen-"

// Default messages used when an OpenAPI property does not override them via
// x-formgen-messages.
var defaultMessages = map[model.RuleKind]string{
	model.RuleRequired:   "Required",
	model.RuleMaxLength:  "Must be %d characters or less",
	model.RuleEmail:      "Invalid email address",
	model.RuleMustBeTrue: "Must be accepted",
	model.RuleOneOf:      "Invalid value",
}

// FromOpenAPI derives a Schema from the named component schema of an OpenAPI 3
// document. Property order follows x-formgen-position, then name.
//
// Mapping: the component's required list adds a required rule, maxLength adds
// maxLength, format "email" adds email, a boolean enum of [true] adds
// mustBeTrue and a string enum adds oneOf. x-formgen-label, -placeholder,
// -help, -control, -messages and -predicates refine the result.
func FromOpenAPI(ctx context.Context, data []byte, component string) (model.Schema, error) {
	if err := ctx.Err(); err != nil {
		return model.Schema{}, err
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return model.Schema{}, fmt.Errorf("schema: load openapi document: %w", err)
	}
	if doc.Components == nil {
		return model.Schema{}, errors.New("schema: openapi document has no components")
	}
	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return model.Schema{}, fmt.Errorf("schema: openapi component %q not found", component)
	}

	src := ref.Value
	out := model.Schema{
		ID:    component,
		Title: src.Title,
	}
	if src.Description != "" {
		out.Headlines = []string{src.Description}
	}

	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	for _, name := range propertyOrder(src.Properties) {
		prop := src.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		_, isRequired := required[name]
		field, err := fieldFromProperty(name, prop.Value, isRequired)
		if err != nil {
			return model.Schema{}, err
		}
		out.Fields = append(out.Fields, field)
	}

	normalise(&out)
	if err := out.Check(); err != nil {
		return model.Schema{}, fmt.Errorf("schema: openapi component %q: %w", component, err)
	}
	return out, nil
}

type propertyExtensions struct {
	Label       string            `json:"label"`
	Placeholder string            `json:"placeholder"`
	Help        string            `json:"help"`
	Control     string            `json:"control"`
	Position    *int              `json:"position"`
	Messages    map[string]string `json:"messages"`
	Predicates  []struct {
		Expr    string `json:"expr"`
		Message string `json:"message"`
	} `json:"predicates"`
}

func readExtensions(raw map[string]any) (propertyExtensions, error) {
	flat := make(map[string]any)
	for key, value := range raw {
		if name, ok := strings.CutPrefix(key, extensionPrefix); ok {
			flat[name] = value
		}
	}
	var ext propertyExtensions
	if len(flat) == 0 {
		return ext, nil
	}
	// Round-trip through JSON so both decoded values and raw messages work.
	payload, err := json.Marshal(flat)
	if err != nil {
		return ext, err
	}
	if err := json.Unmarshal(payload, &ext); err != nil {
		return ext, err
	}
	return ext, nil
}

func propertyOrder(props openapi3.Schemas) []string {
	type entry struct {
		name string
		pos  int
	}
	entries := make([]entry, 0, len(props))
	for name, prop := range props {
		pos := int(^uint(0) >> 1)
		if prop != nil && prop.Value != nil {
			if ext, err := readExtensions(prop.Value.Extensions); err == nil && ext.Position != nil {
				pos = *ext.Position
			}
		}
		entries = append(entries, entry{name: name, pos: pos})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].pos != entries[j].pos {
			return entries[i].pos < entries[j].pos
		}
		return entries[i].name < entries[j].name
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

func fieldFromProperty(name string, src *openapi3.Schema, required bool) (model.Field, error) {
	ext, err := readExtensions(src.Extensions)
	if err != nil {
		return model.Field{}, fmt.Errorf("schema: property %q extensions: %w", name, err)
	}

	field := model.Field{
		Name:        name,
		Kind:        model.FieldKindString,
		Label:       firstNonEmpty(ext.Label, src.Title, name),
		Placeholder: ext.Placeholder,
		Help:        firstNonEmpty(ext.Help, src.Description),
		Control:     model.Control(ext.Control),
		Default:     src.Default,
	}
	if src.Type != nil && src.Type.Is(openapi3.TypeBoolean) {
		field.Kind = model.FieldKindBoolean
	}

	message := func(kind model.RuleKind) string {
		if msg := strings.TrimSpace(ext.Messages[string(kind)]); msg != "" {
			return msg
		}
		if kind == model.RuleMaxLength && src.MaxLength != nil {
			return fmt.Sprintf(defaultMessages[kind], *src.MaxLength)
		}
		return defaultMessages[kind]
	}

	if required {
		field.Rules = append(field.Rules, model.Rule{Kind: model.RuleRequired, Message: message(model.RuleRequired)})
	}
	if src.MaxLength != nil {
		field.Rules = append(field.Rules, model.Rule{
			Kind:    model.RuleMaxLength,
			Message: message(model.RuleMaxLength),
			Limit:   int(*src.MaxLength),
		})
	}
	if strings.EqualFold(src.Format, "email") {
		field.Rules = append(field.Rules, model.Rule{Kind: model.RuleEmail, Message: message(model.RuleEmail)})
	}
	if len(src.Enum) > 0 {
		rule, err := enumRule(field.Kind, src.Enum, message)
		if err != nil {
			return model.Field{}, fmt.Errorf("schema: property %q: %w", name, err)
		}
		field.Rules = append(field.Rules, rule)
	}
	for _, pred := range ext.Predicates {
		field.Rules = append(field.Rules, model.Rule{
			Kind:    model.RulePredicate,
			Message: pred.Message,
			Expr:    pred.Expr,
		})
	}
	return field, nil
}

func enumRule(kind model.FieldKind, enum []any, message func(model.RuleKind) string) (model.Rule, error) {
	if kind == model.FieldKindBoolean {
		if len(enum) == 1 && enum[0] == true {
			return model.Rule{Kind: model.RuleMustBeTrue, Message: message(model.RuleMustBeTrue)}, nil
		}
		return model.Rule{}, errors.New("boolean enum must be [true]")
	}
	allowed := make([]string, 0, len(enum))
	for _, value := range enum {
		s, ok := value.(string)
		if !ok {
			return model.Rule{}, fmt.Errorf("enum value %v is not a string", value)
		}
		allowed = append(allowed, s)
	}
	return model.Rule{Kind: model.RuleOneOf, Message: message(model.RuleOneOf), Allowed: allowed}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Package validation evaluates a form schema against a value set and produces
// the per-field error mapping consumed by the field state store.
package validation

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-callbackform/pkg/model"
	"github.com/goliatone/go-callbackform/pkg/rules/expr"
)

var shapes = validator.New(validator.WithRequiredStructEnabled())

// Validator holds a checked schema with its predicates compiled. It keeps no
// state between calls.
type Validator struct {
	schema     model.Schema
	predicates map[string][]*expr.Program
}

// New checks schema and compiles its predicate rules.
func New(schema model.Schema) (*Validator, error) {
	if err := schema.Check(); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}

	known := make(map[string]struct{}, len(schema.Fields))
	for _, field := range schema.Fields {
		known[field.Name] = struct{}{}
	}

	v := &Validator{
		schema:     schema,
		predicates: make(map[string][]*expr.Program),
	}
	for _, field := range schema.Fields {
		for idx, rule := range field.Rules {
			if rule.Kind != model.RulePredicate {
				continue
			}
			prog, err := expr.Compile(rule.Expr)
			if err != nil {
				return nil, fmt.Errorf("validation: field %q rule %d: %w", field.Name, idx, err)
			}
			for _, ref := range prog.Fields() {
				if _, ok := known[ref]; !ok {
					return nil, fmt.Errorf("validation: field %q rule %d references unknown field %q", field.Name, idx, ref)
				}
			}
			v.predicates[field.Name] = append(v.predicates[field.Name], prog)
		}
	}
	return v, nil
}

// Schema returns the schema the validator was built from.
func (v *Validator) Schema() model.Schema {
	return v.schema
}

// Validate runs every field's rules against the full value set. Rules for a
// field run in declared order and stop at the first failure; fields are
// independent of each other. values is not modified.
func (v *Validator) Validate(values model.Values) model.Errors {
	errs := make(model.Errors)
	for _, field := range v.schema.Fields {
		if msg, failed := v.validateField(field, values); failed {
			errs[field.Name] = msg
		}
	}
	return errs
}

func (v *Validator) validateField(field model.Field, values model.Values) (string, bool) {
	value, present := values[field.Name]
	if present && value == nil {
		present = false
	}

	predicate := 0
	for _, rule := range field.Rules {
		var ok bool
		switch rule.Kind {
		case model.RuleRequired:
			ok = checkRequired(field.Kind, value, present)
		case model.RulePredicate:
			prog := v.predicates[field.Name][predicate]
			predicate++
			result, err := prog.Eval(values)
			ok = err == nil && result
		default:
			if !present {
				continue
			}
			ok = checkValue(rule, value)
		}
		if !ok {
			return rule.Message, true
		}
	}
	return "", false
}

func checkRequired(kind model.FieldKind, value any, present bool) bool {
	if !present {
		return false
	}
	if kind == model.FieldKindString {
		s, isString := value.(string)
		return isString && s != ""
	}
	return true
}

func checkValue(rule model.Rule, value any) bool {
	switch rule.Kind {
	case model.RuleMaxLength:
		s, ok := value.(string)
		return ok && utf8.RuneCountInString(s) <= rule.Limit
	case model.RuleEmail:
		s, ok := value.(string)
		if !ok {
			return false
		}
		return s == "" || shapes.Var(s, "email") == nil
	case model.RuleMustBeTrue:
		b, ok := value.(bool)
		return ok && b
	case model.RuleOneOf:
		s, ok := value.(string)
		return ok && slices.Contains(rule.Allowed, s)
	default:
		return false
	}
}

// Validate is a convenience for one-off checks; callers validating repeatedly
// should build a Validator once.
func Validate(schema model.Schema, values model.Values) (model.Errors, error) {
	v, err := New(schema)
	if err != nil {
		return nil, err
	}
	return v.Validate(values), nil
}

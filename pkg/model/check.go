package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSchemaIDMissing     = errors.New("model: schema id is required")
	ErrSchemaNoFields      = errors.New("model: schema declares no fields")
	ErrFieldNameMissing    = errors.New("model: field name is required")
	ErrDuplicateField      = errors.New("model: duplicate field")
	ErrUnknownFieldKind    = errors.New("model: unknown field kind")
	ErrUnknownRuleKind     = errors.New("model: unknown rule kind")
	ErrRuleMessage         = errors.New("model: rule message is required")
	ErrRuleParameter       = errors.New("model: rule parameter is invalid")
	ErrRuleKindMismatch    = errors.New("model: rule does not apply to field kind")
	ErrDefaultKindMismatch = errors.New("model: default does not match field kind")
	ErrUnknownControl      = errors.New("model: unknown control")
	ErrControlKindMismatch = errors.New("model: control does not fit field kind")
	ErrSelectOptions       = errors.New("model: select control needs a oneOf rule")
)

// Check reports declaration mistakes. These are programming errors in the
// schema, not validation failures of user input.
func (s Schema) Check() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrSchemaIDMissing
	}
	if len(s.Fields) == 0 {
		return ErrSchemaNoFields
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for idx, field := range s.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" || name != field.Name {
			return fmt.Errorf("%w (index %d)", ErrFieldNameMissing, idx)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w %q", ErrDuplicateField, name)
		}
		seen[name] = struct{}{}

		if err := checkField(field); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

func checkField(field Field) error {
	switch field.Kind {
	case FieldKindString, FieldKindBoolean:
	default:
		return fmt.Errorf("%w %q", ErrUnknownFieldKind, field.Kind)
	}

	if field.Default != nil {
		switch field.Default.(type) {
		case string:
			if field.Kind != FieldKindString {
				return ErrDefaultKindMismatch
			}
		case bool:
			if field.Kind != FieldKindBoolean {
				return ErrDefaultKindMismatch
			}
		default:
			return ErrDefaultKindMismatch
		}
	}

	for idx, rule := range field.Rules {
		if err := checkRule(field.Kind, rule); err != nil {
			return fmt.Errorf("rule %d (%s): %w", idx, rule.Kind, err)
		}
	}
	return checkControl(field)
}

// checkControl rejects controls a renderer could not drive. An empty control
// renders as text.
func checkControl(field Field) error {
	switch field.Control {
	case "", ControlNone:
		return nil
	case ControlText, ControlEmail:
		if field.Kind != FieldKindString {
			return fmt.Errorf("%w: %s on %s", ErrControlKindMismatch, field.Control, field.Kind)
		}
	case ControlCheckbox:
		if field.Kind != FieldKindBoolean {
			return fmt.Errorf("%w: %s on %s", ErrControlKindMismatch, field.Control, field.Kind)
		}
	case ControlSelect:
		if field.Kind != FieldKindString {
			return fmt.Errorf("%w: %s on %s", ErrControlKindMismatch, field.Control, field.Kind)
		}
		if len(field.Options()) == 0 {
			return ErrSelectOptions
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownControl, field.Control)
	}
	return nil
}

func checkRule(kind FieldKind, rule Rule) error {
	if strings.TrimSpace(rule.Message) == "" {
		return ErrRuleMessage
	}
	switch rule.Kind {
	case RuleRequired, RulePredicate:
		if rule.Kind == RulePredicate && strings.TrimSpace(rule.Expr) == "" {
			return fmt.Errorf("%w: expr is empty", ErrRuleParameter)
		}
		return nil
	case RuleMaxLength:
		if kind != FieldKindString {
			return ErrRuleKindMismatch
		}
		if rule.Limit <= 0 {
			return fmt.Errorf("%w: limit must be positive", ErrRuleParameter)
		}
	case RuleEmail:
		if kind != FieldKindString {
			return ErrRuleKindMismatch
		}
	case RuleMustBeTrue:
		if kind != FieldKindBoolean {
			return ErrRuleKindMismatch
		}
	case RuleOneOf:
		if kind != FieldKindString {
			return ErrRuleKindMismatch
		}
		if len(rule.Allowed) == 0 {
			return fmt.Errorf("%w: allowed set is empty", ErrRuleParameter)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownRuleKind, rule.Kind)
	}
	return nil
}

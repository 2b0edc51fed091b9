package model

// FieldKind is the value type a field holds.
type FieldKind string

const (
	FieldKindString  FieldKind = "string"
	FieldKindBoolean FieldKind = "boolean"
)

// RuleKind enumerates the supported validation rules.
type RuleKind string

const (
	RuleRequired   RuleKind = "required"
	RuleMaxLength  RuleKind = "maxLength"
	RuleEmail      RuleKind = "email"
	RuleMustBeTrue RuleKind = "mustBeTrue"
	RuleOneOf      RuleKind = "oneOf"
	RulePredicate  RuleKind = "predicate"
)

// RuleKinds lists every rule kind in a stable order.
var RuleKinds = []RuleKind{
	RuleRequired,
	RuleMaxLength,
	RuleEmail,
	RuleMustBeTrue,
	RuleOneOf,
	RulePredicate,
}

// Control names the input control a renderer uses for a field. ControlNone
// marks fields that are declared and validated but not rendered.
type Control string

const (
	ControlText     Control = "text"
	ControlEmail    Control = "email"
	ControlCheckbox Control = "checkbox"
	ControlSelect   Control = "select"
	ControlNone     Control = "none"
)

// Rule is a single validation constraint. Only the parameter matching Kind is
// read: Limit for maxLength, Allowed for oneOf and Expr for predicate.
type Rule struct {
	Kind    RuleKind `json:"kind" yaml:"kind"`
	Message string   `json:"message" yaml:"message"`
	Limit   int      `json:"limit,omitempty" yaml:"limit,omitempty"`
	Allowed []string `json:"allowed,omitempty" yaml:"allowed,omitempty"`
	Expr    string   `json:"expr,omitempty" yaml:"expr,omitempty"`
}

// Field declares one named input of a form.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Help        string    `json:"help,omitempty" yaml:"help,omitempty"`
	Control     Control   `json:"control,omitempty" yaml:"control,omitempty"`
	Default     any       `json:"default,omitempty" yaml:"default,omitempty"`
	Rules       []Rule    `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Rendered reports whether the field has an input control.
func (f Field) Rendered() bool {
	return f.Control != ControlNone
}

// Options returns the allowed values of the first oneOf rule, if any.
func (f Field) Options() []string {
	for _, rule := range f.Rules {
		if rule.Kind == RuleOneOf {
			return append([]string(nil), rule.Allowed...)
		}
	}
	return nil
}

// ZeroValue is the value a field starts with when no default is declared.
func (f Field) ZeroValue() any {
	if f.Default != nil {
		return f.Default
	}
	if f.Kind == FieldKindBoolean {
		return false
	}
	return ""
}

// Schema is the ordered, immutable declaration of a form.
type Schema struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title,omitempty" yaml:"title,omitempty"`
	Headlines []string `json:"headlines,omitempty" yaml:"headlines,omitempty"`
	Fields    []Field  `json:"fields" yaml:"fields"`
}

// Field looks up a declaration by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names lists field names in declaration order.
func (s Schema) Names() []string {
	out := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		out = append(out, field.Name)
	}
	return out
}

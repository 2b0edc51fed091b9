package model

import (
	"maps"
	"sort"
)

// Values maps field names to their current value (string or bool).
type Values map[string]any

// Clone returns a shallow copy; values are scalars so this is a full copy.
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	return maps.Clone(v)
}

// String returns the string value of name, or "" when absent or not a string.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Bool returns the boolean value of name, or false when absent or not a bool.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Errors maps field names to the message of their first failing rule. Fields
// that pass every rule have no entry.
type Errors map[string]string

// Clone returns a copy of the mapping.
func (e Errors) Clone() Errors {
	if e == nil {
		return Errors{}
	}
	return maps.Clone(e)
}

// Empty reports whether no field is failing.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing field names sorted alphabetically.
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

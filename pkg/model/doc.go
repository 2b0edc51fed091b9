// Package model defines the declarative form description shared by the
// validator, the field state store and the renderers. A Schema is an ordered
// list of Field declarations; each Field carries its kind, the control used to
// render it and an ordered list of Rules. Rules are a closed set of kinds
// (required, maxLength, email, mustBeTrue, oneOf, predicate) whose parameters
// live in typed struct fields rather than free-form maps, so the validator can
// switch over RuleKind exhaustively. Values and Errors are the plain maps that
// flow between the store and the validator; Errors only ever holds entries for
// fields that currently fail a rule.
package model

package validation_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-callbackform/pkg/callback"
	"github.com/goliatone/go-callbackform/pkg/model"
	"github.com/goliatone/go-callbackform/pkg/testsupport"
	"github.com/goliatone/go-callbackform/pkg/validation"
)

func TestValidateCallbackScenarios(t *testing.T) {
	t.Parallel()

	v := callback.Validator()
	for _, sc := range testsupport.CallbackScenarios() {
		got := v.Validate(sc.Values)
		if diff := cmp.Diff(sc.Want, got); diff != "" {
			t.Fatalf("%s: errors mismatch (-want +got):\n%s", sc.Name, diff)
		}
	}
}

func TestValidateIsIdempotentAndPure(t *testing.T) {
	t.Parallel()

	v := callback.Validator()
	values := model.Values{"FullName": strings.Repeat("x", 16), "email": "nope"}
	before := values.Clone()

	first := v.Validate(values)
	second := v.Validate(values)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("validation not idempotent (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, values); diff != "" {
		t.Fatalf("values mutated (-want +got):\n%s", diff)
	}
}

func TestRuleKinds(t *testing.T) {
	t.Parallel()

	schema := model.Schema{
		ID: "rules",
		Fields: []model.Field{
			{Name: "name", Kind: model.FieldKindString, Rules: []model.Rule{
				{Kind: model.RuleRequired, Message: "name required"},
				{Kind: model.RuleMaxLength, Limit: 3, Message: "name too long"},
			}},
			{Name: "mail", Kind: model.FieldKindString, Rules: []model.Rule{
				{Kind: model.RuleEmail, Message: "bad mail"},
			}},
			{Name: "ok", Kind: model.FieldKindBoolean, Rules: []model.Rule{
				{Kind: model.RuleRequired, Message: "ok required"},
				{Kind: model.RuleMustBeTrue, Message: "ok must be true"},
			}},
			{Name: "pick", Kind: model.FieldKindString, Rules: []model.Rule{
				{Kind: model.RuleOneOf, Allowed: []string{"a", "b"}, Message: "bad pick"},
			}},
		},
	}
	v, err := validation.New(schema)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []struct {
		name   string
		values model.Values
		want   model.Errors
	}{
		{
			name:   "all satisfied",
			values: model.Values{"name": "ab", "mail": "x@y.io", "ok": true, "pick": "b"},
			want:   model.Errors{},
		},
		{
			name:   "all violated",
			values: model.Values{"name": "abcd", "mail": "x@", "ok": false, "pick": "c"},
			want: model.Errors{
				"name": "name too long",
				"mail": "bad mail",
				"ok":   "ok must be true",
				"pick": "bad pick",
			},
		},
		{
			name:   "absent values only fail required",
			values: model.Values{},
			want:   model.Errors{"name": "name required", "ok": "ok required"},
		},
		{
			name:   "empty string skips email and fails oneOf",
			values: model.Values{"name": "a", "mail": "", "ok": true, "pick": ""},
			want:   model.Errors{"pick": "bad pick"},
		},
		{
			name:   "max length counts characters",
			values: model.Values{"name": "héé", "ok": true},
			want:   model.Errors{},
		},
		{
			name:   "wrong kinds fail",
			values: model.Values{"name": "a", "ok": "yes", "mail": true},
			want:   model.Errors{"ok": "ok must be true", "mail": "bad mail"},
		},
	}

	for _, tc := range cases {
		got := v.Validate(tc.values)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s: errors mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestFirstFailingRuleWins(t *testing.T) {
	t.Parallel()

	schema := model.Schema{
		ID: "order",
		Fields: []model.Field{
			{Name: "code", Kind: model.FieldKindString, Rules: []model.Rule{
				{Kind: model.RuleRequired, Message: "first"},
				{Kind: model.RuleOneOf, Allowed: []string{"x"}, Message: "second"},
				{Kind: model.RuleMaxLength, Limit: 1, Message: "third"},
			}},
		},
	}
	errs, err := validation.Validate(schema, model.Values{"code": ""})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := errs["code"]; got != "first" {
		t.Fatalf("expected first rule message, got %q", got)
	}

	errs, _ = validation.Validate(schema, model.Values{"code": "yy"})
	if got := errs["code"]; got != "second" {
		t.Fatalf("expected second rule message, got %q", got)
	}
}

func TestPredicateRecomputesDependentField(t *testing.T) {
	t.Parallel()

	schema := model.Schema{
		ID: "cross",
		Fields: []model.Field{
			{Name: "jobType", Kind: model.FieldKindString},
			{Name: "phone", Kind: model.FieldKindString, Rules: []model.Rule{
				{Kind: model.RulePredicate, Expr: `jobType != "other" || phone != ""`, Message: "phone needed for other"},
			}},
		},
	}
	v, err := validation.New(schema)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := v.Validate(model.Values{"jobType": "designer", "phone": ""}); !got.Empty() {
		t.Fatalf("expected no errors, got %v", got)
	}
	got := v.Validate(model.Values{"jobType": "other", "phone": ""})
	if diff := cmp.Diff(model.Errors{"phone": "phone needed for other"}, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRejectsBadSchemas(t *testing.T) {
	t.Parallel()

	cases := map[string]model.Schema{
		"unknown predicate field": {ID: "x", Fields: []model.Field{
			{Name: "a", Kind: model.FieldKindString, Rules: []model.Rule{
				{Kind: model.RulePredicate, Expr: "b == true", Message: "m"},
			}},
		}},
		"bad predicate": {ID: "x", Fields: []model.Field{
			{Name: "a", Kind: model.FieldKindString, Rules: []model.Rule{
				{Kind: model.RulePredicate, Expr: "a ==", Message: "m"},
			}},
		}},
		"missing message": {ID: "x", Fields: []model.Field{
			{Name: "a", Kind: model.FieldKindString, Rules: []model.Rule{{Kind: model.RuleRequired}}},
		}},
	}
	for name, schema := range cases {
		if _, err := validation.New(schema); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

package schema

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-callbackform/pkg/model"
)

func TestParseYAMLFillsControls(t *testing.T) {
	t.Parallel()

	doc := `
id: demo
fields:
  - name: name
    kind: string
    rules:
      - kind: required
        message: Required
  - name: mail
    kind: string
    rules:
      - kind: email
        message: Bad
  - name: ok
    kind: boolean
  - name: pick
    kind: string
    rules:
      - kind: oneOf
        allowed: [a, b]
        message: Bad pick
`
	got, err := Parse([]byte(doc), "demo.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	controls := map[string]model.Control{}
	for _, field := range got.Fields {
		controls[field.Name] = field.Control
	}
	want := map[string]model.Control{
		"name": model.ControlText,
		"mail": model.ControlEmail,
		"ok":   model.ControlCheckbox,
		"pick": model.ControlSelect,
	}
	if diff := cmp.Diff(want, controls); diff != "" {
		t.Fatalf("controls mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	doc := `{"id":"demo","fields":[{"name":"ok","kind":"boolean","default":true}]}`
	got, err := Parse([]byte(doc), "inline")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Fields[0].Default != true {
		t.Fatalf("expected default true, got %#v", got.Fields[0].Default)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	for name, doc := range map[string]string{
		"empty":   "  ",
		"invalid": "id: [",
		"check":   "id: x\nfields:\n  - name: a\n    kind: number\n",
	} {
		if _, err := Parse([]byte(doc), name+".yaml"); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestParseRejectsUndrivableControls(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		doc  string
		want error
	}{
		"unknown control": {
			doc:  "id: x\nfields:\n  - name: a\n    kind: string\n    control: bogus\n",
			want: model.ErrUnknownControl,
		},
		"select without options": {
			doc:  "id: x\nfields:\n  - name: a\n    kind: string\n    control: select\n",
			want: model.ErrSelectOptions,
		},
	} {
		if _, err := Parse([]byte(tc.doc), name+".yaml"); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", name, tc.want, err)
		}
	}
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"forms/demo.yml": {Data: []byte("id: demo\nfields:\n  - name: a\n    kind: string\n")},
	}
	got, err := LoadFS(fsys, "forms/demo.yml")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if got.ID != "demo" || len(got.Fields) != 1 {
		t.Fatalf("unexpected schema %+v", got)
	}

	if _, err := LoadFS(fsys, "missing.yaml"); err == nil || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected read error naming the file, got %v", err)
	}
}

const callbackOpenAPI = `
openapi: 3.0.3
info:
  title: callbacks
  version: 1.0.0
paths: {}
components:
  schemas:
    CallbackRequest:
      type: object
      title: Need Help
      required: [FullName, email, acceptedTerms, jobType]
      properties:
        FullName:
          type: string
          title: Full Name
          maxLength: 15
          x-formgen-position: 1
          x-formgen-placeholder: Please enter your name
        email:
          type: string
          format: email
          title: Email Address
          x-formgen-position: 2
          x-formgen-messages:
            email: Invalid email address
        phone:
          type: string
          title: Phone Number
          x-formgen-position: 3
        acceptedTerms:
          type: boolean
          enum: [true]
          x-formgen-position: 4
          x-formgen-label: I accept the terms and conditions
          x-formgen-messages:
            mustBeTrue: You must accept the terms and conditions.
        jobType:
          type: string
          enum: [designer, development, product, other]
          x-formgen-position: 5
          x-formgen-control: none
          x-formgen-messages:
            oneOf: Invalid Job Type
`

func TestFromOpenAPI(t *testing.T) {
	t.Parallel()

	got, err := FromOpenAPI(context.Background(), []byte(callbackOpenAPI), "CallbackRequest")
	if err != nil {
		t.Fatalf("FromOpenAPI: %v", err)
	}

	want := []model.Field{
		{
			Name: "FullName", Kind: model.FieldKindString, Label: "Full Name",
			Placeholder: "Please enter your name", Control: model.ControlText,
			Rules: []model.Rule{
				{Kind: model.RuleRequired, Message: "Required"},
				{Kind: model.RuleMaxLength, Message: "Must be 15 characters or less", Limit: 15},
			},
		},
		{
			Name: "email", Kind: model.FieldKindString, Label: "Email Address", Control: model.ControlEmail,
			Rules: []model.Rule{
				{Kind: model.RuleRequired, Message: "Required"},
				{Kind: model.RuleEmail, Message: "Invalid email address"},
			},
		},
		{Name: "phone", Kind: model.FieldKindString, Label: "Phone Number", Control: model.ControlText},
		{
			Name: "acceptedTerms", Kind: model.FieldKindBoolean, Label: "I accept the terms and conditions",
			Control: model.ControlCheckbox,
			Rules: []model.Rule{
				{Kind: model.RuleRequired, Message: "Required"},
				{Kind: model.RuleMustBeTrue, Message: "You must accept the terms and conditions."},
			},
		},
		{
			Name: "jobType", Kind: model.FieldKindString, Label: "jobType", Control: model.ControlNone,
			Rules: []model.Rule{
				{Kind: model.RuleRequired, Message: "Required"},
				{Kind: model.RuleOneOf, Message: "Invalid Job Type", Allowed: []string{"designer", "development", "product", "other"}},
			},
		},
	}
	if diff := cmp.Diff(want, got.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if got.ID != "CallbackRequest" || got.Title != "Need Help" {
		t.Fatalf("unexpected header %q / %q", got.ID, got.Title)
	}
}

func TestFromOpenAPIMissingComponent(t *testing.T) {
	t.Parallel()

	if _, err := FromOpenAPI(context.Background(), []byte(callbackOpenAPI), "Nope"); err == nil {
		t.Fatalf("expected error for missing component")
	}
}

package callback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-callbackform/pkg/model"
)

func TestBundledSchema(t *testing.T) {
	t.Parallel()

	s := Schema()
	want := []string{FieldFullName, FieldEmail, FieldPhone, FieldAcceptedTerms, FieldJobType}
	if diff := cmp.Diff(want, s.Names()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	jobType, _ := s.Field(FieldJobType)
	if jobType.Rendered() {
		t.Fatalf("jobType must not have a control")
	}
	if diff := cmp.Diff([]string{"designer", "development", "product", "other"}, jobType.Options()); diff != "" {
		t.Fatalf("jobType options mismatch (-want +got):\n%s", diff)
	}

	phone, _ := s.Field(FieldPhone)
	if len(phone.Rules) != 0 {
		t.Fatalf("phone must be unvalidated, got %v", phone.Rules)
	}

	name, _ := s.Field(FieldFullName)
	wantRules := []model.Rule{
		{Kind: model.RuleRequired, Message: "Required"},
		{Kind: model.RuleMaxLength, Message: "Must be 15 characters or less", Limit: 15},
	}
	if diff := cmp.Diff(wantRules, name.Rules); diff != "" {
		t.Fatalf("FullName rules mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Alex Kim":               "Alex Kim",
		"<b>Alex</b>":            "Alex",
		"<i>Tom</i> & Jerry":     "Tom & Jerry",
		"Tom &amp; <b>Jerry</b>": "Tom &amp; Jerry",
		"(555)-123-4567":         "(555)-123-4567",
		`O'Brien "Bob"`:          `O'Brien "Bob"`,
		"x<y":                    "x<y",
		"Alex <alex@b.com>":      "Alex <alex@b.com>",
		"Tom &amp; Jerry":        "Tom &amp; Jerry",
		"a < b":                  "a < b",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewStoreKeepsTypedText(t *testing.T) {
	t.Parallel()

	store, err := NewStore(DelayHandler(0))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for name, typed := range map[string]string{
		FieldFullName: "<b>Alex</b>",
		FieldEmail:    "Alex <alex@b.com>",
		FieldPhone:    "Tom &amp; Jerry",
	} {
		binding, err := store.Binding(name)
		if err != nil {
			t.Fatalf("binding %s: %v", name, err)
		}
		if err := binding.Change(typed); err != nil {
			t.Fatalf("change %s: %v", name, err)
		}
		if got := binding.Value(); got != typed {
			t.Fatalf("%s = %q, want %q", name, got, typed)
		}
	}
}

func TestDelayHandlerHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := DelayHandler(time.Hour)(ctx, model.Values{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := DelayHandler(time.Millisecond)(context.Background(), model.Values{}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

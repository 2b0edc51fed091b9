package expr

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-callbackform/pkg/model"
)

func TestProgramComparisons(t *testing.T) {
	t.Parallel()

	values := model.Values{
		"acceptedTerms": true,
		"jobType":       "other",
		"phone":         "",
		"email":         "a@b.com",
		"FullName":      "a@b.com",
		"count":         "3",
	}

	cases := []struct {
		src  string
		want bool
	}{
		{`acceptedTerms`, true},
		{`!phone`, true},
		{`phone`, false},
		{`missing`, false},
		{`acceptedTerms == true`, true},
		{`acceptedTerms != false`, true},
		{`jobType == "other"`, true},
		{`jobType == 'other'`, true},
		{`jobType != "designer"`, true},
		{`count == 3`, true},
		{`missing == null`, true},
		{`phone == null`, false},
		{`email == FullName`, true},
		{`email != FullName`, false},
		{`jobType == "other" && phone != ""`, false},
		{`jobType == "other" && (phone != "" || acceptedTerms)`, true},
		{`!(jobType == "designer") || phone`, true},
	}

	for _, tc := range cases {
		prog, err := Compile(tc.src)
		if err != nil {
			t.Fatalf("Compile(%q): %v", tc.src, err)
		}
		got, err := prog.Eval(values)
		if err != nil {
			t.Fatalf("Eval(%q): %v", tc.src, err)
		}
		if got != tc.want {
			t.Fatalf("Eval(%q) = %v, want %v", tc.src, got, tc.want)
		}
	}
}

func TestProgramFields(t *testing.T) {
	t.Parallel()

	prog := MustCompile(`jobType != "other" || (phone != "" && phone != email)`)
	want := []string{"jobType", "phone", "email"}
	if diff := cmp.Diff(want, prog.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	for _, src := range []string{
		"",
		"a = b",
		"a & b",
		"a | b",
		"(a",
		"a ==",
		`"x" == a`,
		`a == "unterminated`,
		"a b",
	} {
		_, err := Compile(src)
		if err == nil {
			t.Fatalf("Compile(%q) expected error", src)
		}
		if !errors.Is(err, ErrSyntax) {
			t.Fatalf("Compile(%q) error %v does not wrap ErrSyntax", src, err)
		}
	}
}

func TestEvalDoesNotMutateValues(t *testing.T) {
	t.Parallel()

	values := model.Values{"a": "x"}
	before := values.Clone()
	if _, err := MustCompile(`a == "x" && b == null`).Eval(values); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if diff := cmp.Diff(before, values); diff != "" {
		t.Fatalf("values mutated (-want +got):\n%s", diff)
	}
}

// Package testsupport holds fixtures shared by the package tests.
package testsupport

import (
	"context"
	"sync"
	"testing"

	"github.com/goliatone/go-callbackform/pkg/model"
)

// Scenario pairs a value set for the callback form with the error mapping a
// validation pass must produce.
type Scenario struct {
	Name   string
	Values model.Values
	Want   model.Errors
}

// CallbackScenarios are the reference cases for the bundled callback form.
func CallbackScenarios() []Scenario {
	return []Scenario{
		{
			Name: "missing name",
			Values: model.Values{
				"FullName": "", "email": "a@b.com", "phone": "",
				"acceptedTerms": true, "jobType": "designer",
			},
			Want: model.Errors{"FullName": "Required"},
		},
		{
			Name: "malformed email",
			Values: model.Values{
				"FullName": "Al", "email": "not-an-email", "phone": "",
				"acceptedTerms": true, "jobType": "other",
			},
			Want: model.Errors{"email": "Invalid email address"},
		},
		{
			Name: "terms not accepted",
			Values: model.Values{
				"FullName": "Alex Kim", "email": "a@b.com", "phone": "",
				"acceptedTerms": false, "jobType": "product",
			},
			Want: model.Errors{"acceptedTerms": "You must accept the terms and conditions."},
		},
		{
			Name: "valid",
			Values: model.Values{
				"FullName": "Alex", "email": "a@b.com", "phone": "555-1212",
				"acceptedTerms": true, "jobType": "development",
			},
			Want: model.Errors{},
		},
	}
}

// ValidCallbackValues returns a value set that passes every rule.
func ValidCallbackValues() model.Values {
	for _, sc := range CallbackScenarios() {
		if len(sc.Want) == 0 {
			return sc.Values.Clone()
		}
	}
	return nil
}

// Handler records submit handler calls. When Release is non-nil each call
// blocks until a value arrives on it (or ctx ends) and returns that value.
type Handler struct {
	Release chan error

	mu      sync.Mutex
	calls   []model.Values
	started chan struct{}
}

// NewHandler returns a Handler whose calls block until released.
func NewHandler() *Handler {
	return &Handler{
		Release: make(chan error),
		started: make(chan struct{}, 16),
	}
}

// Submit satisfies formstate.SubmitHandler.
func (h *Handler) Submit(ctx context.Context, values model.Values) error {
	h.mu.Lock()
	h.calls = append(h.calls, values)
	started := h.started
	h.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if h.Release == nil {
		return nil
	}
	select {
	case err := <-h.Release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Calls returns the value snapshots received so far.
func (h *Handler) Calls() []model.Values {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]model.Values(nil), h.calls...)
}

// WaitStarted blocks until the handler has been entered once.
func (h *Handler) WaitStarted(t *testing.T) {
	t.Helper()
	if h.started == nil {
		t.Fatalf("testsupport: handler was not built with NewHandler")
	}
	<-h.started
}

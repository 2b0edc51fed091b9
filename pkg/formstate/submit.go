package formstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-callbackform/pkg/model"
)

// SubmitStatus describes how a submission attempt ended.
type SubmitStatus string

const (
	// SubmitBlocked means validation failed and the handler was not called.
	SubmitBlocked SubmitStatus = "blocked"
	// SubmitBusy means another submission was still running.
	SubmitBusy SubmitStatus = "busy"
	// SubmitSucceeded means the handler returned nil.
	SubmitSucceeded SubmitStatus = "succeeded"
	// SubmitFailed means the handler returned an error.
	SubmitFailed SubmitStatus = "failed"
	// SubmitCanceled means the submission context ended before the handler
	// finished.
	SubmitCanceled SubmitStatus = "canceled"
)

// SubmitOutcome is the result of one Submit call.
type SubmitOutcome struct {
	ID     string
	Status SubmitStatus
	// Errors holds the validation errors when Status is SubmitBlocked.
	Errors model.Errors
	// Values is the snapshot passed to the handler.
	Values model.Values
	Err    error
}

// SubmitTask is a handle on a submission attempt.
type SubmitTask struct {
	id      string
	done    chan struct{}
	cancel  context.CancelFunc
	outcome SubmitOutcome
}

func newTask(id string, cancel context.CancelFunc) *SubmitTask {
	if cancel == nil {
		cancel = func() {}
	}
	return &SubmitTask{id: id, done: make(chan struct{}), cancel: cancel}
}

func completedTask(outcome SubmitOutcome) *SubmitTask {
	t := newTask(outcome.ID, nil)
	t.complete(outcome)
	return t
}

func (t *SubmitTask) complete(outcome SubmitOutcome) {
	t.outcome = outcome
	close(t.done)
}

// ID identifies the attempt in logs.
func (t *SubmitTask) ID() string {
	return t.id
}

// Done is closed once the outcome is known.
func (t *SubmitTask) Done() <-chan struct{} {
	return t.done
}

// Cancel cancels the context passed to the handler. It has no effect once the
// task is done.
func (t *SubmitTask) Cancel() {
	t.cancel()
}

// Wait blocks until the task completes or ctx ends.
func (t *SubmitTask) Wait(ctx context.Context) (SubmitOutcome, error) {
	select {
	case <-t.done:
		return t.outcome, nil
	case <-ctx.Done():
		return SubmitOutcome{}, ctx.Err()
	}
}

// Outcome returns the result without blocking; ok is false while running.
func (t *SubmitTask) Outcome() (SubmitOutcome, bool) {
	select {
	case <-t.done:
		return t.outcome, true
	default:
		return SubmitOutcome{}, false
	}
}

// Submit validates the whole form and, when it is clean, hands a snapshot of
// the values to the submit handler. Submitting is true from the moment the
// handler is scheduled until it returns.
func (s *Store) Submit(ctx context.Context) *SubmitTask {
	id := uuid.NewString()

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		s.logger.Warn("submit ignored", "id", id, "reason", ErrSubmitInProgress)
		return completedTask(SubmitOutcome{ID: id, Status: SubmitBusy, Err: ErrSubmitInProgress})
	}

	s.submitCount++
	errs := s.validateLocked().Clone()
	if !errs.Empty() {
		for _, field := range s.schema.Fields {
			s.touched[field.Name] = true
		}
		s.mu.Unlock()
		s.logger.Info("submit blocked", "id", id, "fields", errs.Fields())
		return completedTask(SubmitOutcome{ID: id, Status: SubmitBlocked, Errors: errs})
	}

	s.submitting = true
	s.active = id
	s.formErr = nil
	snapshot := s.values.Clone()
	s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	task := newTask(id, cancel)
	s.logger.Debug("submit started", "id", id)

	go func() {
		defer cancel()
		err := s.runHandler(runCtx, snapshot.Clone())
		outcome := SubmitOutcome{ID: id, Status: SubmitSucceeded, Values: snapshot}
		switch {
		case err == nil:
		case runCtx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
			outcome.Status = SubmitCanceled
			outcome.Err = err
		default:
			outcome.Status = SubmitFailed
			outcome.Err = err
		}

		s.mu.Lock()
		s.submitting = false
		s.active = ""
		if outcome.Status == SubmitFailed {
			s.formErr = err
		}
		s.mu.Unlock()

		if outcome.Err != nil {
			s.logger.Warn("submit finished", "id", id, "status", outcome.Status, "err", outcome.Err)
		} else {
			s.logger.Info("submit finished", "id", id, "status", outcome.Status)
		}
		task.complete(outcome)
	}()

	return task
}

// runHandler turns a handler panic into an error so the session survives it.
func (s *Store) runHandler(ctx context.Context, values model.Values) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return s.handler(ctx, values)
}

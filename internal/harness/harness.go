package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/roach88/promptguide/internal/catalog"
	"github.com/roach88/promptguide/internal/engine"
	"github.com/roach88/promptguide/internal/ir"
	"github.com/roach88/promptguide/internal/prefs"
	"github.com/roach88/promptguide/internal/render"
	"github.com/roach88/promptguide/internal/store"
	"github.com/roach88/promptguide/internal/testutil"
)

// errInjectedWrite is returned by store writes when a scenario sets
// fail_writes.
var errInjectedWrite = errors.New("injected write failure")

// faultyStore wraps the scenario store so writes can be made to fail.
type faultyStore struct {
	*store.Store
	fail atomic.Bool
}

func (f *faultyStore) Put(ctx context.Context, key, value string) error {
	if f.fail.Load() {
		return errInjectedWrite
	}
	return f.Store.Put(ctx, key, value)
}

// Harness is the scenario execution engine.
type Harness struct {
	ctrl   *engine.Controller
	store  *faultyStore
	logger *zap.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
//  1. Open the store and seed the favorites and theme slots
//  2. Build a controller over the embedded catalog
//  3. Dispatch each step, checking expect_error
//  4. Evaluate assertions and render the final page
//
// An error is returned only when the scenario cannot run at all; step and
// assertion failures are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	fs := &faultyStore{Store: st}
	if err := seed(ctx, fs, scenario); err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	logger := zap.NewNop()
	ctrl, err := engine.New(ctx, cat, fs,
		engine.WithLogger(logger),
		engine.WithRNG(testutil.NewSeededRand(scenario.Seed)),
		engine.WithSessionIDs(testutil.NewFixedSessionGenerator(scenario.SessionID)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create controller: %w", err)
	}
	fs.fail.Store(scenario.FailWrites)

	h := &Harness{ctrl: ctrl, store: fs, logger: logger}

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	result.Trace = convertTrace(ctrl.Trace())
	result.Page = render.Page(ctrl.View(), render.Plain())

	actx := &AssertionContext{
		Ctx:        ctx,
		Controller: ctrl,
		Store:      fs,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// seed writes the scenario's initial preference slots.
func seed(ctx context.Context, kv prefs.KV, s *Scenario) error {
	switch {
	case s.FavoritesRaw != nil:
		if err := kv.Put(ctx, prefs.FavoritesKey, *s.FavoritesRaw); err != nil {
			return err
		}
	case len(s.Favorites) > 0:
		data, err := json.Marshal(s.Favorites)
		if err != nil {
			return err
		}
		if err := kv.Put(ctx, prefs.FavoritesKey, string(data)); err != nil {
			return err
		}
	}

	if s.Theme != "" {
		if err := kv.Put(ctx, prefs.ThemeKey, s.Theme); err != nil {
			return err
		}
	}
	return nil
}

// executeSteps dispatches every step. A rejection that the step did not
// expect, or an expected rejection that did not happen, is recorded as a
// result error and execution continues.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		arg, err := h.resolveArg(step.Arg)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		ev, err := engine.NewEvent(step.Event, arg)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		err = h.ctrl.Dispatch(ctx, ev)
		code := string(engine.CodeOf(err))

		switch {
		case step.ExpectError == "" && err != nil:
			result.AddError(fmt.Sprintf("step %d: %s rejected: %v", i, ev, err))
		case step.ExpectError != "" && err == nil:
			result.AddError(fmt.Sprintf("step %d: %s accepted, expected %s", i, ev, step.ExpectError))
		case step.ExpectError != "" && code != step.ExpectError:
			result.AddError(fmt.Sprintf("step %d: %s rejected with %s, expected %s", i, ev, code, step.ExpectError))
		}

		h.logger.Debug("step completed",
			zap.Int("step", i),
			zap.Stringer("event", ev),
			zap.String("code", code))
	}
	return nil
}

// resolveArg substitutes quiz placeholders.
func (h *Harness) resolveArg(arg string) (string, error) {
	if arg != PlaceholderCorrect && arg != PlaceholderWrong {
		return arg, nil
	}

	qs := h.ctrl.State().Quiz
	if qs == nil {
		return "", fmt.Errorf("%s needs an open quiz", arg)
	}
	if arg == PlaceholderCorrect {
		return string(qs.Question.CorrectID), nil
	}
	for _, o := range qs.Question.Options {
		if o.ID != qs.Question.CorrectID {
			return string(o.ID), nil
		}
	}
	return "", fmt.Errorf("question has no wrong option")
}

func convertTrace(entries []engine.TraceEntry) []TraceEvent {
	out := make([]TraceEvent, 0, len(entries))
	for _, e := range entries {
		out = append(out, TraceEvent{
			Seq:      e.Seq,
			Event:    e.Event.String(),
			Accepted: e.Accepted,
			Code:     string(e.Code),
		})
	}
	return out
}

// idsToStrings converts technique ids for comparison with scenario lists.
func idsToStrings(ids []ir.TechniqueID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}

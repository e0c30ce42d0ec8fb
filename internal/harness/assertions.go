package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/promptguide/internal/engine"
	"github.com/roach88/promptguide/internal/prefs"
)

// AssertionContext provides what assertions inspect after the steps ran.
type AssertionContext struct {
	Ctx        context.Context
	Controller *engine.Controller
	Store      prefs.KV
}

// AssertionError is returned when an assertion fails.
// It includes the full trace to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			status := "ok"
			if !ev.Accepted {
				status = "rejected " + ev.Code
			}
			fmt.Fprintf(&buf, "  [%d] %s %s\n", ev.Seq, ev.Event, status)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion, actx *AssertionContext) error {
	state := actx.Controller.State()
	view := actx.Controller.View()

	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Trace: result.Trace}
	}
	scalar := func(actual string) error {
		if actual != a.Value {
			return fail(fmt.Sprintf("%q", a.Value), fmt.Sprintf("%q", actual))
		}
		return nil
	}
	list := func(actual []string) error {
		want := a.IDs
		if want == nil {
			want = []string{}
		}
		if !slices.Equal(want, actual) {
			return fail(fmt.Sprintf("%v", want), fmt.Sprintf("%v", actual))
		}
		return nil
	}

	switch a.Type {
	case AssertMode:
		return scalar(string(view.Mode))
	case AssertActiveCategory:
		return scalar(state.ActiveCategoryID)
	case AssertSearchQuery:
		return scalar(state.SearchQuery)
	case AssertTheme:
		return scalar(string(state.Theme))
	case AssertNotice:
		return scalar(state.Notice)
	case AssertVisible:
		return list(idsToStrings(view.VisibleIDs()))
	case AssertFavorites:
		return list(idsToStrings(actx.Controller.Favorites().All()))
	case AssertPersisted:
		ids, err := persistedFavorites(actx)
		if err != nil {
			return fail("readable favorites slot", err.Error())
		}
		return list(ids)
	case AssertQuiz:
		return assertQuiz(state.Quiz, a, fail)
	case AssertDetail:
		return assertDetail(state, a, fail)
	case AssertTraceCount:
		if len(result.Trace) != a.Count {
			return fail(fmt.Sprintf("%d events", a.Count), fmt.Sprintf("%d events", len(result.Trace)))
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertQuiz(qs *engine.QuizSession, a Assertion, fail func(string, string) error) error {
	open := qs != nil
	if a.Open != nil && *a.Open != open {
		return fail(fmt.Sprintf("open=%t", *a.Open), fmt.Sprintf("open=%t", open))
	}
	if a.Score == nil && a.Answered == nil {
		return nil
	}
	if !open {
		return fail("an open quiz", "no quiz session")
	}
	if a.Score != nil && *a.Score != qs.Score {
		return fail(fmt.Sprintf("score=%d", *a.Score), fmt.Sprintf("score=%d", qs.Score))
	}
	if a.Answered != nil && *a.Answered != qs.QuestionsAnswered {
		return fail(fmt.Sprintf("answered=%d", *a.Answered), fmt.Sprintf("answered=%d", qs.QuestionsAnswered))
	}
	return nil
}

func assertDetail(s engine.ViewState, a Assertion, fail func(string, string) error) error {
	actual := ""
	if s.ActiveTechnique != nil {
		actual = string(s.ActiveTechnique.ID)
	}
	if actual != a.Value {
		return fail(fmt.Sprintf("technique %q", a.Value), fmt.Sprintf("technique %q", actual))
	}
	if a.Draft != nil && *a.Draft != s.Draft {
		return fail(fmt.Sprintf("draft %q", *a.Draft), fmt.Sprintf("draft %q", s.Draft))
	}
	return nil
}

// persistedFavorites decodes the stored favorites slot. A missing slot is
// an empty list.
func persistedFavorites(actx *AssertionContext) ([]string, error) {
	raw, ok, err := actx.Store.Get(actx.Ctx, prefs.FavoritesKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("malformed slot %q: %w", raw, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/promptguide/internal/ir"
	"github.com/roach88/promptguide/internal/prefs"
	"github.com/roach88/promptguide/internal/query"
)

// Renderer is notified with the fresh View after every accepted transition.
//
// Render runs while the controller holds its lock, so views arrive in
// dispatch order. Implementations must not call back into the controller.
type Renderer interface {
	Render(View)
}

// Chart receives the active score profile when a chart is visible.
type Chart interface {
	UpdateChart(ir.Scores)
}

// Clipboard is the copy capability used by copy_prompt.
type Clipboard interface {
	WriteText(string) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(View)

// Render calls f(v).
func (f RendererFunc) Render(v View) { f(v) }

// ErrEmptyCatalog is returned by New for a catalog with no categories.
var ErrEmptyCatalog = errors.New("catalog has no categories")

// Controller owns the single ViewState and applies events to it.
//
// Thread-safety model:
//   - Dispatch, State, View, Trace: safe from any goroutine
//   - Each Dispatch is one critical section: validate, apply, notify
//
// INVARIANTS:
//   - A rejected event leaves state untouched and returns *RuntimeError
//   - Every dispatch, accepted or rejected, gets a trace entry with a
//     strictly increasing seq
type Controller struct {
	mu sync.Mutex

	catalog   *ir.Catalog
	favorites *prefs.Favorites
	kv        prefs.KV
	logger    *zap.Logger

	quiz       *query.QuizGenerator
	quizOff    bool
	rng        query.RNG
	sessionGen SessionIDGenerator
	clipboard  Clipboard
	chart      Chart
	renderers  []Renderer

	defaultCategory string
	clock           *Clock
	state           ViewState
	trace           []TraceEntry
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Default: zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithRNG sets the quiz randomness. Default: time-seeded PCG.
func WithRNG(rng query.RNG) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithSessionIDs sets the quiz session id source. Default: UUIDv7Generator.
func WithSessionIDs(gen SessionIDGenerator) Option {
	return func(c *Controller) { c.sessionGen = gen }
}

// WithClipboard sets the clipboard used by copy_prompt.
func WithClipboard(cb Clipboard) Option {
	return func(c *Controller) { c.clipboard = cb }
}

// WithChart sets the chart sink.
func WithChart(ch Chart) Option {
	return func(c *Controller) { c.chart = ch }
}

// WithRenderer registers a renderer. May be given more than once.
func WithRenderer(r Renderer) Option {
	return func(c *Controller) { c.renderers = append(c.renderers, r) }
}

// WithDefaultCategory sets the initial category. Default: the first one.
func WithDefaultCategory(id string) Option {
	return func(c *Controller) { c.defaultCategory = id }
}

// WithoutQuiz disables the quiz feature; open_quiz is then rejected with
// QUIZ_UNAVAILABLE instead of New failing on a small catalog.
func WithoutQuiz() Option {
	return func(c *Controller) { c.quizOff = true }
}

// New builds a controller over cat, loading favorites and the theme from kv.
//
// Fails if the catalog is empty, the default category is unknown, or the
// quiz generator cannot be built (query.ErrCatalogTooSmall) while the quiz
// is enabled.
func New(ctx context.Context, cat *ir.Catalog, kv prefs.KV, opts ...Option) (*Controller, error) {
	if cat == nil || len(cat.Categories) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Controller{
		catalog:    cat,
		kv:         kv,
		logger:     zap.NewNop(),
		sessionGen: UUIDv7Generator{},
		clock:      NewClock(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.rng == nil {
		seed := uint64(time.Now().UnixNano())
		c.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	start := cat.Categories[0].ID
	if c.defaultCategory != "" {
		if !c.categoryExists(c.defaultCategory) {
			return nil, fmt.Errorf("default category %q not found", c.defaultCategory)
		}
		start = c.defaultCategory
	}

	if !c.quizOff {
		gen, err := query.NewQuizGenerator(cat, c.rng)
		if err != nil {
			return nil, fmt.Errorf("init quiz: %w", err)
		}
		c.quiz = gen
	}

	c.favorites = prefs.NewFavorites(ctx, kv, c.logger)
	c.state = ViewState{
		ActiveCategoryID: start,
		Theme:            prefs.LoadTheme(ctx, kv, c.logger),
	}

	c.logger.Info("controller ready",
		zap.String("category", start),
		zap.Int("techniques", query.CountTechniques(cat)),
		zap.Int("favorites", c.favorites.Len()),
		zap.String("theme", string(c.state.Theme)),
		zap.Bool("quiz", c.quiz != nil))

	return c, nil
}

// Dispatch applies ev. On rejection it returns a *RuntimeError and the
// state is unchanged; otherwise renderers and the chart are notified.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seq := c.clock.Next()
	next, err := c.apply(ctx, ev)

	entry := TraceEntry{Seq: seq, Event: ev, Accepted: err == nil}
	if err != nil {
		entry.Code = CodeOf(err)
		c.trace = append(c.trace, entry)
		c.logger.Debug("event rejected",
			zap.Int64("seq", seq),
			zap.Stringer("event", ev),
			zap.Error(err))
		return err
	}

	c.state = next
	c.trace = append(c.trace, entry)
	c.logger.Debug("event applied",
		zap.Int64("seq", seq),
		zap.Stringer("event", ev),
		zap.String("mode", string(next.Mode())))

	c.notify()
	return nil
}

// State returns a copy of the current view state.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// View returns the current derived view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buildView()
}

// Trace returns a copy of the dispatch trace.
func (c *Controller) Trace() []TraceEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TraceEntry, len(c.trace))
	copy(out, c.trace)
	return out
}

// Favorites returns the favorites set backing the controller.
func (c *Controller) Favorites() *prefs.Favorites {
	return c.favorites
}

// Catalog returns the catalog the controller serves.
func (c *Controller) Catalog() *ir.Catalog {
	return c.catalog
}

// QuizAvailable reports whether open_quiz can succeed.
func (c *Controller) QuizAvailable() bool {
	return c.quiz != nil
}

func (c *Controller) notify() {
	if len(c.renderers) == 0 && c.chart == nil {
		return
	}
	v := c.buildView()
	for _, r := range c.renderers {
		r.Render(v)
	}
	if c.chart != nil && v.Chart != nil {
		c.chart.UpdateChart(*v.Chart)
	}
}

func (c *Controller) categoryExists(id string) bool {
	if id == ir.FavoritesCategoryID {
		return true
	}
	_, ok := query.FindCategory(c.catalog, id)
	return ok
}

// apply computes the successor state. It must not touch c.state; side
// effects on favorites, the theme slot and the clipboard happen only
// after every precondition has passed.
func (c *Controller) apply(ctx context.Context, ev Event) (ViewState, error) {
	next := c.state.clone()

	switch ev.Type {
	case EventSelectCategory:
		if !c.categoryExists(ev.CategoryID) {
			return next, unknownCategoryError(ev)
		}
		next.ActiveCategoryID = ev.CategoryID
		next.SearchQuery = ""
		next.ActiveTechnique = nil
		next.Draft = ""

	case EventSetSearchQuery:
		next.SearchQuery = ev.Query

	case EventOpenTechnique:
		tech, ok := query.FindTechnique(c.catalog, ev.TechniqueID)
		if !ok {
			return next, unknownTechniqueError(ev)
		}
		next.ActiveTechnique = tech
		next.Draft = tech.ExampleInput

	case EventCloseTechnique:
		next.ActiveTechnique = nil
		next.Draft = ""

	case EventEditPrompt:
		if next.ActiveTechnique == nil {
			return next, newRuntimeError(ErrCodeNoActiveTechnique, ev, "no technique is open")
		}
		next.Draft = ev.Text

	case EventResetPrompt:
		if next.ActiveTechnique == nil {
			return next, newRuntimeError(ErrCodeNoActiveTechnique, ev, "no technique is open")
		}
		next.Draft = next.ActiveTechnique.ExampleInput

	case EventCopyPrompt:
		if next.ActiveTechnique == nil {
			return next, newRuntimeError(ErrCodeNoActiveTechnique, ev, "no technique is open")
		}
		if c.copyDraft(next.Draft, next.ActiveTechnique.ID) {
			next.Notice = CopiedNotice
		}

	case EventDismissNotice:
		next.Notice = ""

	case EventToggleFavorite:
		if _, ok := query.FindTechnique(c.catalog, ev.TechniqueID); !ok {
			return next, unknownTechniqueError(ev)
		}
		member := c.favorites.Toggle(ctx, ev.TechniqueID)
		c.logger.Info("favorite toggled",
			zap.String("technique", string(ev.TechniqueID)),
			zap.Bool("favorite", member))

	case EventOpenQuiz:
		if c.quiz == nil {
			return next, newRuntimeError(ErrCodeQuizUnavailable, ev, "quiz is disabled")
		}
		next.Quiz = &QuizSession{
			ID:       c.sessionGen.Generate(),
			Question: c.quiz.Generate(),
		}

	case EventAnswerQuiz:
		qs := next.Quiz
		if qs == nil {
			return next, newRuntimeError(ErrCodeNoQuizSession, ev, "no quiz is open")
		}
		if qs.Answered {
			return next, newRuntimeError(ErrCodeQuizAlreadyAnswered, ev, "question already answered")
		}
		if !qs.Question.HasOption(ev.TechniqueID) {
			return next, newRuntimeError(ErrCodeInvalidOption, ev, "%q is not an option", ev.TechniqueID)
		}
		qs.Answered = true
		qs.Selected = ev.TechniqueID
		qs.QuestionsAnswered++
		if query.GradeAnswer(ev.TechniqueID, qs.Question.CorrectID) {
			qs.Score++
		}

	case EventNextQuizQuestion:
		qs := next.Quiz
		if qs == nil {
			return next, newRuntimeError(ErrCodeNoQuizSession, ev, "no quiz is open")
		}
		if !qs.Answered {
			return next, newRuntimeError(ErrCodeQuizNotAnswered, ev, "answer the current question first")
		}
		qs.Question = c.quiz.Generate()
		qs.Answered = false
		qs.Selected = ""

	case EventCloseQuiz:
		next.Quiz = nil

	case EventToggleTheme:
		next.Theme = next.Theme.Toggle()
		prefs.SaveTheme(ctx, c.kv, c.logger, next.Theme)

	default:
		return next, newRuntimeError(ErrCodeUnknownEvent, ev, "unhandled event type %d", int(ev.Type))
	}

	return next, nil
}

// copyDraft writes text to the clipboard. Failures are logged only.
func (c *Controller) copyDraft(text string, id ir.TechniqueID) bool {
	if c.clipboard == nil {
		c.logger.Warn("clipboard unavailable", zap.String("technique", string(id)))
		return false
	}
	if err := c.clipboard.WriteText(text); err != nil {
		c.logger.Warn("clipboard write failed",
			zap.String("technique", string(id)),
			zap.Error(err))
		return false
	}
	c.logger.Debug("prompt copied",
		zap.String("technique", string(id)),
		zap.Int("bytes", len(text)))
	return true
}

package query

import (
	"errors"
	"fmt"

	"github.com/roach88/promptguide/internal/ir"
)

// OptionCount is the number of answer options per question.
const OptionCount = 4

// ErrCatalogTooSmall is returned when there are not enough techniques to
// draw OptionCount distinct options.
var ErrCatalogTooSmall = errors.New("catalog too small for quiz")

// RNG is the randomness a quiz needs. *math/rand/v2.Rand satisfies it.
type RNG interface {
	// IntN returns a uniform value in [0, n). n > 0.
	IntN(n int) int
}

// QuestionKind selects which field of the correct technique is the prompt.
type QuestionKind string

const (
	KindDefinition QuestionKind = "definition"
	KindBestUse    QuestionKind = "bestUse"
)

var questionKinds = [...]QuestionKind{KindDefinition, KindBestUse}

// Lead returns the sentence shown above the prompt.
func (k QuestionKind) Lead() string {
	if k == KindBestUse {
		return "Which technique is best used for:"
	}
	return "Which technique corresponds to this definition?"
}

// Question is one multiple-choice quiz question.
type Question struct {
	CorrectID ir.TechniqueID `json:"correct_id"`
	Kind      QuestionKind   `json:"kind"`
	Prompt    string         `json:"prompt"`
	Options   []ir.Technique `json:"options"`
}

// HasOption reports whether id is one of the question's options.
func (q *Question) HasOption(id ir.TechniqueID) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// OptionIndex returns the position of id among the options, or -1.
func (q *Question) OptionIndex(id ir.TechniqueID) int {
	for i, o := range q.Options {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// QuizGenerator draws questions from the flattened catalog.
//
// Not safe for concurrent use; callers serialize access (the controller
// holds its lock while generating).
type QuizGenerator struct {
	pool []ir.Technique
	rng  RNG
}

// NewQuizGenerator builds a generator over every technique in cat.
// Returns ErrCatalogTooSmall when fewer than OptionCount techniques exist.
func NewQuizGenerator(cat *ir.Catalog, rng RNG) (*QuizGenerator, error) {
	pool := Flatten(cat)
	if len(pool) < OptionCount {
		return nil, fmt.Errorf("%w: %d techniques, need %d", ErrCatalogTooSmall, len(pool), OptionCount)
	}
	return &QuizGenerator{pool: pool, rng: rng}, nil
}

// PoolSize returns the number of techniques questions are drawn from.
func (g *QuizGenerator) PoolSize() int {
	return len(g.pool)
}

// Generate draws a question: a uniformly chosen correct technique, three
// distinct distractors by rejection sampling, a uniformly chosen kind, and
// the four options in shuffled order.
func (g *QuizGenerator) Generate() Question {
	n := len(g.pool)
	correctIdx := g.rng.IntN(n)
	correct := g.pool[correctIdx]

	picked := map[int]bool{correctIdx: true}
	options := make([]ir.Technique, 0, OptionCount)
	options = append(options, correct)
	for len(options) < OptionCount {
		i := g.rng.IntN(n)
		if picked[i] {
			continue
		}
		picked[i] = true
		options = append(options, g.pool[i])
	}

	kind := questionKinds[g.rng.IntN(len(questionKinds))]

	// Fisher-Yates
	for i := len(options) - 1; i > 0; i-- {
		j := g.rng.IntN(i + 1)
		options[i], options[j] = options[j], options[i]
	}

	prompt := correct.Definition
	if kind == KindBestUse {
		prompt = correct.BestUse
	}

	return Question{
		CorrectID: correct.ID,
		Kind:      kind,
		Prompt:    prompt,
		Options:   options,
	}
}

// GradeAnswer reports whether selected is the correct answer.
func GradeAnswer(selected, correct ir.TechniqueID) bool {
	return selected == correct
}

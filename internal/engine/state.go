package engine

import (
	"strings"

	"github.com/roach88/promptguide/internal/ir"
	"github.com/roach88/promptguide/internal/prefs"
	"github.com/roach88/promptguide/internal/query"
)

// Mode is the derived display mode.
type Mode string

const (
	ModeCategory Mode = "category"
	ModeSearch   Mode = "search"
)

// CopiedNotice is shown after a successful copy.
const CopiedNotice = "Copied!"

// QuizSession is an open quiz.
type QuizSession struct {
	ID                string         `json:"id"`
	Question          query.Question `json:"question"`
	Answered          bool           `json:"answered"`
	Selected          ir.TechniqueID `json:"selected,omitempty"`
	Score             int            `json:"score"`
	QuestionsAnswered int            `json:"questions_answered"`
}

// ViewState is the single source of truth for what is on screen.
//
// INVARIANTS:
//   - ActiveCategoryID is a real category id or the favorites id
//   - ActiveTechnique, when set, points into the catalog
//   - Draft is meaningful only while ActiveTechnique is set
//   - Quiz.Score <= Quiz.QuestionsAnswered
type ViewState struct {
	ActiveCategoryID string        `json:"active_category_id"`
	SearchQuery      string        `json:"search_query"`
	ActiveTechnique  *ir.Technique `json:"active_technique,omitempty"`
	Draft            string        `json:"draft,omitempty"`
	Quiz             *QuizSession  `json:"quiz,omitempty"`
	Theme            prefs.Theme   `json:"theme"`
	Notice           string        `json:"notice,omitempty"`
}

// Mode reports search mode whenever the trimmed query is non-empty. The
// active category is kept underneath and shows again once the query is
// cleared.
func (s ViewState) Mode() Mode {
	if strings.TrimSpace(s.SearchQuery) != "" {
		return ModeSearch
	}
	return ModeCategory
}

// clone returns a copy that shares no mutable memory with s.
// ActiveTechnique points into the immutable catalog and is shared.
func (s ViewState) clone() ViewState {
	out := s
	if s.Quiz != nil {
		q := *s.Quiz
		q.Question.Options = append([]ir.Technique(nil), s.Quiz.Question.Options...)
		out.Quiz = &q
	}
	return out
}

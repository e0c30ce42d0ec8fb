package engine

import (
	"fmt"
	"strings"

	"github.com/roach88/promptguide/internal/ir"
	"github.com/roach88/promptguide/internal/prefs"
	"github.com/roach88/promptguide/internal/query"
)

// Header badges and empty-listing messages.
const (
	BadgeCategory     = "Category Focus"
	BadgeSearch       = "Search Results"
	EmptyCategoryText = "No techniques found in this category."
	EmptySearchText   = "No techniques found matching your query."
)

// NavItem is one entry of the navigation list. The favorites entry comes
// first and its Count is the number of favorites; category entries count
// their techniques.
type NavItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Icon   string `json:"icon"`
	Count  int    `json:"count"`
	Active bool   `json:"active"`
}

// Header describes the top of the main pane.
type Header struct {
	Badge       string      `json:"badge"`
	Icon        string      `json:"icon,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Insight     string      `json:"insight,omitempty"`
	Tags        []query.Tag `json:"tags,omitempty"`
}

// Card is one technique in the listing.
type Card struct {
	Technique ir.Technique `json:"technique"`
	Favorite  bool         `json:"favorite"`
}

// Detail is the open technique with its playground draft.
type Detail struct {
	Technique ir.Technique `json:"technique"`
	Draft     string       `json:"draft"`
	Edited    bool         `json:"edited"`
	Favorite  bool         `json:"favorite"`
}

// QuizOption is one answer button. Correct and Selected are only set once
// the question has been answered.
type QuizOption struct {
	Number   int            `json:"number"`
	ID       ir.TechniqueID `json:"id"`
	Title    string         `json:"title"`
	Correct  bool           `json:"correct"`
	Selected bool           `json:"selected"`
}

// QuizView is the open quiz as displayed.
type QuizView struct {
	SessionID         string       `json:"session_id"`
	Lead              string       `json:"lead"`
	Prompt            string       `json:"prompt"`
	Options           []QuizOption `json:"options"`
	Answered          bool         `json:"answered"`
	Correct           bool         `json:"correct"`
	Score             int          `json:"score"`
	QuestionsAnswered int          `json:"questions_answered"`
}

// ScoreLine renders the running score.
func (q *QuizView) ScoreLine() string {
	if q.QuestionsAnswered == 0 {
		return "Score: 0"
	}
	return fmt.Sprintf("Score: %d / %d", q.Score, q.QuestionsAnswered)
}

// View is everything a renderer needs, derived from ViewState, the catalog
// and the favorites set. Renderers only read it.
type View struct {
	Mode             Mode        `json:"mode"`
	Theme            prefs.Theme `json:"theme"`
	ActiveCategoryID string      `json:"active_category_id"`
	SearchQuery      string      `json:"search_query,omitempty"`
	Nav              []NavItem   `json:"nav"`
	FavoritesCount   int         `json:"favorites_count"`
	TotalTechniques  int         `json:"total_techniques"`
	Header           Header      `json:"header"`
	Chart            *ir.Scores  `json:"chart,omitempty"`
	Cards            []Card      `json:"cards"`
	EmptyMessage     string      `json:"empty_message,omitempty"`
	Detail           *Detail     `json:"detail,omitempty"`
	Quiz             *QuizView   `json:"quiz,omitempty"`
	Notice           string      `json:"notice,omitempty"`
}

// VisibleIDs returns the ids of the listed techniques in display order.
func (v View) VisibleIDs() []ir.TechniqueID {
	out := make([]ir.TechniqueID, 0, len(v.Cards))
	for _, c := range v.Cards {
		out = append(out, c.Technique.ID)
	}
	return out
}

// SearchTitle renders the search header title.
func SearchTitle(matches int, q string) string {
	return fmt.Sprintf("Found %d matches for \"%s\"", matches, q)
}

// buildView derives the View. Caller holds c.mu.
func (c *Controller) buildView() View {
	s := c.state
	isFav := c.favorites.IsFavorite

	v := View{
		Mode:             s.Mode(),
		Theme:            s.Theme,
		ActiveCategoryID: s.ActiveCategoryID,
		SearchQuery:      s.SearchQuery,
		FavoritesCount:   c.favorites.Len(),
		TotalTechniques:  query.CountTechniques(c.catalog),
		Notice:           s.Notice,
	}

	v.Nav = append(v.Nav, NavItem{
		ID:     ir.FavoritesCategoryID,
		Title:  "Favorites",
		Icon:   query.FavoritesIcon,
		Count:  v.FavoritesCount,
		Active: s.ActiveCategoryID == ir.FavoritesCategoryID,
	})
	for _, cat := range c.catalog.Categories {
		v.Nav = append(v.Nav, NavItem{
			ID:     cat.ID,
			Title:  cat.Title,
			Icon:   cat.Icon,
			Count:  len(cat.Techniques),
			Active: s.ActiveCategoryID == cat.ID,
		})
	}

	var techs []ir.Technique
	if v.Mode == ModeSearch {
		q := strings.TrimSpace(s.SearchQuery)
		techs = query.Search(c.catalog, q)
		v.Header = Header{
			Badge: BadgeSearch,
			Title: SearchTitle(len(techs), q),
		}
		v.EmptyMessage = EmptySearchText
	} else {
		active := c.activeCategory()
		techs = active.Techniques
		v.Header = Header{
			Badge:       BadgeCategory,
			Icon:        active.Icon,
			Title:       active.Title,
			Description: active.Description,
			Insight:     active.Insight,
			Tags:        query.Tags(&active),
		}
		scores := active.ChartData
		v.Chart = &scores
		v.EmptyMessage = EmptyCategoryText
	}
	if len(techs) > 0 {
		v.EmptyMessage = ""
	}

	v.Cards = make([]Card, 0, len(techs))
	for _, t := range techs {
		v.Cards = append(v.Cards, Card{Technique: t, Favorite: isFav(t.ID)})
	}

	if s.ActiveTechnique != nil {
		v.Detail = &Detail{
			Technique: *s.ActiveTechnique,
			Draft:     s.Draft,
			Edited:    s.Draft != s.ActiveTechnique.ExampleInput,
			Favorite:  isFav(s.ActiveTechnique.ID),
		}
	}

	if s.Quiz != nil {
		v.Quiz = buildQuizView(s.Quiz)
	}

	return v
}

// activeCategory resolves ActiveCategoryID, synthesizing favorites.
func (c *Controller) activeCategory() ir.Category {
	if c.state.ActiveCategoryID == ir.FavoritesCategoryID {
		return query.BuildFavoritesView(c.catalog, c.favorites.IsFavorite)
	}
	if cat, ok := query.FindCategory(c.catalog, c.state.ActiveCategoryID); ok {
		return *cat
	}
	// Unreachable while the ActiveCategoryID invariant holds.
	return c.catalog.Categories[0]
}

func buildQuizView(qs *QuizSession) *QuizView {
	q := qs.Question
	qv := &QuizView{
		SessionID:         qs.ID,
		Lead:              q.Kind.Lead(),
		Prompt:            q.Prompt,
		Answered:          qs.Answered,
		Score:             qs.Score,
		QuestionsAnswered: qs.QuestionsAnswered,
	}
	if qs.Answered {
		qv.Correct = query.GradeAnswer(qs.Selected, q.CorrectID)
	}
	for i, o := range q.Options {
		opt := QuizOption{Number: i + 1, ID: o.ID, Title: o.Title}
		if qs.Answered {
			opt.Correct = o.ID == q.CorrectID
			opt.Selected = o.ID == qs.Selected
		}
		qv.Options = append(qv.Options, opt)
	}
	return qv
}

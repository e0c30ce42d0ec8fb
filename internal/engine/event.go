package engine

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/promptguide/internal/ir"
)

// EventType distinguishes user actions.
type EventType int

const (
	// EventSelectCategory switches to a category or the favorites view.
	EventSelectCategory EventType = iota + 1
	// EventSetSearchQuery sets the free-text query.
	EventSetSearchQuery
	// EventOpenTechnique opens the detail view.
	EventOpenTechnique
	// EventCloseTechnique closes the detail view.
	EventCloseTechnique
	// EventEditPrompt replaces the playground draft.
	EventEditPrompt
	// EventResetPrompt restores the draft to the example input.
	EventResetPrompt
	// EventCopyPrompt copies the draft to the clipboard.
	EventCopyPrompt
	// EventDismissNotice clears the transient notice.
	EventDismissNotice
	// EventToggleFavorite adds or removes a technique from favorites.
	EventToggleFavorite
	// EventOpenQuiz starts a fresh quiz session.
	EventOpenQuiz
	// EventAnswerQuiz answers the current question.
	EventAnswerQuiz
	// EventNextQuizQuestion advances to a new question.
	EventNextQuizQuestion
	// EventCloseQuiz discards the quiz session.
	EventCloseQuiz
	// EventToggleTheme flips between light and dark.
	EventToggleTheme
)

var eventNames = map[EventType]string{
	EventSelectCategory:   "select_category",
	EventSetSearchQuery:   "set_search_query",
	EventOpenTechnique:    "open_technique",
	EventCloseTechnique:   "close_technique",
	EventEditPrompt:       "edit_prompt",
	EventResetPrompt:      "reset_prompt",
	EventCopyPrompt:       "copy_prompt",
	EventDismissNotice:    "dismiss_notice",
	EventToggleFavorite:   "toggle_favorite",
	EventOpenQuiz:         "open_quiz",
	EventAnswerQuiz:       "answer_quiz",
	EventNextQuizQuestion: "next_quiz_question",
	EventCloseQuiz:        "close_quiz",
	EventToggleTheme:      "toggle_theme",
}

// String returns the snake_case event name.
func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// ParseEventType resolves a snake_case event name.
func ParseEventType(name string) (EventType, error) {
	for t, n := range eventNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", name)
}

// Event is one user action. Only the field relevant to Type is set.
type Event struct {
	Type        EventType
	CategoryID  string
	Query       string
	TechniqueID ir.TechniqueID
	Text        string
}

// String renders the event for logs and traces, e.g. `open_technique("cot")`.
func (e Event) String() string {
	if arg, ok := e.Arg(); ok {
		return fmt.Sprintf("%s(%q)", e.Type, arg)
	}
	return e.Type.String()
}

// Arg returns the event's single argument and whether the type takes one.
func (e Event) Arg() (string, bool) {
	switch e.Type {
	case EventSelectCategory:
		return e.CategoryID, true
	case EventSetSearchQuery:
		return e.Query, true
	case EventOpenTechnique, EventToggleFavorite, EventAnswerQuiz:
		return string(e.TechniqueID), true
	case EventEditPrompt:
		return e.Text, true
	default:
		return "", false
	}
}

// MarshalJSON encodes the event as {"type": name, "arg": arg}.
func (e Event) MarshalJSON() ([]byte, error) {
	out := struct {
		Type string `json:"type"`
		Arg  string `json:"arg,omitempty"`
	}{Type: e.Type.String()}
	out.Arg, _ = e.Arg()
	return json.Marshal(out)
}

// NewEvent builds an event from its name and optional argument, routing arg
// into the field the type uses. Argument-less types ignore arg.
func NewEvent(name, arg string) (Event, error) {
	t, err := ParseEventType(name)
	if err != nil {
		return Event{}, err
	}

	ev := Event{Type: t}
	switch t {
	case EventSelectCategory:
		ev.CategoryID = arg
	case EventSetSearchQuery:
		ev.Query = arg
	case EventOpenTechnique, EventToggleFavorite, EventAnswerQuiz:
		ev.TechniqueID = ir.TechniqueID(arg)
	case EventEditPrompt:
		ev.Text = arg
	}
	return ev, nil
}

// SelectCategory returns a select_category event.
func SelectCategory(id string) Event {
	return Event{Type: EventSelectCategory, CategoryID: id}
}

// SetSearchQuery returns a set_search_query event.
func SetSearchQuery(q string) Event {
	return Event{Type: EventSetSearchQuery, Query: q}
}

// OpenTechnique returns an open_technique event.
func OpenTechnique(id ir.TechniqueID) Event {
	return Event{Type: EventOpenTechnique, TechniqueID: id}
}

// CloseTechnique returns a close_technique event.
func CloseTechnique() Event { return Event{Type: EventCloseTechnique} }

// EditPrompt returns an edit_prompt event.
func EditPrompt(text string) Event {
	return Event{Type: EventEditPrompt, Text: text}
}

// ResetPrompt returns a reset_prompt event.
func ResetPrompt() Event { return Event{Type: EventResetPrompt} }

// CopyPrompt returns a copy_prompt event.
func CopyPrompt() Event { return Event{Type: EventCopyPrompt} }

// DismissNotice returns a dismiss_notice event.
func DismissNotice() Event { return Event{Type: EventDismissNotice} }

// ToggleFavorite returns a toggle_favorite event.
func ToggleFavorite(id ir.TechniqueID) Event {
	return Event{Type: EventToggleFavorite, TechniqueID: id}
}

// OpenQuiz returns an open_quiz event.
func OpenQuiz() Event { return Event{Type: EventOpenQuiz} }

// AnswerQuiz returns an answer_quiz event.
func AnswerQuiz(id ir.TechniqueID) Event {
	return Event{Type: EventAnswerQuiz, TechniqueID: id}
}

// NextQuizQuestion returns a next_quiz_question event.
func NextQuizQuestion() Event { return Event{Type: EventNextQuizQuestion} }

// CloseQuiz returns a close_quiz event.
func CloseQuiz() Event { return Event{Type: EventCloseQuiz} }

// ToggleTheme returns a toggle_theme event.
func ToggleTheme() Event { return Event{Type: EventToggleTheme} }

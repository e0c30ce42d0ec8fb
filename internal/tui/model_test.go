package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/promptguide/internal/catalog"
	"github.com/roach88/promptguide/internal/engine"
	"github.com/roach88/promptguide/internal/ir"
	"github.com/roach88/promptguide/internal/prefs"
	"github.com/roach88/promptguide/internal/testutil"
)

func newTestModel(t *testing.T) (Model, *engine.Controller) {
	t.Helper()
	screen := NewScreen()
	opts := append(screen.Options(),
		engine.WithRNG(testutil.NewSeededRand(7)),
		engine.WithSessionIDs(testutil.NewFixedSessionGenerator("tui")),
		engine.WithClipboard(SystemClipboard{}),
	)
	ctrl, err := engine.New(context.Background(), catalog.MustLoad(), testutil.NewMemoryKV(nil), opts...)
	require.NoError(t, err)

	m := New(context.Background(), ctrl, screen, nil)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, ctrl
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func keys(t *testing.T, m Model, ks ...string) Model {
	t.Helper()
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = send(t, m, msg)
	}
	return m
}

func TestModel_LoadingBeforeSize(t *testing.T) {
	screen := NewScreen()
	ctrl, err := engine.New(context.Background(), catalog.MustLoad(), testutil.NewMemoryKV(nil), screen.Options()...)
	require.NoError(t, err)

	m := New(context.Background(), ctrl, screen, nil)
	assert.Equal(t, "Loading...\n", m.View())
}

func TestModel_ViewShowsPage(t *testing.T) {
	m, _ := newTestModel(t)

	out := m.View()
	assert.Contains(t, out, "PROMPT GUIDE")
	assert.Contains(t, out, "Zero-Shot")
	assert.Contains(t, out, "(1/3)")
}

func TestModel_CategoryNavigation(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = keys(t, m, "right")
	assert.Equal(t, "reasoning", ctrl.State().ActiveCategoryID)

	m = keys(t, m, "left", "left")
	assert.Equal(t, ir.FavoritesCategoryID, ctrl.State().ActiveCategoryID)

	// Wraps to the last category.
	keys(t, m, "left")
	assert.Equal(t, "advanced", ctrl.State().ActiveCategoryID)
}

func TestModel_OpenAndFavorite(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = keys(t, m, "down", "enter")
	s := ctrl.State()
	require.NotNil(t, s.ActiveTechnique)
	assert.Equal(t, ir.TechniqueID("one-shot"), s.ActiveTechnique.ID)

	m = keys(t, m, "f")
	assert.True(t, ctrl.Favorites().IsFavorite("one-shot"))

	keys(t, m, "esc")
	assert.Nil(t, ctrl.State().ActiveTechnique)
}

func TestModel_CursorStaysInRange(t *testing.T) {
	m, _ := newTestModel(t)

	m = keys(t, m, "down", "down", "down", "down", "up", "up", "up", "up")
	assert.Equal(t, 0, m.cursor)

	m = keys(t, m, "down", "down", "down")
	assert.Equal(t, 2, m.cursor)
}

func TestModel_Search(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = keys(t, m, "/", "r", "a", "g")
	assert.Equal(t, focusSearch, m.focus)
	assert.Equal(t, "rag", ctrl.State().SearchQuery)
	assert.Equal(t, engine.ModeSearch, ctrl.View().Mode)

	m = keys(t, m, "enter")
	assert.Equal(t, focusBrowse, m.focus)
	assert.Equal(t, "rag", ctrl.State().SearchQuery, "leaving the input keeps the query")

	keys(t, m, "esc")
	assert.Empty(t, ctrl.State().SearchQuery)
	assert.Equal(t, engine.ModeCategory, ctrl.View().Mode)
}

func TestModel_EditDraft(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = keys(t, m, "enter", "e")
	require.Equal(t, focusEdit, m.focus)

	m.editor.SetValue("rewritten")
	m = keys(t, m, "esc")

	assert.Equal(t, focusBrowse, m.focus)
	assert.Equal(t, "rewritten", ctrl.State().Draft)

	keys(t, m, "r")
	s := ctrl.State()
	assert.Equal(t, s.ActiveTechnique.ExampleInput, s.Draft)
}

func TestModel_EditWithoutDetailIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	m = keys(t, m, "e")
	assert.Equal(t, focusBrowse, m.focus)
}

func TestModel_CopySchedulesNotice(t *testing.T) {
	var copied string
	orig := clipboardWriteAll
	clipboardWriteAll = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { clipboardWriteAll = orig })

	m, ctrl := newTestModel(t)
	m = keys(t, m, "enter")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = next.(Model)
	require.NotNil(t, cmd, "notice timer scheduled")
	assert.Equal(t, ctrl.State().ActiveTechnique.ExampleInput, copied)
	assert.Equal(t, engine.CopiedNotice, ctrl.State().Notice)

	send(t, m, noticeExpiredMsg{gen: m.noticeGen})
	assert.Empty(t, ctrl.State().Notice)
}

func TestModel_StaleNoticeTimerIgnored(t *testing.T) {
	orig := clipboardWriteAll
	clipboardWriteAll = func(string) error { return nil }
	t.Cleanup(func() { clipboardWriteAll = orig })

	m, ctrl := newTestModel(t)
	m = keys(t, m, "enter", "c")
	first := m.noticeGen
	m = keys(t, m, "c")
	require.Greater(t, m.noticeGen, first)

	// The first copy's timer fires while the second notice is fresh.
	m = send(t, m, noticeExpiredMsg{gen: first})
	assert.Equal(t, engine.CopiedNotice, ctrl.State().Notice)

	send(t, m, noticeExpiredMsg{gen: m.noticeGen})
	assert.Empty(t, ctrl.State().Notice)
}

func TestModel_CopyFailureShowsNoNotice(t *testing.T) {
	orig := clipboardWriteAll
	clipboardWriteAll = func(string) error { return errors.New("no clipboard") }
	t.Cleanup(func() { clipboardWriteAll = orig })

	m, ctrl := newTestModel(t)
	m = keys(t, m, "enter")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Nil(t, cmd)
	assert.Empty(t, ctrl.State().Notice)
}

func TestModel_Quiz(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = keys(t, m, "n")
	assert.Contains(t, m.status, string(engine.ErrCodeNoQuizSession))

	m = keys(t, m, "q")
	require.NotNil(t, ctrl.State().Quiz)
	assert.Empty(t, m.status)

	m = keys(t, m, "1")
	qs := ctrl.State().Quiz
	assert.True(t, qs.Answered)
	assert.Equal(t, qs.Question.Options[0].ID, qs.Selected)
	assert.Equal(t, 1, qs.QuestionsAnswered)

	m = keys(t, m, "n")
	assert.False(t, ctrl.State().Quiz.Answered)

	keys(t, m, "esc")
	assert.Nil(t, ctrl.State().Quiz)
}

func TestModel_ToggleTheme(t *testing.T) {
	m, ctrl := newTestModel(t)
	keys(t, m, "t")
	assert.Equal(t, prefs.ThemeDark, ctrl.State().Theme)
}

func TestModel_CtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

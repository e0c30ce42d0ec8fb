// Package tui is the interactive terminal front end.
//
// The model owns only presentation state (focus, cursor, widget buffers).
// Everything the user sees comes from engine.View; every action goes
// through engine.Controller.Dispatch.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/roach88/promptguide/internal/engine"
)

// NoticeTTL is how long a notice stays before it is dismissed.
const NoticeTTL = 2 * time.Second

const (
	footerHeight = 2
	helpLine     = "↑/↓ move · ←/→ category · / search · enter open · f fav · q quiz · e edit · c copy · t theme · esc back"
)

type focus int

const (
	focusBrowse focus = iota
	focusSearch
	focusEdit
)

// noticeExpiredMsg dismisses the notice it was scheduled for. A newer
// notice bumps the generation, so stale timers do nothing.
type noticeExpiredMsg struct{ gen int }

// Model is the bubbletea model.
type Model struct {
	ctx    context.Context
	ctrl   *engine.Controller
	screen *Screen
	logger *zap.Logger

	viewport viewport.Model
	search   textinput.Model
	editor   textarea.Model

	focus     focus
	cursor    int
	status    string
	noticeGen int

	width  int
	height int
	ready  bool
}

// New builds a model over ctrl. The controller must have been built with
// screen.Options() so pages reach the model.
func New(ctx context.Context, ctrl *engine.Controller, screen *Screen, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	screen.Prime(ctrl.View())

	ti := textinput.New()
	ti.Placeholder = "Search techniques..."
	ti.Prompt = "/ "
	ti.SetValue(ctrl.State().SearchQuery)

	ta := textarea.New()
	ta.ShowLineNumbers = false

	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		screen: screen,
		logger: logger,
		search: ti,
		editor: ta,
	}
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, ctrl *engine.Controller, screen *Screen, logger *zap.Logger) error {
	p := tea.NewProgram(New(ctx, ctrl, screen, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := max(1, m.height-footerHeight)
		if !m.ready {
			m.viewport = viewport.New(m.width, h)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = h
		}
		m.search.Width = max(10, m.width-4)
		m.editor.SetWidth(max(10, m.width))
		m.editor.SetHeight(max(3, h/3))
		m.refresh()
		return m, nil

	case noticeExpiredMsg:
		if msg.gen == m.noticeGen && m.ctrl.State().Notice != "" {
			m.dispatch(engine.DismissNotice())
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusEdit:
			return m.updateEditor(msg)
		}
		model, cmd, handled := m.handleKey(msg)
		if handled {
			return model, cmd
		}
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleKey processes browse-mode keys. Unhandled keys fall through to
// the viewport for scrolling.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	view := m.ctrl.View()

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(view.Cards)-1 {
			m.cursor++
		}
	case "right", "l", "tab":
		m.selectCategory(view, 1)
	case "left", "h", "shift+tab":
		m.selectCategory(view, -1)
	case "/":
		m.focus = focusSearch
		return m, m.search.Focus(), true
	case "enter":
		if m.cursor < len(view.Cards) {
			m.dispatch(engine.OpenTechnique(view.Cards[m.cursor].Technique.ID))
		}
	case "f":
		if view.Detail != nil {
			m.dispatch(engine.ToggleFavorite(view.Detail.Technique.ID))
		} else if m.cursor < len(view.Cards) {
			m.dispatch(engine.ToggleFavorite(view.Cards[m.cursor].Technique.ID))
		}
	case "q":
		if view.Quiz != nil {
			m.dispatch(engine.CloseQuiz())
		} else {
			m.dispatch(engine.OpenQuiz())
		}
	case "1", "2", "3", "4":
		if view.Quiz != nil {
			n := int(msg.String()[0] - '1')
			if n < len(view.Quiz.Options) {
				m.dispatch(engine.AnswerQuiz(view.Quiz.Options[n].ID))
			}
		}
	case "n":
		m.dispatch(engine.NextQuizQuestion())
	case "e":
		if view.Detail == nil {
			return m, nil, true
		}
		m.focus = focusEdit
		m.editor.SetValue(view.Detail.Draft)
		return m, m.editor.Focus(), true
	case "r":
		m.dispatch(engine.ResetPrompt())
	case "c":
		m.dispatch(engine.CopyPrompt())
		if m.ctrl.State().Notice != "" {
			m.noticeGen++
			return m, noticeTimer(m.noticeGen), true
		}
	case "t":
		m.dispatch(engine.ToggleTheme())
	case "esc":
		switch {
		case view.Quiz != nil:
			m.dispatch(engine.CloseQuiz())
		case view.Detail != nil:
			m.dispatch(engine.CloseTechnique())
		case view.Mode == engine.ModeSearch:
			m.search.SetValue("")
			m.dispatch(engine.SetSearchQuery(""))
		}
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.search.Blur()
		m.focus = focusBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.ctrl.State().SearchQuery {
		m.cursor = 0
		m.dispatch(engine.SetSearchQuery(q))
	}
	return m, cmd
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+s":
		m.dispatch(engine.EditPrompt(m.editor.Value()))
		m.editor.Blur()
		m.focus = focusBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// selectCategory moves through the nav list by step, wrapping around.
func (m *Model) selectCategory(view engine.View, step int) {
	n := len(view.Nav)
	if n == 0 {
		return
	}
	idx := 0
	for i, item := range view.Nav {
		if item.ID == view.ActiveCategoryID {
			idx = i
			break
		}
	}
	next := view.Nav[((idx+step)%n+n)%n]
	m.cursor = 0
	m.search.SetValue("")
	m.dispatch(engine.SelectCategory(next.ID))
}

// dispatch sends ev to the controller and records a rejection in the
// status line.
func (m *Model) dispatch(ev engine.Event) {
	if err := m.ctrl.Dispatch(m.ctx, ev); err != nil {
		m.status = err.Error()
		m.logger.Debug("key rejected", zap.Stringer("event", ev), zap.Error(err))
	} else {
		m.status = ""
	}
	m.clampCursor()
	m.refresh()
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.View().Cards)
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.screen.Content())
}

func noticeTimer(gen int) tea.Cmd {
	return tea.Tick(NoticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{gen: gen}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading...\n"
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch m.focus {
	case focusSearch:
		b.WriteString(m.search.View())
	case focusEdit:
		b.WriteString(m.editor.View())
		b.WriteString("\nesc save")
	default:
		b.WriteString(m.selectionLine())
		b.WriteString("\n")
		if m.status != "" {
			b.WriteString(m.status)
		} else {
			b.WriteString(helpLine)
		}
	}
	return b.String()
}

func (m Model) selectionLine() string {
	v := m.ctrl.View()
	if m.cursor >= len(v.Cards) {
		return ""
	}
	return fmt.Sprintf("› %s (%d/%d)", v.Cards[m.cursor].Technique.Title, m.cursor+1, len(v.Cards))
}

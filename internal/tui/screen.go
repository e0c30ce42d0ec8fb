package tui

import (
	"bytes"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/promptguide/internal/engine"
	"github.com/roach88/promptguide/internal/ir"
	"github.com/roach88/promptguide/internal/render"
)

// Screen receives pages and chart profiles from the controller. It is
// registered as both engine.Renderer and engine.Chart, so the model only
// reads what the controller pushed after the last accepted event.
type Screen struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	out   *render.Writer
	page  string
	chart *ir.Scores
}

// NewScreen returns an empty screen.
func NewScreen() *Screen {
	s := &Screen{}
	s.out = render.NewWriter(&s.buf, true)
	return s
}

// Options registers s with a controller.
func (s *Screen) Options() []engine.Option {
	return []engine.Option{engine.WithRenderer(s), engine.WithChart(s)}
}

// Render implements engine.Renderer. The chart is drawn in its own panel,
// so the page is rendered without it.
func (s *Screen) Render(v engine.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.Chart == nil {
		s.chart = nil
	}
	v.Chart = nil
	s.buf.Reset()
	s.out.Render(v)
	s.page = s.buf.String()
}

// UpdateChart implements engine.Chart. The controller calls it after Render
// whenever the view has a chart.
func (s *Screen) UpdateChart(scores ir.Scores) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chart = &scores
}

// Prime loads v as if the controller had pushed it. Used before the first
// event, since the controller only notifies on accepted transitions.
func (s *Screen) Prime(v engine.View) {
	s.Render(v)
	if v.Chart != nil {
		s.UpdateChart(*v.Chart)
	}
}

// Page returns the last page pushed.
func (s *Screen) Page() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Chart returns the last chart profile, if one is visible.
func (s *Screen) Chart() (ir.Scores, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chart == nil {
		return ir.Scores{}, false
	}
	return *s.chart, true
}

var chartPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

// Content is the page with the chart panel on top.
func (s *Screen) Content() string {
	page := s.Page()
	scores, ok := s.Chart()
	if !ok {
		return page
	}
	panel := chartPanel.Render("Profile\n" + strings.TrimRight(render.Bars(scores), "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, panel, page)
}

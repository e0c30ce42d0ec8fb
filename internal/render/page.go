package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/promptguide/internal/engine"
	"github.com/roach88/promptguide/internal/ir"
)

const (
	barWidth  = 10
	barFull   = "█"
	barEmpty  = "░"
	axisWidth = 15
	favMark   = "♥"
)

// Page renders the whole screen for v as text. With Plain() the output is
// stable and suitable for golden files.
func Page(v engine.View, s Style) string {
	var b strings.Builder
	p := &page{b: &b, s: s}

	p.line(s.paint(s.Title, "PROMPT GUIDE") + " · " + string(v.Theme) + " theme")
	p.blank()
	p.nav(v)
	p.blank()
	p.header(v.Header)
	if v.Chart != nil {
		p.blank()
		b.WriteString(bars(*v.Chart, s))
	}
	p.blank()
	p.cards(v)
	if v.Detail != nil {
		p.blank()
		p.detail(v.Detail)
	}
	if v.Quiz != nil {
		p.blank()
		p.quiz(v.Quiz)
	}
	if v.Notice != "" {
		p.blank()
		p.line("» " + s.paint(s.Notice, v.Notice))
	}
	return b.String()
}

// Bars renders a score profile as one horizontal bar per axis.
func Bars(scores ir.Scores) string {
	return bars(scores, Plain())
}

func bars(scores ir.Scores, s Style) string {
	var b strings.Builder
	for i, axis := range ir.Axes {
		score := scores[i]
		filled := int(math.Round(score))
		filled = max(0, min(barWidth, filled))
		bar := strings.Repeat(barFull, filled) + strings.Repeat(barEmpty, barWidth-filled)
		fmt.Fprintf(&b, "%-*s %s %s\n", axisWidth, axis, s.paint(s.Bar, bar),
			strconv.FormatFloat(score, 'f', -1, 64))
	}
	return b.String()
}

type page struct {
	b *strings.Builder
	s Style
}

func (p *page) line(text string) {
	p.b.WriteString(text)
	p.b.WriteByte('\n')
}

func (p *page) blank() { p.b.WriteByte('\n') }

// block writes text one line at a time with a fixed indent.
func (p *page) block(indent, text string) {
	for _, l := range strings.Split(text, "\n") {
		p.line(indent + p.s.paint(p.s.Body, l))
	}
}

func (p *page) nav(v engine.View) {
	s := p.s
	p.line(s.paint(s.Muted, "CATEGORIES"))
	for _, item := range v.Nav {
		label := fmt.Sprintf("%s %s (%d)", item.Icon, item.Title, item.Count)
		if item.Active {
			p.line("> " + s.paint(s.Active, label))
			continue
		}
		p.line("  " + label)
	}
	p.line(s.paint(s.Muted, fmt.Sprintf("%d techniques · %d favorites", v.TotalTechniques, v.FavoritesCount)))
}

func (p *page) header(h engine.Header) {
	s := p.s
	title := h.Title
	if h.Icon != "" {
		title = h.Icon + " " + title
	}
	p.line(s.paint(s.Badge, "["+h.Badge+"]") + " " + s.paint(s.Title, title))
	if h.Description != "" {
		p.line(h.Description)
	}
	if h.Insight != "" {
		p.line("Insight: " + h.Insight)
	}
	if len(h.Tags) > 0 {
		labels := make([]string, 0, len(h.Tags))
		for _, t := range h.Tags {
			labels = append(labels, s.paint(s.tone(t.Tone), t.Label))
		}
		p.line("Tags: " + strings.Join(labels, ", "))
	}
}

func (p *page) cards(v engine.View) {
	s := p.s
	if len(v.Cards) == 0 {
		p.line(s.paint(s.Muted, v.EmptyMessage))
		return
	}
	for i, c := range v.Cards {
		t := c.Technique
		title := t.Title
		if v.Mode == engine.ModeSearch && t.CategoryIcon != "" {
			title = t.CategoryIcon + " " + title
		}
		head := fmt.Sprintf("%d. %s [%s]", i+1, s.paint(s.Title, title), t.Complexity)
		if c.Favorite {
			head += " " + s.paint(s.Favorite, favMark)
		}
		p.line(head)
		p.line("   " + t.Definition)
		p.line("   Best use: " + t.BestUse)
	}
}

func (p *page) detail(d *engine.Detail) {
	s := p.s
	t := d.Technique
	head := fmt.Sprintf("TECHNIQUE: %s [%s]", s.paint(s.Title, t.Title), t.Complexity)
	if d.Favorite {
		head += " " + s.paint(s.Favorite, favMark)
	}
	p.line(head)
	p.line("Definition: " + t.Definition)
	p.line("Mechanism: " + t.Mechanism)
	p.line("Best use: " + t.BestUse)
	p.line("Example input:")
	p.block("  ", t.ExampleInput)
	p.line("Example output:")
	p.block("  ", t.ExampleOutput)
	if d.Edited {
		p.line("Playground (edited):")
	} else {
		p.line("Playground:")
	}
	p.block("  ", d.Draft)
}

func (p *page) quiz(q *engine.QuizView) {
	s := p.s
	p.line(s.paint(s.Title, "QUIZ") + " · " + q.ScoreLine())
	p.line(q.Lead)
	p.block("  ", q.Prompt)

	var answer string
	for _, o := range q.Options {
		label := fmt.Sprintf("  %d. %s", o.Number, o.Title)
		switch {
		case o.Correct:
			label += " " + s.paint(s.Correct, "✓")
			answer = o.Title
		case o.Selected:
			label += " " + s.paint(s.Wrong, "✗")
		}
		p.line(label)
	}

	if !q.Answered {
		return
	}
	if q.Correct {
		p.line(s.paint(s.Correct, "Correct!"))
	} else {
		p.line(s.paint(s.Wrong, "Not quite.") + " The answer is " + answer + ".")
	}
}

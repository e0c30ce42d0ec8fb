package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/promptguide/internal/prefs"
	"github.com/roach88/promptguide/internal/query"
)

// Palette colors, light then dark.
var (
	LightForeground = lipgloss.Color("#101F38")
	LightPrimary    = lipgloss.Color("#4F46E5")
	LightMuted      = lipgloss.Color("#6B7280")
	LightAccent     = lipgloss.Color("#E11D48")

	DarkForeground = lipgloss.Color("#F2F2F2")
	DarkPrimary    = lipgloss.Color("#A5B4FC")
	DarkMuted      = lipgloss.Color("#9CA3AF")
	DarkAccent     = lipgloss.Color("#FB7185")

	Warning = lipgloss.Color("#F59E0B")
	Success = lipgloss.Color("#10B981")
	Info    = lipgloss.Color("#3B82F6")
)

// Palette is one color scheme.
type Palette struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	IsDark     bool
}

// LightPalette returns the light scheme.
func LightPalette() Palette {
	return Palette{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Muted:      LightMuted,
		Accent:     LightAccent,
	}
}

// DarkPalette returns the dark scheme.
func DarkPalette() Palette {
	return Palette{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Muted:      DarkMuted,
		Accent:     DarkAccent,
		IsDark:     true,
	}
}

// PaletteFor maps a stored theme to its palette.
func PaletteFor(t prefs.Theme) Palette {
	if t == prefs.ThemeDark {
		return DarkPalette()
	}
	return LightPalette()
}

// Style decorates page fragments. The zero Style is plain text, which
// keeps layout identical to the styled page minus escape codes.
type Style struct {
	styled bool

	Title    lipgloss.Style
	Badge    lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Active   lipgloss.Style
	Favorite lipgloss.Style
	Bar      lipgloss.Style
	Notice   lipgloss.Style
	Correct  lipgloss.Style
	Wrong    lipgloss.Style
	Warning  lipgloss.Style
	Good     lipgloss.Style
	Info     lipgloss.Style
}

// Plain returns the undecorated style used for golden pages and pipes.
func Plain() Style {
	return Style{}
}

// NewStyle builds the styled variant for a theme.
func NewStyle(theme prefs.Theme) Style {
	p := PaletteFor(theme)
	return Style{
		styled: true,

		Title: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		Badge: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		Body: lipgloss.NewStyle().
			Foreground(p.Foreground),
		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),
		Active: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		Favorite: lipgloss.NewStyle().
			Foreground(p.Accent),
		Bar: lipgloss.NewStyle().
			Foreground(p.Primary),
		Notice: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),
		Correct: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),
		Wrong: lipgloss.NewStyle().
			Foreground(DarkAccent).
			Bold(true),
		Warning: lipgloss.NewStyle().Foreground(Warning),
		Good:    lipgloss.NewStyle().Foreground(Success),
		Info:    lipgloss.NewStyle().Foreground(Info),
	}
}

// Styled reports whether the style emits decorations.
func (s Style) Styled() bool { return s.styled }

// paint applies ls when styled. Multi-line text is never passed here
// because lipgloss pads lines to a common width.
func (s Style) paint(ls lipgloss.Style, text string) string {
	if !s.styled || text == "" {
		return text
	}
	return ls.Render(text)
}

func (s Style) tone(t query.Tone) lipgloss.Style {
	switch t {
	case query.ToneWarning:
		return s.Warning
	case query.ToneGood:
		return s.Good
	default:
		return s.Info
	}
}

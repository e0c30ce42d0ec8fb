package prefs

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ThemeKey is the KV slot holding the theme name.
const ThemeKey = "theme"

// Theme is the color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme parses a stored or configured theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// LoadTheme reads the theme slot. Missing or unreadable values yield
// ThemeLight; unreadable ones are logged at warn level.
func LoadTheme(ctx context.Context, kv KV, logger *zap.Logger) Theme {
	if logger == nil {
		logger = zap.NewNop()
	}

	raw, found, err := kv.Get(ctx, ThemeKey)
	if err != nil {
		logger.Warn("failed to read theme, using light", zap.Error(err))
		return ThemeLight
	}
	if !found {
		return ThemeLight
	}

	theme, err := ParseTheme(raw)
	if err != nil {
		logger.Warn("malformed theme slot, using light", zap.Error(err))
		return ThemeLight
	}
	return theme
}

// SaveTheme writes the theme slot. A failed write is logged at error level.
func SaveTheme(ctx context.Context, kv KV, logger *zap.Logger, theme Theme) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := kv.Put(ctx, ThemeKey, string(theme)); err != nil {
		logger.Error("failed to persist theme",
			zap.String("theme", string(theme)),
			zap.Error(err))
	}
}

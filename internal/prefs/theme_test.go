package prefs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/promptguide/internal/testutil"
)

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme("dark")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	theme, err = ParseTheme("light")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	_, err = ParseTheme("solarized")
	assert.Error(t, err)
}

func TestThemeToggle(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
}

func TestLoadTheme(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, ThemeLight, LoadTheme(ctx, testutil.NewMemoryKV(nil), zap.NewNop()))
	assert.Equal(t, ThemeDark, LoadTheme(ctx, testutil.NewMemoryKV(map[string]string{ThemeKey: "dark"}), zap.NewNop()))
}

func TestLoadTheme_Malformed(t *testing.T) {
	logger, logs := observedLogger(zapcore.WarnLevel)
	kv := testutil.NewMemoryKV(map[string]string{ThemeKey: "neon"})

	assert.Equal(t, ThemeLight, LoadTheme(context.Background(), kv, logger))
	assert.Equal(t, 1, logs.Len())
}

func TestSaveTheme(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewMemoryKV(nil)

	SaveTheme(ctx, kv, zap.NewNop(), ThemeDark)

	raw, ok := kv.Raw(ThemeKey)
	require.True(t, ok)
	assert.Equal(t, "dark", raw)
	assert.Equal(t, ThemeDark, LoadTheme(ctx, kv, nil))
}

func TestSaveTheme_WriteFailure(t *testing.T) {
	logger, logs := observedLogger(zapcore.ErrorLevel)
	kv := testutil.NewMemoryKV(nil)
	kv.SetFailWrites(true)

	SaveTheme(context.Background(), kv, logger, ThemeDark)

	_, ok := kv.Raw(ThemeKey)
	assert.False(t, ok)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "failed to persist theme", logs.All()[0].Message)
}

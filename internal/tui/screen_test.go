package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/promptguide/internal/catalog"
	"github.com/roach88/promptguide/internal/engine"
	"github.com/roach88/promptguide/internal/ir"
	"github.com/roach88/promptguide/internal/render"
	"github.com/roach88/promptguide/internal/testutil"
)

func newScreenController(t *testing.T) (*Screen, *engine.Controller) {
	t.Helper()
	screen := NewScreen()
	ctrl, err := engine.New(context.Background(), catalog.MustLoad(), testutil.NewMemoryKV(nil),
		append(screen.Options(), engine.WithoutQuiz())...)
	require.NoError(t, err)
	return screen, ctrl
}

func TestScreen_EmptyUntilPrimed(t *testing.T) {
	screen, ctrl := newScreenController(t)

	assert.Empty(t, screen.Page())
	_, ok := screen.Chart()
	assert.False(t, ok)

	screen.Prime(ctrl.View())
	assert.Contains(t, screen.Page(), "PROMPT GUIDE")
	scores, ok := screen.Chart()
	require.True(t, ok)
	assert.Equal(t, *ctrl.View().Chart, scores)
}

func TestScreen_FollowsControllerPushes(t *testing.T) {
	screen, ctrl := newScreenController(t)
	ctx := context.Background()

	require.NoError(t, ctrl.Dispatch(ctx, engine.SelectCategory("reasoning")))
	assert.Contains(t, screen.Page(), "Reasoning Enhancement")
	scores, ok := screen.Chart()
	require.True(t, ok, "category view pushes its chart")
	assert.Equal(t, ir.Scores{7, 9, 5, 4, 3}, scores)

	content := screen.Content()
	assert.Contains(t, content, "Profile")
	assert.Contains(t, content, "Reliability")
	assert.NotContains(t, screen.Page(), "Cost Efficiency", "bars live in the panel, not the page")

	require.NoError(t, ctrl.Dispatch(ctx, engine.SetSearchQuery("rag")))
	_, ok = screen.Chart()
	assert.False(t, ok, "search results have no chart")
	assert.Equal(t, screen.Page(), screen.Content())
	assert.Contains(t, screen.Page(), `matches for "rag"`)
}

func TestScreen_RejectedEventKeepsPage(t *testing.T) {
	screen, ctrl := newScreenController(t)
	ctx := context.Background()

	require.NoError(t, ctrl.Dispatch(ctx, engine.SelectCategory("quality")))
	before := screen.Page()

	require.Error(t, ctrl.Dispatch(ctx, engine.SelectCategory("ghost")))
	assert.Equal(t, before, screen.Page())
}

func TestScreen_PageMatchesStyledRender(t *testing.T) {
	screen, ctrl := newScreenController(t)
	require.NoError(t, ctrl.Dispatch(context.Background(), engine.ToggleTheme()))

	v := ctrl.View()
	v.Chart = nil
	assert.Equal(t, render.Page(v, render.NewStyle(v.Theme)), screen.Page())
}

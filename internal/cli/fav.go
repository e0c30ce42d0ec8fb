package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/promptguide/internal/engine"
	"github.com/roach88/promptguide/internal/ir"
	"github.com/roach88/promptguide/internal/query"
)

// FavoriteEntry is one saved technique.
type FavoriteEntry struct {
	ID         ir.TechniqueID `json:"id"`
	Title      string         `json:"title"`
	CategoryID string         `json:"category_id"`
}

// ToggleResult reports the membership after a toggle.
type ToggleResult struct {
	ID       ir.TechniqueID `json:"id"`
	Favorite bool           `json:"favorite"`
}

// NewFavCommand creates the fav command group.
func NewFavCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage favorite techniques",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorites in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFavList(rootOpts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <technique-id>",
		Short: "Add a technique to favorites, or remove it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFavToggle(rootOpts, ir.TechniqueID(args[0]), cmd)
		},
	})

	return cmd
}

func runFavList(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	e, err := opts.openEnv(cmd.Context(), f, cmd.ErrOrStderr(), engine.WithoutQuiz())
	if err != nil {
		return err
	}
	defer e.Close()

	cat := e.ctrl.Catalog()
	entries := []FavoriteEntry{}
	for _, id := range e.ctrl.Favorites().All() {
		t, ok := query.FindTechnique(cat, id)
		if !ok {
			// Stale ids from an older catalog stay stored but are not listed.
			f.VerboseLog("Skipping unknown favorite %s", id)
			continue
		}
		entries = append(entries, FavoriteEntry{ID: t.ID, Title: t.Title, CategoryID: t.CategoryID})
	}

	var b strings.Builder
	if len(entries) == 0 {
		b.WriteString("No favorites yet.\n")
	}
	for _, fe := range entries {
		fmt.Fprintf(&b, "%-22s %s\n", fe.ID, fe.Title)
	}

	return f.Success(entries, b.String())
}

func runFavToggle(opts *RootOptions, id ir.TechniqueID, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)
	e, err := opts.openEnv(ctx, f, cmd.ErrOrStderr(), engine.WithoutQuiz())
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.dispatch(ctx, f, engine.ToggleFavorite(id)); err != nil {
		return err
	}

	res := ToggleResult{ID: id, Favorite: e.ctrl.Favorites().IsFavorite(id)}
	text := fmt.Sprintf("Removed %s from favorites\n", id)
	if res.Favorite {
		text = fmt.Sprintf("Added %s to favorites\n", id)
	}
	return f.Success(res, text)
}

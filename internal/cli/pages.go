package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/promptguide/internal/engine"
	"github.com/roach88/promptguide/internal/ir"
	"github.com/roach88/promptguide/internal/render"
)

// CategoryListing is the categories command payload.
type CategoryListing struct {
	Categories      []engine.NavItem `json:"categories"`
	TotalTechniques int              `json:"total_techniques"`
	Favorites       int              `json:"favorites"`
}

// NewCategoriesCommand creates the categories command.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with technique counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCategories(rootOpts, cmd)
		},
	}
}

func runCategories(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	e, err := opts.openEnv(cmd.Context(), f, cmd.ErrOrStderr(), engine.WithoutQuiz())
	if err != nil {
		return err
	}
	defer e.Close()

	v := e.ctrl.View()
	listing := CategoryListing{
		Categories:      v.Nav,
		TotalTechniques: v.TotalTechniques,
		Favorites:       v.FavoritesCount,
	}

	var b strings.Builder
	for _, n := range v.Nav {
		fmt.Fprintf(&b, "%-20s %s %s (%d)\n", n.ID, n.Icon, n.Title, n.Count)
	}
	fmt.Fprintf(&b, "%d techniques · %d favorites\n", v.TotalTechniques, v.FavoritesCount)

	return f.Success(listing, b.String())
}

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Open string // technique to open in the detail view
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [category|favorites]",
		Short: "Print a category page",
		Long: `Print the page for a category, or for your favorites.

Without an argument the start category from the config is shown.

Examples:
  promptguide show reasoning
  promptguide show favorites
  promptguide show reasoning --open cot
  promptguide show quality --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := ""
			if len(args) == 1 {
				category = args[0]
			}
			return runShow(opts, category, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Open, "open", "", "open a technique's detail view")

	return cmd
}

func runShow(opts *ShowOptions, category string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)
	e, err := opts.openEnv(ctx, f, cmd.ErrOrStderr(), engine.WithoutQuiz())
	if err != nil {
		return err
	}
	defer e.Close()

	if category != "" {
		if err := e.dispatch(ctx, f, engine.SelectCategory(category)); err != nil {
			return err
		}
	}
	if opts.Open != "" {
		if err := e.dispatch(ctx, f, engine.OpenTechnique(ir.TechniqueID(opts.Open))); err != nil {
			return err
		}
	}

	return printView(f, e.ctrl.View())
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "Search technique titles, definitions and best uses",
		Long: `Search every category. Matching ignores case and accents.

Examples:
  promptguide search chain-of-thought
  promptguide search json schema`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(rootOpts, strings.Join(args, " "), cmd)
		},
	}
}

func runSearch(opts *RootOptions, q string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)

	if strings.TrimSpace(q) == "" {
		return f.Fail(ExitCommandError, ErrCodeBlankQuery, "search query is empty", nil)
	}

	e, err := opts.openEnv(ctx, f, cmd.ErrOrStderr(), engine.WithoutQuiz())
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.dispatch(ctx, f, engine.SetSearchQuery(q)); err != nil {
		return err
	}
	return printView(f, e.ctrl.View())
}

// printView writes v as a plain page, or as JSON.
func printView(f *OutputFormatter, v engine.View) error {
	return f.Success(v, render.Page(v, render.Plain()))
}

package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/promptguide/internal/prefs"
)

// PrefEntry is one stored preference slot.
type PrefEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Seq   int64  `json:"seq"`
}

// PrefListing is the prefs list payload.
type PrefListing struct {
	Entries []PrefEntry `json:"entries"`
	LastSeq int64       `json:"last_seq"`
}

// PrefReset is the prefs reset payload.
type PrefReset struct {
	Cleared []string `json:"cleared"`
}

// prefAliases maps the short names accepted by prefs reset to slot keys.
var prefAliases = map[string]string{
	"favorites":        prefs.FavoritesKey,
	prefs.FavoritesKey: prefs.FavoritesKey,
	prefs.ThemeKey:     prefs.ThemeKey,
}

// NewPrefsCommand creates the prefs command group.
func NewPrefsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect or clear stored preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored preference slots, oldest write first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefsList(rootOpts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset [favorites|theme...]",
		Short: "Clear stored preferences",
		Long: `Clear the named preference slots, or every slot when none is named.

Examples:
  promptguide prefs reset
  promptguide prefs reset favorites`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefsReset(rootOpts, args, cmd)
		},
	})

	return cmd
}

func runPrefsList(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)
	st, err := opts.openStore(f)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.Entries(ctx)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, err.Error(), nil)
	}
	last, err := st.LastSeq(ctx)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, err.Error(), nil)
	}

	listing := PrefListing{Entries: []PrefEntry{}, LastSeq: last}
	for _, e := range entries {
		listing.Entries = append(listing.Entries, PrefEntry{Key: e.Key, Value: e.Value, Seq: e.Seq})
	}

	var b strings.Builder
	if len(listing.Entries) == 0 {
		b.WriteString("No preferences stored.\n")
		return f.Success(listing, b.String())
	}
	for _, e := range listing.Entries {
		fmt.Fprintf(&b, "%-22s %s  #%d\n", e.Key, e.Value, e.Seq)
	}
	fmt.Fprintf(&b, "last write #%d\n", last)

	return f.Success(listing, b.String())
}

func runPrefsReset(opts *RootOptions, names []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)

	var targets []string
	for _, name := range names {
		key, ok := prefAliases[name]
		if !ok {
			return f.Fail(ExitCommandError, ErrCodeUnknownPref,
				fmt.Sprintf("unknown preference %q", name),
				map[string]string{"known": "favorites, theme"})
		}
		if !slices.Contains(targets, key) {
			targets = append(targets, key)
		}
	}

	st, err := opts.openStore(f)
	if err != nil {
		return err
	}
	defer st.Close()

	stored, err := st.Keys(ctx)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, err.Error(), nil)
	}
	if len(targets) == 0 {
		targets = stored
	}

	res := PrefReset{Cleared: []string{}}
	for _, key := range targets {
		if !slices.Contains(stored, key) {
			continue
		}
		if err := st.Delete(ctx, key); err != nil {
			return f.Fail(ExitFailure, ErrCodeStore, err.Error(), map[string]string{"key": key})
		}
		res.Cleared = append(res.Cleared, key)
	}

	text := "Nothing to clear.\n"
	if len(res.Cleared) > 0 {
		text = fmt.Sprintf("Cleared %s\n", strings.Join(res.Cleared, ", "))
	}
	return f.Success(res, text)
}

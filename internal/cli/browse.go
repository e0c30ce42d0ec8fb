package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/promptguide/internal/engine"
	"github.com/roach88/promptguide/internal/tui"
)

// NewBrowseCommand creates the interactive browse command.
func NewBrowseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Open the terminal UI.

Logs are written to log_file from the config, or discarded, so they do
not disturb the screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(rootOpts, cmd)
		},
	}

	return cmd
}

func runBrowse(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	screen := tui.NewScreen()
	extra := screen.Options()
	if tui.ClipboardAvailable() {
		extra = append(extra, engine.WithClipboard(tui.SystemClipboard{}))
	} else {
		f.VerboseLog("Clipboard unsupported; copy is disabled")
	}

	e, err := opts.openEnv(cmd.Context(), f, nil, extra...)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := tui.Run(cmd.Context(), e.ctrl, screen, e.logger); err != nil {
		return WrapExitError(ExitFailure, "terminal UI failed", err)
	}
	return nil
}

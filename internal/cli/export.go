package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/promptguide/internal/ir"
	"github.com/roach88/promptguide/internal/query"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string // output file path
}

// CatalogExport is the exported document.
type CatalogExport struct {
	SchemaVersion string      `json:"schema_version"`
	AppVersion    string      `json:"app_version"`
	Hash          string      `json:"hash"`
	Catalog       *ir.Catalog `json:"catalog"`
}

// ExportSummary is the export command payload when writing to a file.
type ExportSummary struct {
	Path       string `json:"path"`
	Hash       string `json:"hash"`
	Categories int    `json:"categories"`
	Techniques int    `json:"techniques"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as JSON",
		Long: `Write the active catalog (built-in, or --catalog) as indented JSON
together with its content hash.

Without --output the document is written to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCatalog, err.Error(), nil)
	}

	hash, err := ir.CatalogHash(cat)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	data, err := json.MarshalIndent(CatalogExport{
		SchemaVersion: ir.SchemaVersion,
		AppVersion:    ir.AppVersion,
		Hash:          hash,
		Catalog:       cat,
	}, "", "  ")
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("marshaling catalog: %v", err), nil)
	}
	data = append(data, '\n')

	if opts.Output == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		return nil
	}

	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
	}

	summary := ExportSummary{
		Path:       opts.Output,
		Hash:       hash,
		Categories: len(cat.Categories),
		Techniques: query.CountTechniques(cat),
	}
	text := fmt.Sprintf("✓ Exported %d categories, %d techniques to %s\n  hash %s\n",
		summary.Categories, summary.Techniques, summary.Path, hash)
	return formatter.Success(summary, text)
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/promptguide/internal/catalog"
	"github.com/roach88/promptguide/internal/compiler"
	"github.com/roach88/promptguide/internal/ir"
	"github.com/roach88/promptguide/internal/query"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool                       `json:"valid"`
	Errors     []compiler.ValidationError `json:"errors,omitempty"`
	Categories int                        `json:"categories,omitempty"`
	Techniques int                        `json:"techniques,omitempty"`
	Hash       string                     `json:"hash,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog.cue>",
		Short: "Check a CUE catalog before using it",
		Long: `Compile a CUE catalog and check every record.

Exit codes:
  0 - Catalog is valid
  1 - Catalog compiled but has validation errors (E2xx)
  2 - File missing or not valid CUE (E005, E100)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if _, err := os.Stat(path); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("catalog not found: %s", path), nil)
	}

	formatter.VerboseLog("Compiling %s", path)
	cat, err := catalog.LoadFile(path)
	if err != nil {
		var invalid *catalog.InvalidError
		if errors.As(err, &invalid) {
			return outputValidationErrors(formatter, invalid.Errors)
		}
		return outputCompileError(formatter, err)
	}

	return outputValidateSuccess(formatter, cat)
}

// outputCompileError reports a catalog that is not valid CUE or has the
// wrong shape.
func outputCompileError(formatter *OutputFormatter, err error) error {
	var compileErr *compiler.CompileError
	if !errors.As(err, &compileErr) {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	var details map[string]any
	if compileErr.Pos.IsValid() {
		details = map[string]any{
			"file":   compileErr.Pos.Filename(),
			"line":   compileErr.Pos.Line(),
			"column": compileErr.Pos.Column(),
		}
	}
	return formatter.Fail(ExitCommandError, ErrCodeCompile, compileErr.Error(), details)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, cat *ir.Catalog) error {
	hash, err := ir.CatalogHash(cat)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	result := ValidationResult{
		Valid:      true,
		Categories: len(cat.Categories),
		Techniques: query.CountTechniques(cat),
		Hash:       hash,
	}
	text := fmt.Sprintf("✓ Catalog valid: %d categories, %d techniques\n  hash %s\n",
		result.Categories, result.Techniques, hash)
	return formatter.Success(result, text)
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.JSON() {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return newReportedError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1
	return newReportedError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

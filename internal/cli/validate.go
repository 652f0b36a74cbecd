package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/keynav/internal/fetch"
	"github.com/roach88/keynav/internal/key"
	"github.com/roach88/keynav/internal/schema"
)

// ValidationResult is the payload of the validate command.
type ValidationResult struct {
	Valid bool `json:"valid"`
	Leads int  `json:"leads"`
	Root  int  `json:"root"`
}

// RenderText implements TextRenderer.
func (r ValidationResult) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "✓ Dataset valid: %d leads, root %d\n", r.Leads, r.Root)
	return err
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <dataset.json>",
		Short: "Validate a key dataset file",
		Long: `Validate a key dataset file without fetching or caching anything.

Checks the payload against the lead schema, then builds the tree to confirm
it has exactly one root, no dangling parents, and no duplicate leads.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("dataset file not found: %s", path), nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to read dataset", err)
	}
	formatter.VerboseLog("Read %d bytes from %s", len(data), path)

	v, err := schema.New()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to load schema", err)
	}
	if err := v.Validate(schema.DatasetDef, path, data); err != nil {
		return outputSchemaError(formatter, err)
	}

	leads, err := fetch.DecodeDataset(data)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeSchema, "failed to decode dataset", err)
	}

	tree, err := key.Build(leads)
	if err != nil {
		var terr *key.TreeError
		if errors.As(err, &terr) {
			_ = formatter.Error(ErrCodeMalformed, terr.Message, map[string]any{
				"code":   terr.Code,
				"lead":   terr.LeadID,
				"parent": terr.ParentID,
			})
			return WrapExitError(ExitFailure, "dataset does not form a valid key", err)
		}
		return formatter.Fail(ExitFailure, ErrCodeMalformed, "dataset does not form a valid key", err)
	}

	return formatter.Success(ValidationResult{
		Valid: true,
		Leads: tree.Len(),
		Root:  tree.Root().Lead.LeadID,
	})
}

// outputSchemaError reports a schema failure with its payload position.
func outputSchemaError(formatter *OutputFormatter, err error) error {
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		return formatter.Fail(ExitFailure, ErrCodeSchema, "schema validation failed", err)
	}

	details := map[string]any{"errors": verr.Count}
	if verr.Pos.IsValid() {
		details["line"] = verr.Pos.Line()
		details["column"] = verr.Pos.Column()
	}
	_ = formatter.Error(ErrCodeSchema, verr.Message, details)
	return WrapExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", verr.Count), err)
}

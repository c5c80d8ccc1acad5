package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mistakeknot/taskstate/internal/state"
	"github.com/mistakeknot/taskstate/internal/task"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Rev   uint64 `json:"rev"`
	Tasks int    `json:"tasks"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the document decodes and its tasks satisfy the schema",
		Long: `Check that the document decodes and its tasks satisfy the schema.

Decoding uses the same path as every read: content that does not parse is
reported, never repaired. Payload records are then checked against the CUE
task schema (non-empty id and title, known status).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	formatter := NewFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	formatter.VerboseLog("validating %s", opts.File)

	doc, err := state.New(opts.File).Read()
	if err != nil {
		code := StoreErrorCode(err)
		_ = formatter.Error(code, err.Error(), nil)
		if code == ErrCodeDecode {
			return WrapExitError(ExitFailure, "document does not decode", err)
		}
		return WrapExitError(ExitCommandError, "read document", err)
	}

	if err := task.Validate(doc.Tasks); err != nil {
		if opts.Format == "json" {
			_ = formatter.Success(ValidationResult{
				Valid: false,
				Rev:   doc.Rev,
				Tasks: len(doc.Tasks),
				Error: err.Error(),
			})
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "invalid: %v\n", err)
		}
		return NewExitError(ExitFailure, "document payload is invalid")
	}

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Rev: doc.Rev, Tasks: len(doc.Tasks)})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: rev %d, %d task(s)\n", doc.Rev, len(doc.Tasks))
	return nil
}

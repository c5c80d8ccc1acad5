package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mistakeknot/taskstate/internal/state"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current task document",
		Long: `Print the current task document.

A document that has never been written prints as rev 0 with no tasks; no
file is created.

Example:
  taskstate show --file tasks.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, cmd)
		},
	}
}

func runShow(opts *RootOptions, cmd *cobra.Command) error {
	formatter := NewFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	formatter.VerboseLog("reading %s", opts.File)

	doc, err := state.New(opts.File).Read()
	if err != nil {
		_ = formatter.Error(StoreErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "read document", err)
	}

	if opts.Format == "json" {
		return formatter.Success(doc)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderDocument(doc))
	return nil
}

// renderDocument formats a document for text output.
func renderDocument(doc state.Document) string {
	var b strings.Builder
	if doc.Rev == 0 {
		b.WriteString("(empty)  rev 0")
	} else {
		fmt.Fprintf(&b, "%s  rev %d", doc.UpdatedAt.Format("2006-01-02 15:04:05"), doc.Rev)
	}
	fmt.Fprintf(&b, "  %d task(s)\n", len(doc.Tasks))
	for _, t := range doc.Tasks {
		fmt.Fprintf(&b, "  [%s] %s  %s\n", t.Status, t.ID, t.Title)
	}
	return b.String()
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mistakeknot/taskstate/internal/state"
	"github.com/mistakeknot/taskstate/internal/task"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Retries int
	Backoff time.Duration
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Append a new pending task",
		Long: `Append a new pending task with a generated UUID.

The append is a compare-and-swap: on a revision conflict with a concurrent
writer it re-reads and retries with backoff, up to --retries times.

Example:
  taskstate add "write the durability tests" --file tasks.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Retries, "retries", 5, "retries on revision conflict")
	cmd.Flags().DurationVar(&opts.Backoff, "backoff", 25*time.Millisecond, "delay between conflict retries")

	return cmd
}

func runAdd(opts *AddOptions, title string, cmd *cobra.Command) error {
	formatter := NewFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	newTask := task.New(title)
	persisted, err := state.New(opts.File).CompareAndSwap(func(d *state.Document) error {
		d.Tasks = append(d.Tasks, newTask)
		return nil
	}, opts.Retries, opts.Backoff)
	if err != nil {
		_ = formatter.Error(StoreErrorCode(err), err.Error(), nil)
		return WrapExitError(exitCodeFor(err), "add task", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]interface{}{
			"task": newTask,
			"rev":  persisted.Rev,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s (rev %d)\n", newTask.ID, persisted.Rev)
	return nil
}

// exitCodeFor classifies store errors: contention and conflicts are domain
// failures a caller can retry; everything else is a command error.
func exitCodeFor(err error) int {
	switch StoreErrorCode(err) {
	case ErrCodeLocked, ErrCodeConflict:
		return ExitFailure
	default:
		return ExitCommandError
	}
}

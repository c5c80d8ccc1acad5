package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mistakeknot/taskstate/internal/state"
	"github.com/mistakeknot/taskstate/internal/task"
)

// DoneOptions holds flags for the done command.
type DoneOptions struct {
	*RootOptions
	Retries int
	Backoff time.Duration
}

// NewDoneCommand creates the done command.
func NewDoneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DoneOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task as done",
		Long: `Mark the task with the given id as done.

The update is a compare-and-swap: it retries on revision conflicts with
concurrent writers, and fails when the id is unknown.

Example:
  taskstate done 3f1a... --file tasks.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDone(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Retries, "retries", 5, "retries on revision conflict")
	cmd.Flags().DurationVar(&opts.Backoff, "backoff", 25*time.Millisecond, "delay between conflict retries")

	return cmd
}

func runDone(opts *DoneOptions, id string, cmd *cobra.Command) error {
	formatter := NewFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	persisted, err := state.New(opts.File).CompareAndSwap(func(d *state.Document) error {
		i, ok := d.FindTask(id)
		if !ok {
			return &unknownTaskError{ID: id}
		}
		d.Tasks[i].Status = task.StatusDone
		return nil
	}, opts.Retries, opts.Backoff)
	if err != nil {
		var unknown *unknownTaskError
		if errors.As(err, &unknown) {
			_ = formatter.Error(ErrCodeNotFound, unknown.Error(), nil)
			return WrapExitError(ExitFailure, "mark done", err)
		}
		_ = formatter.Error(StoreErrorCode(err), err.Error(), nil)
		return WrapExitError(exitCodeFor(err), "mark done", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]interface{}{
			"id":  id,
			"rev": persisted.Rev,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "done %s (rev %d)\n", id, persisted.Rev)
	return nil
}

type unknownTaskError struct {
	ID string
}

func (e *unknownTaskError) Error() string {
	return fmt.Sprintf("no task with id %q", e.ID)
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mistakeknot/taskstate/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands emit their own diagnostics through the formatter; only
		// flag and usage errors still need printing here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}

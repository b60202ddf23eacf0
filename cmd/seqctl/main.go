// Command seqctl runs, validates and tests line-based sequencer scripts.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/seqctl/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

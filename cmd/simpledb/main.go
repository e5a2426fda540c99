// Command simpledb is the command-line front end of the simpledb store.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/simpledb/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, "simpledb:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}

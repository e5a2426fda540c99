package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/simpledb/internal/engine"
	"github.com/roach88/simpledb/internal/status"
)

// NewHasCommand creates the has command.
func NewHasCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "has <table> <key>",
		Short: "Report whether a key is readable",
		Long: `Report whether a key currently holds a readable value.

Prints true or false. Deleted and expired keys print false.

Example:
  simpledb has people p1`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, key := args[0], args[1]
			f := rootOpts.formatter(cmd)
			return rootOpts.withEngine(func(eng *engine.Engine) error {
				has := eng.HasKey(table, key)
				if eng.Status() == status.ReadError {
					return reportResult(f, engine.Result{Status: status.ReadError, Err: status.ErrRead})
				}
				return f.Print(strconv.FormatBool(has), map[string]any{"table": table, "key": key, "has": has})
			})
		},
	}

	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/simpledb/internal/engine"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <table> <key>",
		Short: "Delete a key, leaving a tombstone",
		Long: `Delete a key, leaving a tombstone.

Later reads of the key report KeyDeleted until it is written again.
Deleting an already deleted or missing key succeeds and changes nothing.

Example:
  simpledb delete people p1`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, key := args[0], args[1]
			f := rootOpts.formatter(cmd)
			return rootOpts.withEngine(func(eng *engine.Engine) error {
				if err := reportResult(f, eng.DeleteForKey(key, table)); err != nil {
					return err
				}
				return f.Print("OK", map[string]any{"table": table, "key": key})
			})
		},
	}

	return cmd
}

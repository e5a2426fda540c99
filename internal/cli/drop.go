package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/simpledb/internal/engine"
)

// NewDropCommand creates the drop command.
func NewDropCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drop <table>",
		Short: "Remove a table with all its keys and tombstones",
		Long: `Remove a table with all its keys and tombstones.

Afterwards every key of the table reads as KeyNotFound.

Example:
  simpledb drop sessions`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := args[0]
			f := rootOpts.formatter(cmd)
			return rootOpts.withEngine(func(eng *engine.Engine) error {
				if err := reportResult(f, eng.DropTable(table)); err != nil {
					return err
				}
				return f.Print("OK", map[string]any{"table": table})
			})
		},
	}

	return cmd
}

// NewDropAllCommand creates the drop-all command.
func NewDropAllCommand(rootOpts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "drop-all",
		Short: "Remove every table",
		Long: `Remove every table with all keys and tombstones.

Requires --force.

Example:
  simpledb drop-all --force`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return NewExitError(ExitCommandError, "drop-all removes every table; pass --force to confirm")
			}
			f := rootOpts.formatter(cmd)
			return rootOpts.withEngine(func(eng *engine.Engine) error {
				if err := reportResult(f, eng.DropAllTables()); err != nil {
					return err
				}
				return f.Print("OK", map[string]any{})
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm removal of every table")

	return cmd
}

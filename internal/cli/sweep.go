package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/simpledb/internal/engine"
)

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Mark every key past its expiry as expired",
		Long: `Mark every key past its expiry as expired, in all tables.

Reads already do this one key at a time; sweep writes the tombstones ahead
of reads. Prints the number of keys transitioned.

Example:
  simpledb sweep --db ./app.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withEngine(func(eng *engine.Engine) error {
				n, res := eng.Sweep()
				if err := reportResult(f, res); err != nil {
					return err
				}
				return f.Print(fmt.Sprintf("%d expired", n), map[string]any{"expired": n})
			})
		},
	}

	return cmd
}

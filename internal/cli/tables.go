package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/simpledb/internal/engine"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables",
		Long: `List every table that holds records, tombstones included.

Example:
  simpledb tables --db ./app.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withEngine(func(eng *engine.Engine) error {
				names, res := eng.Tables()
				if err := reportResult(f, res); err != nil {
					return err
				}
				return f.Print(strings.Join(names, "\n"), map[string]any{"tables": names})
			})
		},
	}

	return cmd
}

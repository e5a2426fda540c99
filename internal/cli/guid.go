package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/simpledb/internal/guid"
)

// NewGUIDCommand creates the guid command.
func NewGUIDCommand(rootOpts *RootOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "guid",
		Short: "Print new unique identifiers",
		Long: `Print new unique identifiers suitable for use as keys.

Identifiers are UUIDv7, so ones printed later sort after earlier ones.
No database is opened.

Example:
  simpledb guid --count 3`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return NewExitError(ExitCommandError, fmt.Sprintf("--count must be positive, got %d", count))
			}

			var gen guid.Generator = guid.UUIDv7{}
			ids := make([]string, count)
			for i := range ids {
				ids[i] = gen.Generate()
			}
			return rootOpts.formatter(cmd).Print(strings.Join(ids, "\n"), map[string]any{"guids": ids})
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "number of identifiers")

	return cmd
}

package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/simpledb/internal/engine"
	"github.com/roach88/simpledb/internal/enumerate"
	"github.com/roach88/simpledb/internal/record"
)

// KeysOptions holds flags for the keys command.
type KeysOptions struct {
	*RootOptions
	OrderBy string
	Reverse bool
	Where   []string // field=value
}

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KeysOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "keys <table>",
		Short: "List the readable keys of a table",
		Long: `List the readable keys of a table, one per line.

Deleted and expired keys are not listed. Without --order-by keys are listed
in the order they were first written. --order-by sorts by a top-level field
of each JSON value; values without the field sort first. --where keeps only
keys whose field equals the given text and may be repeated.

Examples:
  simpledb keys people
  simpledb keys people --order-by name --reverse
  simpledb keys people --where team=red --where active=true`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeys(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.OrderBy, "order-by", "", "JSON field to sort by")
	cmd.Flags().BoolVar(&opts.Reverse, "reverse", false, "sort descending")
	cmd.Flags().StringArrayVar(&opts.Where, "where", nil, "only keys whose JSON field equals value (field=value)")

	return cmd
}

func listKeys(opts *KeysOptions, table string, cmd *cobra.Command) error {
	enumOpts, err := opts.enumerateOptions()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --where", err)
	}

	f := opts.formatter(cmd)
	f.VerboseLog("listing %s (order by %q, reverse %t, %d filters)", table, opts.OrderBy, opts.Reverse, len(opts.Where))

	return opts.withEngine(func(eng *engine.Engine) error {
		keys, res := eng.Keys(table, enumOpts)
		if err := reportResult(f, res); err != nil {
			return err
		}
		return f.Print(strings.Join(keys, "\n"), map[string]any{"table": table, "keys": keys})
	})
}

func (o *KeysOptions) enumerateOptions() (enumerate.Options, error) {
	opts := enumerate.Options{
		OrderBy:    o.OrderBy,
		Descending: o.Reverse,
	}

	filters, err := parseWhere(o.Where)
	if err != nil {
		return enumerate.Options{}, err
	}
	if len(filters) > 0 {
		opts.Filter = func(e record.Entry) bool {
			for _, p := range filters {
				if !p(e) {
					return false
				}
			}
			return true
		}
	}
	return opts, nil
}

// parseWhere turns field=value clauses into predicates, ordered by field.
func parseWhere(clauses []string) ([]enumerate.Predicate, error) {
	sorted := append([]string(nil), clauses...)
	sort.Strings(sorted)

	preds := make([]enumerate.Predicate, 0, len(sorted))
	for _, clause := range sorted {
		field, value, ok := strings.Cut(clause, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("%q: want field=value", clause)
		}
		preds = append(preds, enumerate.FieldEquals(field, value))
	}
	return preds, nil
}

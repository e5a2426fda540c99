package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/simpledb/internal/codec"
	"github.com/roach88/simpledb/internal/engine"
)

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	Field string
	Dict  bool
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <table> <key>",
		Short: "Read the value of a key",
		Long: `Read the value of a key.

A key that cannot be read fails with its status: KeyNotFound if it never
existed, KeyDeleted if it was deleted, KeyAutoDeleted if it expired.

Examples:
  simpledb get people p1
  simpledb get people p1 --field name
  simpledb get people p1 --dict --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return getValue(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Field, "field", "", "print one top-level field of a JSON object value")
	cmd.Flags().BoolVar(&opts.Dict, "dict", false, "decode the value as a JSON object")

	return cmd
}

func getValue(opts *GetOptions, table, key string, cmd *cobra.Command) error {
	if opts.Field != "" && opts.Dict {
		return NewExitError(ExitCommandError, "--field and --dict are mutually exclusive")
	}

	f := opts.formatter(cmd)
	return opts.withEngine(func(eng *engine.Engine) error {
		switch {
		case opts.Field != "":
			v, res := eng.JSONValueForKey(opts.Field, table, key)
			if err := reportResult(f, res); err != nil {
				return err
			}
			text, err := jsonText(v)
			if err != nil {
				return err
			}
			return f.Print(text, map[string]any{"table": table, "key": key, "field": opts.Field, "value": v})

		case opts.Dict:
			m, res := eng.DictionaryValueForKey(table, key)
			if err := reportResult(f, res); err != nil {
				return err
			}
			text, err := jsonText(m)
			if err != nil {
				return err
			}
			return f.Print(text, map[string]any{"table": table, "key": key, "value": m})
		}

		value, res := eng.ValueForKey(table, key)
		if err := reportResult(f, res); err != nil {
			return err
		}
		return f.Print(value, map[string]any{"table": table, "key": key, "value": value})
	})
}

// jsonText renders a decoded JSON value for text output: strings bare,
// everything else as canonical JSON.
func jsonText(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	data, err := codec.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("render value: %w", err)
	}
	return string(data), nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/simpledb/internal/engine"
)

// SetOptions holds flags for the set command.
type SetOptions struct {
	*RootOptions
	ExpiresIn time.Duration
	ExpiresAt string
	Dict      bool
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set <table> <key> <value>",
		Short: "Store a value for a key",
		Long: `Store a value for a key, creating the table on first write.

Overwriting a readable key keeps its original add date. Writing a key that
was deleted or has expired starts it over.

Examples:
  simpledb set people p1 '{"name":"Ada","team":"red"}'
  simpledb set sessions s1 token --expires-in 30m
  simpledb set people p2 '{"b":1,"a":2}' --dict`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setValue(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.ExpiresIn, "expires-in", 0, "expire the key after this duration")
	cmd.Flags().StringVar(&opts.ExpiresAt, "expires-at", "", "expire the key at this RFC 3339 time")
	cmd.Flags().BoolVar(&opts.Dict, "dict", false, "value is a JSON object; store it as canonical JSON")

	return cmd
}

func setValue(opts *SetOptions, table, key, value string, cmd *cobra.Command) error {
	expiresAt, err := opts.expiry(time.Now())
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid expiry", err)
	}

	var dict map[string]any
	if opts.Dict {
		if err := json.Unmarshal([]byte(value), &dict); err != nil || dict == nil {
			return NewExitError(ExitCommandError, "--dict value must be a JSON object")
		}
	}

	f := opts.formatter(cmd)
	return opts.withEngine(func(eng *engine.Engine) error {
		var res engine.Result
		if dict != nil {
			res = eng.SetDictionary(dict, key, table, expiresAt)
		} else {
			res = eng.SetValue(value, key, table, expiresAt)
		}
		if err := reportResult(f, res); err != nil {
			return err
		}

		data := map[string]any{"table": table, "key": key}
		if expiresAt != nil {
			data["expires_at"] = expiresAt.Format(time.RFC3339Nano)
		}
		return f.Print("OK", data)
	})
}

// expiry resolves --expires-in and --expires-at against now.
func (o *SetOptions) expiry(now time.Time) (*time.Time, error) {
	switch {
	case o.ExpiresIn != 0 && o.ExpiresAt != "":
		return nil, fmt.Errorf("--expires-in and --expires-at are mutually exclusive")
	case o.ExpiresIn != 0:
		t := now.Add(o.ExpiresIn).UTC()
		return &t, nil
	case o.ExpiresAt != "":
		t, err := time.Parse(time.RFC3339Nano, o.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("--expires-at: %w", err)
		}
		t = t.UTC()
		return &t, nil
	}
	return nil, nil
}

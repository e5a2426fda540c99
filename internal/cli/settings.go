package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/simpledb/internal/config"
	"github.com/roach88/simpledb/internal/engine"
)

// Settings loads the config file and applies flag overrides.
func (o *RootOptions) Settings() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	if o.Database != "" {
		cfg.Database.Path = o.Database
	}
	if o.Driver != "" {
		cfg.Database.Driver = o.Driver
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// openEngine opens the configured database. The caller must Close it.
func (o *RootOptions) openEngine() (*engine.Engine, error) {
	cfg, err := o.Settings()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	slog.Debug("opening database", "path", cfg.Database.Path, "driver", cfg.Database.Driver)
	eng, err := engine.Open(cfg.Database.Path,
		engine.WithDriver(cfg.Database.Driver),
		engine.WithSweepOnOpen(cfg.SweepOnOpen),
		engine.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return eng, nil
}

// withEngine opens the database, runs fn and closes the database.
func (o *RootOptions) withEngine(fn func(*engine.Engine) error) error {
	eng, err := o.openEngine()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := eng.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	return fn(eng)
}

// reportResult prints a failed engine Result and converts it to an exit
// error. A successful Result returns nil without output.
func reportResult(f *OutputFormatter, res engine.Result) error {
	if res.OK() {
		return nil
	}
	return f.Fail(res.Status, res.Err)
}

// newLogger builds the process logger from the log settings.
func newLogger(cfg config.Log, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	}
	return nil, fmt.Errorf("log.format %q: must be text or json", cfg.Format)
}

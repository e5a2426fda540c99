// Package config loads simpledb settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/simpledb/internal/store"
)

// DefaultPath is the database file used when neither the config file nor a
// flag names one.
const DefaultPath = "simpledb.db"

// Config holds every setting the CLI reads.
type Config struct {
	Database Database `yaml:"database"`
	Log      Log      `yaml:"log"`

	// SweepOnOpen runs an eager expiry pass when the database is opened.
	SweepOnOpen bool `yaml:"sweep_on_open"`
}

// Database selects the file and driver.
type Database struct {
	Path   string `yaml:"path"`
	Driver string `yaml:"driver"` // "sqlite3" (cgo) | "sqlite" (pure Go)
}

// Log configures the slog handler.
type Log struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Database: Database{
			Path:   DefaultPath,
			Driver: store.DriverCGO,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults.
//
// An empty path or a file that does not exist yields Default(). Unknown
// fields are rejected so typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	switch c.Database.Driver {
	case store.DriverCGO, store.DriverPureGo:
	default:
		return fmt.Errorf("database.driver %q: must be %q or %q", c.Database.Driver, store.DriverCGO, store.DriverPureGo)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: must be text or json", c.Log.Format)
	}
	return nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", name, err)
	}
	return level, nil
}

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added partial index on active records with an expiry
// 2 - Timestamps moved from Unix nanoseconds to Unix microseconds
const currentSchemaVersion = 2

// Supported database/sql driver names.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// ErrTimeOutOfRange is returned when a timestamp cannot be stored.
var ErrTimeOutOfRange = errors.New("time out of storable range")

// ErrNoRecord is returned when an operation needs an existing record and the
// key has none, in any lifecycle.
var ErrNoRecord = errors.New("no record for key")

// Store provides durable storage for table records.
// Uses SQLite with WAL mode and a single connection.
type Store struct {
	db     *sql.DB
	driver string
}

// Option configures Open.
type Option func(*openConfig)

type openConfig struct {
	driver string
}

// WithDriver selects the database/sql driver (DriverCGO or DriverPureGo).
// Default: DriverCGO.
func WithDriver(driver string) Option {
	return func(c *openConfig) {
		if driver != "" {
			c.driver = driver
		}
	}
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
// Use ":memory:" for a throwaway database.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := openConfig{driver: DriverCGO}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.driver != DriverCGO && cfg.driver != DriverPureGo {
		return nil, fmt.Errorf("unsupported driver %q: must be %q or %q", cfg.driver, DriverCGO, DriverPureGo)
	}

	db, err := sql.Open(cfg.driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, and ":memory:" databases
	// exist per connection, so keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, driver: cfg.driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// Table returns a handle for the named table. The table itself is created
// lazily by the first Put.
func (s *Store) Table(name string) *Table {
	return &Table{store: s, name: name}
}

// Tables returns the names of all tables in binary order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM kv_tables
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return names, nil
}

// DropAll removes every table together with all of its records.
func (s *Store) DropAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("drop all: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("drop all: delete records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM kv_tables`); err != nil {
		return fmt.Errorf("drop all: delete tables: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("drop all: commit: %w", err)
	}
	return nil
}

// SweepExpired transitions every Active record whose expiry is at or before
// now to Expired, in all tables. Returns the number of records transitioned.
func (s *Store) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE records
		SET lifecycle = 'expired', value = ''
		WHERE lifecycle = 'active' AND expires_at IS NOT NULL AND expires_at <= ?
	`, toUnix(now))
	if err != nil {
		return 0, fmt.Errorf("sweep expired: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweep expired: rows affected: %w", err)
	}
	return n, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if version < 2 {
		if err := migrateToV2(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the partial index used by SweepExpired.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_records_active_expiry
		ON records(expires_at)
		WHERE lifecycle = 'active' AND expires_at IS NOT NULL
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// migrateToV2 rescales stored timestamps from nanoseconds to microseconds.
func migrateToV2(db *sql.DB) error {
	_, err := db.Exec(`
		UPDATE records SET
			date_added = date_added / 1000,
			date_modified = date_modified / 1000,
			expires_at = expires_at / 1000;
		UPDATE kv_tables SET created_at = created_at / 1000;
	`)
	if err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

// Bounds of the instants a timestamp column can hold.
var (
	minStoredTime = time.UnixMicro(math.MinInt64)
	maxStoredTime = time.UnixMicro(math.MaxInt64)
)

// checkTime rejects instants outside the range of a Unix microsecond int64.
func checkTime(t time.Time) error {
	if t.Before(minStoredTime) || t.After(maxStoredTime) {
		return fmt.Errorf("%w: %s", ErrTimeOutOfRange, t.UTC().Format(time.RFC3339))
	}
	return nil
}

func toUnix(t time.Time) int64 {
	return t.UnixMicro()
}

func fromUnix(n int64) time.Time {
	return time.UnixMicro(n).UTC()
}

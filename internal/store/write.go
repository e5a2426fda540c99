package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/simpledb/internal/record"
)

// Table is a handle on one named table of a Store.
// Handles are cheap; the table exists in storage once it holds a record.
type Table struct {
	store *Store
	name  string
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Put creates or overwrites the Active record for key.
//
// DateModified is always set to now. DateAdded is set to now when the key has
// no record, when its record is a tombstone, or when its Active record had
// already reached its expiry; otherwise the original DateAdded is kept.
// The table row is created on first write.
func (t *Table) Put(ctx context.Context, key, value string, expiresAt *time.Time, now time.Time) error {
	if err := checkTime(now); err != nil {
		return fmt.Errorf("put %s/%s: %w", t.name, key, err)
	}
	if expiresAt != nil {
		if err := checkTime(*expiresAt); err != nil {
			return fmt.Errorf("put %s/%s: expiry: %w", t.name, key, err)
		}
	}

	tx, err := t.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put %s/%s: begin tx: %w", t.name, key, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO kv_tables (name, created_at)
		VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, t.name, toUnix(now))
	if err != nil {
		return fmt.Errorf("put %s/%s: register table: %w", t.name, key, err)
	}

	dateAdded := now
	existing, found, err := getRecord(ctx, tx, t.name, key)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", t.name, key, err)
	}
	if found && existing.Lifecycle == record.Active && !existing.ExpiredAt(now) {
		dateAdded = existing.DateAdded
	}

	var expires sql.NullInt64
	if expiresAt != nil {
		expires = sql.NullInt64{Int64: toUnix(*expiresAt), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records
		(table_name, key, value, date_added, date_modified, expires_at, lifecycle)
		VALUES (?, ?, ?, ?, ?, ?, 'active')
		ON CONFLICT(table_name, key) DO UPDATE SET
			value = excluded.value,
			date_added = excluded.date_added,
			date_modified = excluded.date_modified,
			expires_at = excluded.expires_at,
			lifecycle = 'active'
	`,
		t.name,
		key,
		value,
		toUnix(dateAdded),
		toUnix(now),
		expires,
	)
	if err != nil {
		return fmt.Errorf("put %s/%s: upsert: %w", t.name, key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put %s/%s: commit: %w", t.name, key, err)
	}
	return nil
}

// MarkDeleted transitions an Active record to Deleted and clears its value.
// Timestamps are left unchanged.
//
// Returns ErrNoRecord if the key has no record. A key that is already a
// tombstone is left as it is.
func (t *Table) MarkDeleted(ctx context.Context, key string) error {
	return t.transition(ctx, key, record.Deleted)
}

// MarkExpired transitions an Active record to Expired and clears its value.
// Returns ErrNoRecord if the key has no record.
func (t *Table) MarkExpired(ctx context.Context, key string) error {
	return t.transition(ctx, key, record.Expired)
}

func (t *Table) transition(ctx context.Context, key string, to record.Lifecycle) error {
	result, err := t.store.db.ExecContext(ctx, `
		UPDATE records
		SET lifecycle = ?, value = ''
		WHERE table_name = ? AND key = ? AND lifecycle = 'active'
	`, to.String(), t.name, key)
	if err != nil {
		return fmt.Errorf("mark %s %s/%s: %w", to, t.name, key, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark %s %s/%s: rows affected: %w", to, t.name, key, err)
	}
	if n > 0 {
		return nil
	}

	// Nothing updated: either no record at all, or already a tombstone.
	_, found, err := getRecord(ctx, t.store.db, t.name, key)
	if err != nil {
		return fmt.Errorf("mark %s %s/%s: %w", to, t.name, key, err)
	}
	if !found {
		return ErrNoRecord
	}
	return nil
}

// Drop removes the table and every record in it, tombstones included.
func (t *Table) Drop(ctx context.Context) error {
	tx, err := t.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("drop %s: begin tx: %w", t.name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE table_name = ?`, t.name); err != nil {
		return fmt.Errorf("drop %s: delete records: %w", t.name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM kv_tables WHERE name = ?`, t.name); err != nil {
		return fmt.Errorf("drop %s: delete table: %w", t.name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("drop %s: commit: %w", t.name, err)
	}
	return nil
}

// IsNoRecord reports whether err means the key had no record.
func IsNoRecord(err error) bool {
	return errors.Is(err, ErrNoRecord)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/simpledb/internal/record"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const recordColumns = `seq, table_name, key, value, date_added, date_modified, expires_at, lifecycle`

// Get returns the record for key in any lifecycle. found is false when the
// key has no record. Get never resolves expiry; an Active record past its
// ExpiresAt is returned as stored.
func (t *Table) Get(ctx context.Context, key string) (rec record.Record, found bool, err error) {
	rec, found, err = getRecord(ctx, t.store.db, t.name, key)
	if err != nil {
		return record.Record{}, false, fmt.Errorf("get %s/%s: %w", t.name, key, err)
	}
	return rec, found, nil
}

// Records returns every record of the table, tombstones included, in storage
// order: seq ASC, key COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) if the table has no records.
func (t *Table) Records(ctx context.Context) ([]record.Record, error) {
	rows, err := t.store.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE table_name = ?
		ORDER BY seq ASC, key COLLATE BINARY ASC
	`, t.name)
	if err != nil {
		return nil, fmt.Errorf("query records %s: %w", t.name, err)
	}
	defer rows.Close()

	records := []record.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records %s: %w", t.name, err)
	}

	return records, nil
}

func getRecord(ctx context.Context, q querier, table, key string) (record.Record, bool, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE table_name = ? AND key = ?
	`, table, key)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, false, nil
	}
	if err != nil {
		return record.Record{}, false, err
	}
	return rec, true, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans one row of recordColumns into a Record.
// sql.ErrNoRows is returned unwrapped so callers can detect a miss.
func scanRecord(row scanner) (record.Record, error) {
	var rec record.Record
	var dateAdded, dateModified int64
	var expiresAt sql.NullInt64
	var lifecycle string

	if err := row.Scan(
		&rec.Seq, &rec.Table, &rec.Key, &rec.Value,
		&dateAdded, &dateModified, &expiresAt, &lifecycle,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record.Record{}, err
		}
		return record.Record{}, fmt.Errorf("scan record: %w", err)
	}

	l, err := record.ParseLifecycle(lifecycle)
	if err != nil {
		return record.Record{}, fmt.Errorf("scan record %s/%s: %w", rec.Table, rec.Key, err)
	}

	rec.Lifecycle = l
	rec.DateAdded = fromUnix(dateAdded)
	rec.DateModified = fromUnix(dateModified)
	if expiresAt.Valid {
		t := fromUnix(expiresAt.Int64)
		rec.ExpiresAt = &t
	}
	return rec, nil
}

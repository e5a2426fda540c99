package engine

import (
	"fmt"
	"time"

	"github.com/roach88/simpledb/internal/codec"
	"github.com/roach88/simpledb/internal/record"
	"github.com/roach88/simpledb/internal/status"
)

// SetValue stores value for key in table, creating the table on first write.
//
// If the key already holds a readable value it is replaced and its DateAdded
// kept. A deleted or expired key starts a fresh lifecycle. expiresAt is
// optional; once reached the key reads as KeyAutoDeleted.
func (e *Engine) SetValue(value, key, table string, expiresAt *time.Time) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.finish(e.setLocked(value, key, table, expiresAt))
}

// SetDictionary stores m as canonical JSON for key in table.
func (e *Engine) SetDictionary(m map[string]any, key, table string, expiresAt *time.Time) Result {
	data, err := codec.MarshalCanonical(m)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		return e.finish(failed(status.WriteError, fmt.Errorf("encode dictionary: %w", err)))
	}
	return e.finish(e.setLocked(string(data), key, table, expiresAt))
}

func (e *Engine) setLocked(value, key, table string, expiresAt *time.Time) Result {
	if res, open := e.checkOpen(); !open {
		return res
	}
	if table == "" || key == "" {
		return failed(status.WriteError, ErrEmptyName)
	}

	tbl, exists := e.tables.resolve(table)
	if err := tbl.Put(background(), key, value, expiresAt, e.clock.Now()); err != nil {
		e.logger.Error("write failed", "op", "set", "table", table, "key", key, "error", err)
		return failed(status.WriteError, err)
	}
	if !exists {
		e.tables.add(tbl)
		e.logger.Debug("table created", "table", table)
	}
	return ok()
}

// DeleteForKey removes key from table, keeping a tombstone so later reads
// report KeyDeleted.
//
// Deleting is idempotent: a key that is already deleted or expired keeps its
// tombstone, and a key that never existed stays absent. An Active key whose
// expiry has already passed is recorded as Expired, its true state.
func (e *Engine) DeleteForKey(key, table string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if res, open := e.checkOpen(); !open {
		return e.finish(res)
	}
	if table == "" || key == "" {
		return e.finish(failed(status.WriteError, ErrEmptyName))
	}

	tbl, exists := e.tables.lookup(table)
	if !exists {
		return e.finish(ok())
	}
	ctx := background()

	rec, found, err := tbl.Get(ctx, key)
	if err != nil {
		e.logger.Error("write failed", "op", "delete", "table", table, "key", key, "error", err)
		return e.finish(failed(status.WriteError, err))
	}
	if !found || rec.Lifecycle != record.Active {
		return e.finish(ok())
	}

	if rec.ExpiredAt(e.clock.Now()) {
		err = tbl.MarkExpired(ctx, key)
	} else {
		err = tbl.MarkDeleted(ctx, key)
	}
	if err != nil {
		e.logger.Error("write failed", "op", "delete", "table", table, "key", key, "error", err)
		return e.finish(failed(status.WriteError, err))
	}

	e.logger.Debug("key deleted", "table", table, "key", key)
	return e.finish(ok())
}

// DropTable removes table with every record and tombstone in it. A later
// write to the same name starts from scratch.
func (e *Engine) DropTable(table string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if res, open := e.checkOpen(); !open {
		return e.finish(res)
	}
	if table == "" {
		return e.finish(failed(status.WriteError, ErrEmptyName))
	}

	if err := e.tables.drop(background(), table); err != nil {
		e.logger.Error("write failed", "op", "drop", "table", table, "error", err)
		return e.finish(failed(status.WriteError, err))
	}

	e.logger.Debug("table dropped", "table", table)
	return e.finish(ok())
}

// DropAllTables removes every table.
func (e *Engine) DropAllTables() Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if res, open := e.checkOpen(); !open {
		return e.finish(res)
	}

	if err := e.tables.dropAll(background()); err != nil {
		e.logger.Error("write failed", "op", "drop_all", "error", err)
		return e.finish(failed(status.WriteError, err))
	}

	e.logger.Debug("all tables dropped")
	return e.finish(ok())
}

// Sweep eagerly moves every Active record past its expiry to Expired, in all
// tables. Reads already do this lazily per key; Sweep is the maintenance
// alternative for callers that want tombstones written ahead of reads.
// Returns the number of records transitioned.
func (e *Engine) Sweep() (int, Result) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if res, open := e.checkOpen(); !open {
		return 0, e.finish(res)
	}

	n, err := e.store.SweepExpired(background(), e.clock.Now())
	if err != nil {
		e.logger.Error("write failed", "op", "sweep", "error", err)
		return 0, e.finish(failed(status.WriteError, err))
	}

	if n > 0 {
		e.logger.Debug("expired records swept", "count", n)
	}
	return int(n), e.finish(ok())
}

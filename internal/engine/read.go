package engine

import (
	"time"

	"github.com/roach88/simpledb/internal/codec"
	"github.com/roach88/simpledb/internal/enumerate"
	"github.com/roach88/simpledb/internal/lifecycle"
	"github.com/roach88/simpledb/internal/record"
	"github.com/roach88/simpledb/internal/status"
)

// HasKey reports whether key currently holds a readable value in table.
// Tombstoned and expired keys report false. The status is NoError unless
// the store fails (ReadError); a missing key is not signalled.
func (e *Engine) HasKey(table, key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if res, open := e.checkOpen(); !open {
		e.finish(res)
		return false
	}
	if table == "" || key == "" {
		e.finish(ok())
		return false
	}

	tbl, exists := e.tables.lookup(table)
	if !exists {
		e.finish(ok())
		return false
	}

	rec, found, err := tbl.Get(background(), key)
	if err != nil {
		e.logger.Error("read failed", "op", "has", "table", table, "key", key, "error", err)
		e.finish(failed(status.ReadError, err))
		return false
	}

	e.finish(ok())
	return found && lifecycle.IsLive(rec, e.clock.Now())
}

// ValueForKey returns the value stored for key in table.
//
// found is false and Result.Status explains why when the key never existed
// (KeyNotFound), was deleted (KeyDeleted) or expired (KeyAutoDeleted). Reading
// an Active key past its expiry stores it as Expired.
func (e *Engine) ValueForKey(table, key string) (value string, res Result) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value, res = e.readLocked(table, key)
	return value, e.finish(res)
}

// DictionaryValueForKey returns the value for key decoded as a JSON object.
// A value that is not a JSON object reports ReadError.
func (e *Engine) DictionaryValueForKey(table, key string) (map[string]any, Result) {
	var m map[string]any
	res := e.decodeValue(table, key, func(value string) (Result, error) {
		decoded, err := codec.DecodeMap(value)
		if err != nil {
			return Result{}, err
		}
		m = decoded
		return ok(), nil
	})
	return m, res
}

// JSONValueForKey returns the top-level field jsonField of the JSON object
// stored for key. A payload without that field reports KeyNotFound; a payload
// that is not a JSON object reports ReadError.
func (e *Engine) JSONValueForKey(jsonField, table, key string) (any, Result) {
	var v any
	res := e.decodeValue(table, key, func(value string) (Result, error) {
		field, found, err := codec.Field(value, jsonField)
		if err != nil {
			return Result{}, err
		}
		if !found {
			return miss(status.KeyNotFound), nil
		}
		v = field
		return ok(), nil
	})
	return v, res
}

// KeysInTable returns every readable key of table in storage order.
func (e *Engine) KeysInTable(table string) []string {
	keys, _ := e.Keys(table, enumerate.Options{})
	return keys
}

// Keys returns the readable keys of table, filtered and ordered per opts.
//
// The records are snapshotted inside the critical section; filtering and
// sorting run on the snapshot after the lock is released, so opts.Filter may
// call back into the engine. The status is published once the list is
// complete. The result is never nil.
func (e *Engine) Keys(table string, opts enumerate.Options) ([]string, Result) {
	records, now, res := e.snapshot(table)
	if !res.OK() {
		return []string{}, res
	}

	keys := enumerate.Keys(records, now, opts)

	e.mu.Lock()
	defer e.mu.Unlock()
	return keys, e.finish(ok())
}

// Tables returns the names of every table holding records, tombstones
// included, in binary order. The list comes from the table registry.
func (e *Engine) Tables() ([]string, Result) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if res, open := e.checkOpen(); !open {
		return []string{}, e.finish(res)
	}

	return e.tables.names(), e.finish(ok())
}

func (e *Engine) snapshot(table string) ([]record.Record, time.Time, Result) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if res, open := e.checkOpen(); !open {
		return nil, now, e.finish(res)
	}
	tbl, exists := e.tables.lookup(table)
	if !exists {
		return nil, now, ok()
	}

	records, err := tbl.Records(background())
	if err != nil {
		e.logger.Error("read failed", "op", "keys", "table", table, "error", err)
		return nil, now, e.finish(failed(status.ReadError, err))
	}
	return records, now, ok()
}

// decodeValue reads key and hands a found value to decode, all within one
// critical section. A decode error becomes ReadError.
func (e *Engine) decodeValue(table, key string, decode func(value string) (Result, error)) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	value, res := e.readLocked(table, key)
	if !res.OK() {
		return e.finish(res)
	}

	res, err := decode(value)
	if err != nil {
		e.logger.Debug("value did not decode", "table", table, "key", key, "error", err)
		return e.finish(failed(status.ReadError, err))
	}
	return e.finish(res)
}

// readLocked resolves key in table. Must be called with e.mu held.
func (e *Engine) readLocked(table, key string) (string, Result) {
	if res, open := e.checkOpen(); !open {
		return "", res
	}
	if table == "" || key == "" {
		return "", failed(status.ReadError, ErrEmptyName)
	}

	tbl, exists := e.tables.lookup(table)
	if !exists {
		return "", miss(status.KeyNotFound)
	}
	ctx := background()

	rec, found, err := tbl.Get(ctx, key)
	if err != nil {
		e.logger.Error("read failed", "op", "get", "table", table, "key", key, "error", err)
		return "", failed(status.ReadError, err)
	}

	resolution := lifecycle.Resolve(rec, found, e.clock.Now())
	if resolution.Expire {
		if err := tbl.MarkExpired(ctx, key); err != nil {
			e.logger.Error("write failed", "op", "expire", "table", table, "key", key, "error", err)
			return "", failed(status.WriteError, err)
		}
		e.logger.Debug("key expired on read", "table", table, "key", key)
	}

	if resolution.Status != status.NoError {
		return "", miss(resolution.Status)
	}
	return resolution.Value, ok()
}

// Package lifecycle resolves a stored record into the outcome a reader sees.
//
// Expiry is lazy: nothing watches the clock. An Active record whose ExpiresAt
// has passed still looks Active in storage until a read resolves it. Resolve
// tells the caller to write the Expired transition through, so by the time
// anyone reads an expired key it is both reported and stored as Expired.
package lifecycle

import (
	"time"

	"github.com/roach88/simpledb/internal/record"
	"github.com/roach88/simpledb/internal/status"
)

// Resolution is the caller-facing outcome of a read.
type Resolution struct {
	Status status.Status
	// Value is set only when Status is NoError.
	Value string
	// Found is true when a value is returned.
	Found bool
	// Expire asks the caller to transition the stored record to Expired
	// within the same critical section as the read.
	Expire bool
}

// Resolve applies the read rules to rec. found is false when no record exists
// for the key.
//
//  1. no record                        -> KeyNotFound
//  2. Deleted                          -> KeyDeleted
//  3. Active with ExpiresAt <= now     -> KeyAutoDeleted, Expire set
//  4. Expired                          -> KeyAutoDeleted
//  5. Active, not expired              -> value, NoError
func Resolve(rec record.Record, found bool, now time.Time) Resolution {
	if !found {
		return Resolution{Status: status.KeyNotFound}
	}

	switch rec.Lifecycle {
	case record.Deleted:
		return Resolution{Status: status.KeyDeleted}
	case record.Expired:
		return Resolution{Status: status.KeyAutoDeleted}
	}

	if rec.ExpiredAt(now) {
		return Resolution{Status: status.KeyAutoDeleted, Expire: true}
	}

	return Resolution{Status: status.NoError, Value: rec.Value, Found: true}
}

// IsLive reports whether rec would resolve to a value at now.
// It never asks for a write, so listings can use it without side effects.
func IsLive(rec record.Record, now time.Time) bool {
	return rec.Lifecycle == record.Active && !rec.ExpiredAt(now)
}

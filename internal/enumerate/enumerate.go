// Package enumerate lists the live keys of a table with optional filtering
// and ordering by a field of their JSON values.
package enumerate

import (
	"sort"
	"time"

	"github.com/roach88/simpledb/internal/codec"
	"github.com/roach88/simpledb/internal/lifecycle"
	"github.com/roach88/simpledb/internal/record"
)

// Predicate decides whether a key is included. It receives the original key
// and value as stored.
type Predicate func(e record.Entry) bool

// Options controls filtering and ordering. The zero value lists every live
// key in storage order.
type Options struct {
	// OrderBy names a top-level field of each JSON value to sort by.
	// Values without the field, or that are not JSON, sort as "".
	OrderBy string
	// Descending reverses the sort. Ignored when OrderBy is empty.
	Descending bool
	// Filter excludes keys for which it returns false. Optional.
	Filter Predicate
}

// Keys returns the keys of the live records in records, filtered and
// ordered per opts.
//
// records must be in storage order; ties on the sort key keep that order.
// The result is a fresh slice, never nil, and is not affected by later writes.
func Keys(records []record.Record, now time.Time, opts Options) []string {
	type candidate struct {
		key     string
		sortKey string
	}

	candidates := make([]candidate, 0, len(records))
	for _, rec := range records {
		if !lifecycle.IsLive(rec, now) {
			continue
		}
		if opts.Filter != nil && !opts.Filter(rec.Entry()) {
			continue
		}
		c := candidate{key: rec.Key}
		if opts.OrderBy != "" {
			c.sortKey = codec.SortKey(rec.Value, opts.OrderBy)
		}
		candidates = append(candidates, c)
	}

	if opts.OrderBy != "" {
		sort.SliceStable(candidates, func(i, j int) bool {
			if opts.Descending {
				return candidates[i].sortKey > candidates[j].sortKey
			}
			return candidates[i].sortKey < candidates[j].sortKey
		})
	}

	keys := make([]string, len(candidates))
	for i, c := range candidates {
		keys[i] = c.key
	}
	return keys
}

// FieldEquals returns a predicate matching values whose field sorts equal to
// want. It backs the CLI --where flag.
func FieldEquals(field, want string) Predicate {
	return func(e record.Entry) bool {
		return codec.SortKey(e.Value, field) == want
	}
}

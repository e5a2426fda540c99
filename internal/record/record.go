package record

import (
	"fmt"
	"time"
)

// Lifecycle is the state of a Record.
type Lifecycle int

const (
	// Active records are readable.
	Active Lifecycle = iota
	// Deleted records were removed by an explicit delete.
	Deleted
	// Expired records passed their ExpiresAt instant.
	Expired
)

// String returns the on-disk form of the lifecycle.
func (l Lifecycle) String() string {
	switch l {
	case Active:
		return "active"
	case Deleted:
		return "deleted"
	case Expired:
		return "expired"
	default:
		return fmt.Sprintf("lifecycle(%d)", int(l))
	}
}

// ParseLifecycle converts the on-disk form back into a Lifecycle.
func ParseLifecycle(s string) (Lifecycle, error) {
	switch s {
	case "active":
		return Active, nil
	case "deleted":
		return Deleted, nil
	case "expired":
		return Expired, nil
	default:
		return 0, fmt.Errorf("unknown lifecycle %q", s)
	}
}

// Record is the stored entry for one (table, key) pair.
type Record struct {
	Table        string
	Key          string
	Value        string
	DateAdded    time.Time
	DateModified time.Time
	ExpiresAt    *time.Time // nil if the record never expires
	Lifecycle    Lifecycle

	// Seq is the creation order of the key within the store. Enumeration
	// uses it as the stable base order.
	Seq int64
}

// IsTombstone reports whether the record is Deleted or Expired.
func (r Record) IsTombstone() bool {
	return r.Lifecycle == Deleted || r.Lifecycle == Expired
}

// ExpiredAt reports whether an Active record has reached its expiry at now.
// Tombstones always report false; their state is already final.
func (r Record) ExpiredAt(now time.Time) bool {
	if r.Lifecycle != Active || r.ExpiresAt == nil {
		return false
	}
	return !r.ExpiresAt.After(now)
}

// Entry returns the predicate view of the record.
func (r Record) Entry() Entry {
	return Entry{
		Key:          r.Key,
		Value:        r.Value,
		DateAdded:    r.DateAdded,
		DateModified: r.DateModified,
	}
}

// Entry is what enumeration predicates see for a candidate key.
type Entry struct {
	Key          string
	Value        string
	DateAdded    time.Time
	DateModified time.Time
}

// Package status holds the outcome codes reported by every engine operation.
package status

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Status is the outcome of one engine operation.
type Status int32

const (
	NoError Status = iota
	KeyNotFound
	KeyDeleted
	KeyAutoDeleted
	ReadError
	WriteError
	CannotOpenDB
)

// Sentinel errors matching each non-success status.
var (
	ErrKeyNotFound    = errors.New("key not found")
	ErrKeyDeleted     = errors.New("key deleted")
	ErrKeyAutoDeleted = errors.New("key expired")
	ErrRead           = errors.New("read error")
	ErrWrite          = errors.New("write error")
	ErrCannotOpenDB   = errors.New("cannot open database")
)

func (s Status) String() string {
	switch s {
	case NoError:
		return "NoError"
	case KeyNotFound:
		return "KeyNotFound"
	case KeyDeleted:
		return "KeyDeleted"
	case KeyAutoDeleted:
		return "KeyAutoDeleted"
	case ReadError:
		return "ReadError"
	case WriteError:
		return "WriteError"
	case CannotOpenDB:
		return "CannotOpenDB"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}

// Parse converts a status name back into a Status.
func Parse(name string) (Status, error) {
	for s := NoError; s <= CannotOpenDB; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}

// Err returns the sentinel error for s, or nil for NoError.
func (s Status) Err() error {
	switch s {
	case NoError:
		return nil
	case KeyNotFound:
		return ErrKeyNotFound
	case KeyDeleted:
		return ErrKeyDeleted
	case KeyAutoDeleted:
		return ErrKeyAutoDeleted
	case ReadError:
		return ErrRead
	case WriteError:
		return ErrWrite
	case CannotOpenDB:
		return ErrCannotOpenDB
	default:
		return fmt.Errorf("unknown status %d", int32(s))
	}
}

// Terminal reports whether the status leaves the engine unusable.
func (s Status) Terminal() bool {
	return s == CannotOpenDB
}

// Reporter holds the status of the most recently completed operation.
//
// The engine writes it inside the same critical section as the data change it
// describes. Reads are atomic but only meaningful when a single goroutine owns
// the engine handle; concurrent callers should use the per-call Result instead.
type Reporter struct {
	last atomic.Int32
}

// Set records s as the latest outcome.
func (r *Reporter) Set(s Status) {
	r.last.Store(int32(s))
}

// Last returns the latest outcome. A fresh Reporter reports NoError.
func (r *Reporter) Last() Status {
	return Status(r.last.Load())
}

package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/simpledb/internal/status"
)

var (
	// ErrEmptyName is reported when a table or key name is empty.
	ErrEmptyName = errors.New("table and key names must be non-empty")

	// ErrClosed is reported for calls on a closed engine.
	ErrClosed = errors.New("engine is closed")
)

// Result is the outcome of one engine call.
//
// Err is nil exactly when Status is NoError. For miss statuses it is the
// matching sentinel (status.ErrKeyDeleted, ...). For ReadError, WriteError
// and CannotOpenDB it wraps both the sentinel and the underlying cause, so
// errors.Is works against either.
type Result struct {
	Status status.Status
	Err    error
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Status == status.NoError
}

func ok() Result {
	return Result{Status: status.NoError}
}

func miss(s status.Status) Result {
	return Result{Status: s, Err: s.Err()}
}

func failed(s status.Status, cause error) Result {
	return Result{Status: s, Err: fmt.Errorf("%w: %w", s.Err(), cause)}
}

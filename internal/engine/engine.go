package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/simpledb/internal/guid"
	"github.com/roach88/simpledb/internal/status"
	"github.com/roach88/simpledb/internal/store"
)

// Engine is a handle on one open database.
//
// Thread-safety model:
//   - every operation is serialized by one mutex, reads included, because a
//     read may write an expiry transition
//   - the Result returned by each call is private to that call
//   - Status() returns the last status published by any call
type Engine struct {
	mu       sync.Mutex
	store    *store.Store
	tables   *registry
	reporter status.Reporter

	clock       Clock
	guids       guid.Generator
	logger      *slog.Logger
	driver      string
	sweepOnOpen bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for timestamps and expiry.
// Default: SystemClock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithGUIDGenerator sets the generator behind GUID(). Default: guid.UUIDv7.
func WithGUIDGenerator(g guid.Generator) Option {
	return func(e *Engine) {
		e.guids = g
	}
}

// WithDriver selects the SQLite driver used by Open (store.DriverCGO or
// store.DriverPureGo). Ignored by New.
func WithDriver(driver string) Option {
	return func(e *Engine) {
		e.driver = driver
	}
}

// WithSweepOnOpen makes Open run an eager expiry sweep before returning.
func WithSweepOnOpen(enabled bool) Option {
	return func(e *Engine) {
		e.sweepOnOpen = enabled
	}
}

func newEngine(opts ...Option) *Engine {
	e := &Engine{
		clock:  SystemClock{},
		guids:  guid.UUIDv7{},
		logger: slog.Default(),
		driver: store.DriverCGO,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open opens or creates the database at path and returns an engine on it.
//
// If the database cannot be opened the error wraps status.ErrCannotOpenDB;
// callers should treat that as terminal for the session.
func Open(path string, opts ...Option) (*Engine, error) {
	e := newEngine(opts...)

	st, err := store.Open(path, store.WithDriver(e.driver))
	if err != nil {
		e.logger.Error("cannot open database", "path", path, "driver", e.driver, "error", err)
		return nil, fmt.Errorf("%w: %w", status.ErrCannotOpenDB, err)
	}
	e.store = st
	if e.tables, err = loadRegistry(background(), st); err != nil {
		st.Close()
		e.logger.Error("cannot open database", "path", path, "driver", e.driver, "error", err)
		return nil, fmt.Errorf("%w: %w", status.ErrCannotOpenDB, err)
	}
	e.logger.Debug("database opened", "path", path, "driver", e.driver, "tables", e.tables.tables.Len())

	if e.sweepOnOpen {
		if _, res := e.Sweep(); !res.OK() {
			st.Close()
			return nil, fmt.Errorf("%w: initial sweep: %w", status.ErrCannotOpenDB, res.Err)
		}
	}

	return e, nil
}

// New creates an engine on an already open store. The engine does not own
// the store until Close is called on the engine. The engine must be the
// store's only writer.
func New(st *store.Store, opts ...Option) (*Engine, error) {
	e := newEngine(opts...)
	tables, err := loadRegistry(background(), st)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", status.ErrCannotOpenDB, err)
	}
	e.store = st
	e.tables = tables
	return e, nil
}

// Close closes the underlying store. Calls after Close report CannotOpenDB.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	e.tables = nil
	return err
}

// Status returns the status of the most recently completed operation.
func (e *Engine) Status() status.Status {
	return e.reporter.Last()
}

// GUID returns a new unique identifier suitable for use as a key.
// It does not touch the database or the status.
func (e *Engine) GUID() string {
	return e.guids.Generate()
}

// finish publishes res as the latest status. Must be called with e.mu held,
// as the last step of the critical section.
func (e *Engine) finish(res Result) Result {
	e.reporter.Set(res.Status)
	return res
}

// checkOpen returns a failure Result if the engine has no store.
func (e *Engine) checkOpen() (Result, bool) {
	if e.store == nil {
		return failed(status.CannotOpenDB, ErrClosed), false
	}
	return Result{}, true
}

// background is the context for store calls. Engine operations are not
// cancellable; callers needing bounded latency impose it externally.
func background() context.Context {
	return context.Background()
}

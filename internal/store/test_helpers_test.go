package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err, "Open() failed")
	t.Cleanup(func() { s.Close() })
	return s
}

// baseTime is a fixed wall clock for deterministic timestamps.
var baseTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func at(d time.Duration) time.Time {
	return baseTime.Add(d)
}

func ptr(t time.Time) *time.Time {
	return &t
}

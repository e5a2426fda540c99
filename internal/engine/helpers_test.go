package engine

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/simpledb/internal/testutil"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock(testutil.Epoch)
	all := append([]Option{
		WithClock(clock),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)

	e, err := Open(filepath.Join(t.TempDir(), "test.db"), all...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e, clock
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simpledb/internal/record"
)

func TestGet_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, found, err := s.Table("t").Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGet_TableIsolation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Table("a").Put(ctx, "k", "from-a", nil, baseTime))
	require.NoError(t, s.Table("b").Put(ctx, "k", "from-b", nil, baseTime))

	recA, _, err := s.Table("a").Get(ctx, "k")
	require.NoError(t, err)
	recB, _, err := s.Table("b").Get(ctx, "k")
	require.NoError(t, err)

	assert.Equal(t, "from-a", recA.Value)
	assert.Equal(t, "from-b", recB.Value)

	_, found, err := s.Table("A").Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "table names are case-sensitive")
}

func TestGet_DoesNotResolveExpiry(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := s.Table("t")

	require.NoError(t, tbl.Put(ctx, "k", "v", ptr(baseTime), baseTime))

	rec, found, err := tbl.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, record.Active, rec.Lifecycle)
	assert.Equal(t, "v", rec.Value)
}

func TestRecords_StorageOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := s.Table("t")

	for _, key := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, tbl.Put(ctx, key, "v", nil, baseTime))
	}
	require.NoError(t, tbl.MarkDeleted(ctx, "alpha"))
	// Updating keeps the original position.
	require.NoError(t, tbl.Put(ctx, "zeta", "v2", nil, baseTime))

	records, err := tbl.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = r.Key
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)
	assert.Equal(t, record.Deleted, records[1].Lifecycle)
	assert.Less(t, records[0].Seq, records[2].Seq)
}

func TestRecords_EmptyTable(t *testing.T) {
	s := createTestStore(t)

	records, err := s.Table("empty").Records(context.Background())
	require.NoError(t, err)
	require.NotNil(t, records)
	assert.Empty(t, records)
}

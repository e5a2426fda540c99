package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simpledb/internal/record"
)

func TestPut_CreatesActiveRecord(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := s.Table("people")

	require.NoError(t, tbl.Put(ctx, "p1", `{"name":"Ada"}`, nil, baseTime))

	rec, found, err := tbl.Get(ctx, "p1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "people", rec.Table)
	assert.Equal(t, "p1", rec.Key)
	assert.Equal(t, `{"name":"Ada"}`, rec.Value)
	assert.Equal(t, record.Active, rec.Lifecycle)
	assert.True(t, rec.DateAdded.Equal(baseTime))
	assert.True(t, rec.DateModified.Equal(baseTime))
	assert.Nil(t, rec.ExpiresAt)
}

func TestPut_UpdatePreservesDateAdded(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := s.Table("t")

	require.NoError(t, tbl.Put(ctx, "k", "v1", ptr(at(time.Hour)), baseTime))
	require.NoError(t, tbl.Put(ctx, "k", "v2", nil, at(time.Minute)))

	rec, _, err := tbl.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", rec.Value)
	assert.True(t, rec.DateAdded.Equal(baseTime), "DateAdded must survive updates")
	assert.True(t, rec.DateModified.Equal(at(time.Minute)))
	assert.Nil(t, rec.ExpiresAt, "update replaces expiry")
}

func TestPut_SingleRecordPerKey(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := s.Table("t")

	for i := 0; i < 5; i++ {
		require.NoError(t, tbl.Put(ctx, "k", "v", nil, at(time.Duration(i)*time.Second)))
	}

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM records WHERE table_name = 't' AND key = 'k'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestPut_RecreateAfterDeleteResetsDateAdded(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := s.Table("t")

	require.NoError(t, tbl.Put(ctx, "k", "v1", nil, baseTime))
	require.NoError(t, tbl.MarkDeleted(ctx, "k"))
	require.NoError(t, tbl.Put(ctx, "k", "v2", nil, at(time.Hour)))

	rec, _, err := tbl.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, record.Active, rec.Lifecycle)
	assert.Equal(t, "v2", rec.Value)
	assert.True(t, rec.DateAdded.Equal(at(time.Hour)))
}

func TestPut_RecreateAfterExpiryResetsDateAdded(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := s.Table("t")

	require.NoError(t, tbl.Put(ctx, "k", "v1", ptr(at(time.Minute)), baseTime))

	// Expiry passed but nobody read the key yet: still stored Active.
	require.NoError(t, tbl.Put(ctx, "k", "v2", nil, at(2*time.Minute)))

	rec, _, err := tbl.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, rec.DateAdded.Equal(at(2*time.Minute)))

	require.NoError(t, tbl.MarkExpired(ctx, "k"))
	require.NoError(t, tbl.Put(ctx, "k", "v3", nil, at(3*time.Minute)))

	rec, _, err = tbl.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v3", rec.Value)
	assert.True(t, rec.DateAdded.Equal(at(3*time.Minute)))
}

func TestMarkDeleted(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := s.Table("t")

	require.NoError(t, tbl.Put(ctx, "k", "secret", nil, baseTime))
	require.NoError(t, tbl.MarkDeleted(ctx, "k"))

	rec, found, err := tbl.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found, "tombstone must be retained")
	assert.Equal(t, record.Deleted, rec.Lifecycle)
	assert.Empty(t, rec.Value)
	assert.True(t, rec.DateAdded.Equal(baseTime))
	assert.True(t, rec.DateModified.Equal(baseTime))
}

func TestMarkDeleted_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := s.Table("t")

	require.NoError(t, tbl.Put(ctx, "k", "v", nil, baseTime))
	require.NoError(t, tbl.MarkDeleted(ctx, "k"))
	require.NoError(t, tbl.MarkDeleted(ctx, "k"))

	rec, _, err := tbl.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, record.Deleted, rec.Lifecycle)
}

func TestMarkDeleted_KeepsExpiredTombstone(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := s.Table("t")

	require.NoError(t, tbl.Put(ctx, "k", "v", ptr(at(time.Second)), baseTime))
	require.NoError(t, tbl.MarkExpired(ctx, "k"))
	require.NoError(t, tbl.MarkDeleted(ctx, "k"))

	rec, _, err := tbl.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, record.Expired, rec.Lifecycle)
}

func TestMarkDeleted_NoRecord(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	err := s.Table("t").MarkDeleted(ctx, "missing")
	assert.True(t, IsNoRecord(err))

	err = s.Table("t").MarkExpired(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestDrop(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := s.Table("t")
	other := s.Table("other")

	require.NoError(t, tbl.Put(ctx, "live", "v", nil, baseTime))
	require.NoError(t, tbl.Put(ctx, "dead", "v", nil, baseTime))
	require.NoError(t, tbl.MarkDeleted(ctx, "dead"))
	require.NoError(t, other.Put(ctx, "live", "v", nil, baseTime))

	require.NoError(t, tbl.Drop(ctx))

	records, err := tbl.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	names, err := s.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, names)

	_, found, err := other.Get(ctx, "live")
	require.NoError(t, err)
	assert.True(t, found, "drop must not touch other tables")

	// Recreation is a first write.
	require.NoError(t, tbl.Put(ctx, "live", "v2", nil, at(time.Hour)))
	rec, _, err := tbl.Get(ctx, "live")
	require.NoError(t, err)
	assert.True(t, rec.DateAdded.Equal(at(time.Hour)))
}

func TestDrop_MissingTable(t *testing.T) {
	s := createTestStore(t)
	assert.NoError(t, s.Table("never").Drop(context.Background()))
}

func TestPut_FarFutureExpiryRoundTrips(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := s.Table("t")
	far := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, tbl.Put(ctx, "k", "v", &far, baseTime))

	rec, found, err := tbl.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, rec.ExpiresAt)
	assert.True(t, rec.ExpiresAt.Equal(far), "got %s", rec.ExpiresAt)
	assert.False(t, rec.ExpiredAt(baseTime))

	n, err := s.SweepExpired(ctx, baseTime)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPut_RejectsUnstorableTime(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := s.Table("t")
	beyond := maxStoredTime.Add(time.Hour)

	err := tbl.Put(ctx, "k", "v", &beyond, baseTime)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)

	_, found, err := tbl.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

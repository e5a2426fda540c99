package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/simpledb/internal/record"
	"github.com/roach88/simpledb/internal/status"
)

func TestResolve(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name       string
		rec        record.Record
		found      bool
		wantStatus status.Status
		wantValue  string
		wantFound  bool
		wantExpire bool
	}{
		{
			name:       "missing",
			found:      false,
			wantStatus: status.KeyNotFound,
		},
		{
			name:       "deleted",
			rec:        record.Record{Key: "k", Lifecycle: record.Deleted},
			found:      true,
			wantStatus: status.KeyDeleted,
		},
		{
			name:       "active past expiry",
			rec:        record.Record{Key: "k", Value: "v", Lifecycle: record.Active, ExpiresAt: &past},
			found:      true,
			wantStatus: status.KeyAutoDeleted,
			wantExpire: true,
		},
		{
			name:       "active expiring exactly now",
			rec:        record.Record{Key: "k", Value: "v", Lifecycle: record.Active, ExpiresAt: &now},
			found:      true,
			wantStatus: status.KeyAutoDeleted,
			wantExpire: true,
		},
		{
			name:       "already expired",
			rec:        record.Record{Key: "k", Lifecycle: record.Expired, ExpiresAt: &past},
			found:      true,
			wantStatus: status.KeyAutoDeleted,
		},
		{
			name:       "active future expiry",
			rec:        record.Record{Key: "k", Value: "v", Lifecycle: record.Active, ExpiresAt: &future},
			found:      true,
			wantStatus: status.NoError,
			wantValue:  "v",
			wantFound:  true,
		},
		{
			name:       "active no expiry",
			rec:        record.Record{Key: "k", Value: "", Lifecycle: record.Active},
			found:      true,
			wantStatus: status.NoError,
			wantFound:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.rec, tt.found, now)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantValue, res.Value)
			assert.Equal(t, tt.wantFound, res.Found)
			assert.Equal(t, tt.wantExpire, res.Expire)
		})
	}
}

func TestIsLive(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	assert.True(t, IsLive(record.Record{Lifecycle: record.Active}, now))
	assert.True(t, IsLive(record.Record{Lifecycle: record.Active, ExpiresAt: &future}, now))
	assert.False(t, IsLive(record.Record{Lifecycle: record.Active, ExpiresAt: &past}, now))
	assert.False(t, IsLive(record.Record{Lifecycle: record.Deleted}, now))
	assert.False(t, IsLive(record.Record{Lifecycle: record.Expired}, now))
}

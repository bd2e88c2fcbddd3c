package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/photofolio/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestGeocodeStoreMiss(t *testing.T) {
	s := NewGeocodeStore(openTestDB(t))

	_, found, err := s.Get(context.Background(), "37.5560,126.9780")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGeocodeStorePutAndGet(t *testing.T) {
	s := NewGeocodeStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "37.5560,126.9780", 37.556, 126.978, "Seoul, South Korea"))

	address, found, err := s.Get(ctx, "37.5560,126.9780")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Seoul, South Korea", address)
}

func TestGeocodeStorePutOverwrites(t *testing.T) {
	s := NewGeocodeStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", 1, 2, ""))
	require.NoError(t, s.Put(ctx, "k", 1, 2, "Busan, South Korea"))

	address, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Busan, South Korea", address)
}

func TestRunStoreLatest(t *testing.T) {
	s := NewRunStore(openTestDB(t))
	ctx := context.Background()

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(ctx, Run{ID: "a", StartedAt: start, FinishedAt: start.Add(time.Minute), Processed: 3}))
	require.NoError(t, s.Record(ctx, Run{ID: "b", StartedAt: start, FinishedAt: start.Add(time.Hour), Processed: 5, Failed: 1, Geocoded: 2}))

	latest, err = s.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "b", latest.ID)
	assert.Equal(t, 5, latest.Processed)
	assert.Equal(t, 1, latest.Failed)
	assert.Equal(t, 2, latest.Geocoded)
}

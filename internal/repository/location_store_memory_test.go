package repository

import (
	"context"
	"testing"
	"time"

	"kickabout/internal/models"
	"kickabout/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(entityID string, lat, lng float64) *models.ActiveLocation {
	hash, err := geo.Encode(lat, lng, geo.RecordPrecision)
	if err != nil {
		panic(err)
	}
	return &models.ActiveLocation{
		EntityID:      entityID,
		Geohash:       hash,
		Latitude:      lat,
		Longitude:     lng,
		Mode:          models.SharingStatic,
		IsVisible:     true,
		LastUpdatedAt: time.Now(),
	}
}

func TestMemoryStoreUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLocationStore()

	require.NoError(t, store.Upsert(ctx, record("e1", 16.4322, 102.8236)))
	require.NoError(t, store.Upsert(ctx, record("e1", 51.5074, -0.1278)))

	assert.Equal(t, 1, store.Count())

	got, err := store.GetByEntityID(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 51.5074, got.Latitude)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryLocationStore()
	got, err := store.GetByEntityID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreScanRange(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLocationStore()

	khonKaen := record("kk", 16.4322, 102.8236) // w6cj...
	london := record("ldn", 51.5074, -0.1278)   // gcpv...
	sydney := record("syd", -33.8688, 151.2093) // r3gx...
	require.NoError(t, store.Upsert(ctx, khonKaen))
	require.NoError(t, store.Upsert(ctx, london))
	require.NoError(t, store.Upsert(ctx, sydney))

	prefix := khonKaen.Geohash[:6]
	got, err := store.ScanRange(ctx, prefix, prefix+"~")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kk", got[0].EntityID)

	// Inclusive on both ends: an exact-key range still matches.
	got, err = store.ScanRange(ctx, khonKaen.Geohash, khonKaen.Geohash)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = store.ScanRange(ctx, "0", "zzzzzzzzzz~")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestMemoryStoreScanAfterMove(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLocationStore()

	r := record("e1", 16.4322, 102.8236)
	require.NoError(t, store.Upsert(ctx, r))
	oldPrefix := r.Geohash[:6]

	// Move across the world; the old index window must come up empty.
	require.NoError(t, store.Upsert(ctx, record("e1", 51.5074, -0.1278)))

	got, err := store.ScanRange(ctx, oldPrefix, oldPrefix+"~")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStoreHonorsContext(t *testing.T) {
	store := NewMemoryLocationStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.Upsert(ctx, record("e1", 0, 0)))
	_, err := store.ScanRange(ctx, "0", "z")
	assert.Error(t, err)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLocationStore()
	require.NoError(t, store.Upsert(ctx, record("e1", 16.4322, 102.8236)))

	got, err := store.GetByEntityID(ctx, "e1")
	require.NoError(t, err)
	got.Latitude = 0

	again, err := store.GetByEntityID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 16.4322, again.Latitude)
}

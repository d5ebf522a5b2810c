package cache

import (
	"context"
	"testing"

	"findmyspace/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord() Record {
	m := layout.GenerateDefaultPositions(5, []int{-1, 0}, layout.DefaultGeometry())
	m.Floors[0].SelectedSlots = []int{2}
	return Record{
		Estacionamiento: CachedSpace{
			Nombre:         "Cochera Norte",
			Ubicacion:      "Santa Fe 2000",
			Plazas:         5,
			Tipo:           "private",
			TipoEstructura: layout.Enclosed,
			Pisos:          1,
			Sotano:         true,
			Coordenadas:    &Coordinates{Lat: -34.59, Lng: -58.40},
		},
		Mapa: &m,
	}
}

func TestStore_UpsertInsertsThenReplaces(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec, err := s.Upsert(ctx, sampleRecord())
	require.NoError(t, err)
	require.NotZero(t, rec.CacheID)

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	got := records[0]
	assert.Equal(t, rec.CacheID, got.CacheID)
	assert.Equal(t, "Cochera Norte", got.Estacionamiento.Nombre)
	assert.Equal(t, &Coordinates{Lat: -34.59, Lng: -58.40}, got.Estacionamiento.Coordenadas)
	require.NotNil(t, got.Mapa)
	assert.Equal(t, 5, got.Mapa.SlotCount())
	assert.Equal(t, []int{-1, 0}, got.Mapa.Levels())
	assert.Equal(t, rec.Mapa.Floors[0].Slots, got.Mapa.Floors[0].Slots)
	assert.Equal(t, []int{2}, got.Mapa.Floors[0].SelectedSlots)

	replacement := Record{
		CacheID: rec.CacheID,
		Estacionamiento: CachedSpace{
			SpaceID: 42,
			Nombre:  "Cochera Norte II",
			Plazas:  3,
		},
	}
	_, err = s.Upsert(ctx, replacement)
	require.NoError(t, err)

	records, err = s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(42), records[0].Estacionamiento.SpaceID)
	assert.Equal(t, "Cochera Norte II", records[0].Estacionamiento.Nombre)
	assert.Empty(t, records[0].Estacionamiento.Ubicacion, "no stale fields survive a replace")
	assert.Nil(t, records[0].Estacionamiento.Coordenadas)
	assert.Nil(t, records[0].Mapa)
}

func TestStore_UpsertUnknownCacheIDInserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec := sampleRecord()
	rec.CacheID = 999
	got, err := s.Upsert(ctx, rec)
	require.NoError(t, err)
	assert.NotEqual(t, int64(999), got.CacheID)

	records, err := s.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, err := s.Upsert(ctx, sampleRecord())
	require.NoError(t, err)
	b := sampleRecord()
	b.Estacionamiento.SpaceID = 7
	_, err = s.Upsert(ctx, b)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, a.CacheID))
	assert.ErrorIs(t, s.Delete(ctx, a.CacheID), ErrNotFound)

	n, err := s.DeleteBySpaceID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	records, err := s.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_OccupancyCycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	states, err := s.Occupancy(ctx, "id:1")
	require.NoError(t, err)
	assert.Empty(t, states)

	want := []Occupancy{Occupied, Reserved, Free, Occupied}
	for _, w := range want {
		got, err := s.CycleOccupancy(ctx, "id:1", 3)
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}

	_, err = s.CycleOccupancy(ctx, "id:1", 4)
	require.NoError(t, err)

	states, err = s.Occupancy(ctx, "id:1")
	require.NoError(t, err)
	assert.Equal(t, map[int]Occupancy{3: Occupied, 4: Occupied}, states)

	other, err := s.Occupancy(ctx, "id:2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, s.ClearOccupancy(ctx, "id:1"))
	states, err = s.Occupancy(ctx, "id:1")
	require.NoError(t, err)
	assert.Empty(t, states)
}

func TestOccupancyNext(t *testing.T) {
	assert.Equal(t, Occupied, Free.Next())
	assert.Equal(t, Reserved, Occupied.Next())
	assert.Equal(t, Free, Reserved.Next())
	assert.Equal(t, Occupied, Occupancy("").Next())
	assert.Equal(t, Free, OccupancyOf(nil, 9))
}

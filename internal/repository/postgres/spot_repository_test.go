package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/random-spot/internal/domain"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"github.com/random-spot/internal/repository/postgres/testhelpers"
)

func TestSpotRepository_SaveAndGet(t *testing.T) {
	tdb := testhelpers.SetupTestDB(t)
	defer tdb.Close()

	repo := tdb.NewSpotRepositoryForTest(t)
	ctx := context.Background()

	spot := testhelpers.WithRoad(testhelpers.NewSpotFixture("chile", "Chile", 0), "Ruta 5", 42.5)
	require.NoError(t, repo.Save(ctx, spot))

	got, err := repo.GetByID(ctx, spot.ID)
	require.NoError(t, err)
	assert.Equal(t, spot.ID, got.ID)
	assert.Equal(t, "Chile", got.RegionName)
	assert.Equal(t, domain.StatusMemberState, got.RegionStatus)
	assert.InDelta(t, spot.Lat, got.Lat, 1e-9)
	assert.InDelta(t, spot.Lon, got.Lon, 1e-9)
	assert.Equal(t, 3, got.Attempts)
	assert.WithinDuration(t, spot.CreatedAt, got.CreatedAt, time.Millisecond)
	require.NotNil(t, got.Road)
	assert.Equal(t, "Ruta 5", got.Road.Road.Name)
	assert.InDelta(t, 42.5, got.Road.DistanceMeters, 1e-9)

	t.Run("without road", func(t *testing.T) {
		plain := testhelpers.NewSpotFixture("chile", "Chile", time.Minute)
		require.NoError(t, repo.Save(ctx, plain))

		got, err := repo.GetByID(ctx, plain.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Road)
	})

	t.Run("missing spot", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, pkgerrors.ErrSpotNotFound)
	})
}

func TestSpotRepository_ListAndStats(t *testing.T) {
	tdb := testhelpers.SetupTestDB(t)
	defer tdb.Close()

	repo := tdb.NewSpotRepositoryForTest(t)
	ctx := context.Background()

	last, err := repo.LastCreatedAt(ctx)
	require.NoError(t, err)
	assert.Nil(t, last, "empty history has no last spot")

	fixtures := []*domain.Spot{
		testhelpers.NewSpotFixture("france", "France", 3*time.Minute),
		testhelpers.NewSpotFixture("chile", "Chile", 2*time.Minute),
		testhelpers.NewSpotFixture("france", "France", time.Minute),
		testhelpers.NewSpotFixture("japan", "Japan", 0),
	}
	for _, s := range fixtures {
		require.NoError(t, repo.Save(ctx, s))
	}

	t.Run("newest first", func(t *testing.T) {
		spots, err := repo.List(ctx, domain.SpotFilter{})
		require.NoError(t, err)
		require.Len(t, spots, 4)
		assert.Equal(t, fixtures[3].ID, spots[0].ID)
		assert.Equal(t, fixtures[0].ID, spots[3].ID)
	})

	t.Run("filtered by regions", func(t *testing.T) {
		spots, err := repo.List(ctx, domain.SpotFilter{RegionIDs: []string{"france", "chile"}, Limit: 2})
		require.NoError(t, err)
		require.Len(t, spots, 2)
		assert.Equal(t, fixtures[2].ID, spots[0].ID)
		assert.Equal(t, fixtures[1].ID, spots[1].ID)
	})

	t.Run("counts", func(t *testing.T) {
		counts, err := repo.CountByRegion(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"france": 2, "chile": 1, "japan": 1}, counts)
	})

	t.Run("last created", func(t *testing.T) {
		last, err := repo.LastCreatedAt(ctx)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.WithinDuration(t, fixtures[3].CreatedAt, *last, time.Millisecond)
	})
}

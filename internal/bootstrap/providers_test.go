package bootstrap_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/random-spot/internal/bootstrap"
	"github.com/random-spot/internal/config"
	"github.com/random-spot/internal/repository/postgresosm"
)

func TestRegionRepository(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name    string
		source  string
		withDB  bool
		wantErr bool
	}{
		{name: "geojson", source: config.BoundariesSourceGeoJSON},
		{name: "shapefile", source: config.BoundariesSourceShapefile},
		{name: "osm", source: config.BoundariesSourceOSM, withDB: true},
		{name: "osm without db", source: config.BoundariesSourceOSM, wantErr: true},
		{name: "unknown", source: "kml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Boundaries: config.BoundariesConfig{Source: tt.source, Path: "world.geojson"}}

			var osmDB *postgresosm.DB
			if tt.withDB {
				osmDB = postgresosm.NewDBForTest(&sqlx.DB{}, logger)
			}

			repo, err := bootstrap.RegionRepository(cfg, osmDB, nil, logger)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, repo)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, repo)
			assert.NotEmpty(t, repo.Source())
		})
	}
}

func TestRoadRepository(t *testing.T) {
	logger := zap.NewNop()

	t.Run("none disables lookup", func(t *testing.T) {
		cfg := &config.Config{Roads: config.RoadsConfig{Provider: config.RoadsProviderNone}}
		repo, err := bootstrap.RoadRepository(cfg, nil, logger)
		require.NoError(t, err)
		assert.Nil(t, repo)
	})

	t.Run("overpass", func(t *testing.T) {
		cfg := &config.Config{Roads: config.RoadsConfig{Provider: config.RoadsProviderOverpass, BaseURL: "http://localhost", RequestTimeout: 1}}
		repo, err := bootstrap.RoadRepository(cfg, nil, logger)
		require.NoError(t, err)
		assert.NotNil(t, repo)
	})

	t.Run("osm requires db", func(t *testing.T) {
		cfg := &config.Config{Roads: config.RoadsConfig{Provider: config.RoadsProviderOSM}}
		_, err := bootstrap.RoadRepository(cfg, nil, logger)
		assert.Error(t, err)

		repo, err := bootstrap.RoadRepository(cfg, postgresosm.NewDBForTest(&sqlx.DB{}, logger), logger)
		require.NoError(t, err)
		assert.NotNil(t, repo)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := &config.Config{Roads: config.RoadsConfig{Provider: "google"}}
		_, err := bootstrap.RoadRepository(cfg, nil, logger)
		assert.Error(t, err)
	})
}

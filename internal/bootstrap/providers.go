// Package bootstrap выбирает реализации источника границ и провайдера дорог по конфигурации.
// Используется cmd/api и cmd/worker.
package bootstrap

import (
	"fmt"

	"github.com/random-spot/internal/config"
	"github.com/random-spot/internal/domain/repository"
	"github.com/random-spot/internal/infrastructure/overpass"
	"github.com/random-spot/internal/repository/geojsonfile"
	"github.com/random-spot/internal/repository/postgresosm"
	"github.com/random-spot/internal/repository/shapefile"
	"go.uber.org/zap"
)

// RegionRepository возвращает источник границ для BOUNDARIES_SOURCE.
// osmDB нужен только для источника osm, cache - только для удаленного GeoJSON (может быть nil).
func RegionRepository(
	cfg *config.Config,
	osmDB *postgresosm.DB,
	cache repository.CacheRepository,
	logger *zap.Logger,
) (repository.RegionRepository, error) {
	switch cfg.Boundaries.Source {
	case config.BoundariesSourceGeoJSON:
		return geojsonfile.NewRegionRepository(&cfg.Boundaries, cache, cfg.Cache.BoundariesCacheTTL, logger), nil
	case config.BoundariesSourceShapefile:
		return shapefile.NewRegionRepository(&cfg.Boundaries, logger), nil
	case config.BoundariesSourceOSM:
		if osmDB == nil {
			return nil, fmt.Errorf("boundaries source %q requires OSM database connection", cfg.Boundaries.Source)
		}
		return postgresosm.NewRegionRepository(osmDB, &cfg.Boundaries), nil
	default:
		return nil, fmt.Errorf("unknown boundaries source %q", cfg.Boundaries.Source)
	}
}

// RoadRepository возвращает провайдер дорог для ROADS_PROVIDER; nil - поиск дорог отключен
func RoadRepository(
	cfg *config.Config,
	osmDB *postgresosm.DB,
	logger *zap.Logger,
) (repository.RoadRepository, error) {
	switch cfg.Roads.Provider {
	case config.RoadsProviderNone:
		return nil, nil
	case config.RoadsProviderOverpass:
		return overpass.NewClient(&cfg.Roads, logger), nil
	case config.RoadsProviderOSM:
		if osmDB == nil {
			return nil, fmt.Errorf("roads provider %q requires OSM database connection", cfg.Roads.Provider)
		}
		return postgresosm.NewRoadRepository(osmDB), nil
	default:
		return nil, fmt.Errorf("unknown roads provider %q", cfg.Roads.Provider)
	}
}

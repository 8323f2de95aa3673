package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/random-spot/internal/domain"
	"github.com/random-spot/internal/domain/repository"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"github.com/random-spot/internal/sampler"
	"github.com/random-spot/internal/usecase/dto"
	"go.uber.org/zap"
)

// SpotUseCase генерирует случайные точки и ведет их историю
type SpotUseCase struct {
	regions  *RegionUseCase
	sampler  *sampler.Sampler
	roads    *RoadUseCase
	spotRepo repository.SpotRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewSpotUseCase создает новый экземпляр SpotUseCase.
// spotRepo == nil отключает историю, roads == nil отключает поиск дорог.
func NewSpotUseCase(
	regions *RegionUseCase,
	sampler *sampler.Sampler,
	roads *RoadUseCase,
	spotRepo repository.SpotRepository,
	logger *zap.Logger,
) *SpotUseCase {
	return &SpotUseCase{
		regions:  regions,
		sampler:  sampler,
		roads:    roads,
		spotRepo: spotRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate выбирает регион и случайную точку внутри него
func (uc *SpotUseCase) Generate(ctx context.Context, req dto.GenerateSpotRequest) (*domain.Spot, error) {
	region, point, err := uc.sample(ctx, req)
	if err != nil {
		return nil, err
	}

	spot := &domain.Spot{
		ID:           uuid.New(),
		RegionID:     region.ID,
		RegionName:   region.Name,
		RegionStatus: region.Status,
		Lat:          point.Lat,
		Lon:          point.Lon,
		Attempts:     point.Attempts,
		CreatedAt:    uc.now().UTC(),
	}

	if req.FindRoad {
		road, err := uc.roads.FindNearest(ctx, spot.Lat, spot.Lon)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			uc.logger.Warn("Road lookup failed",
				zap.String("spot_id", spot.ID.String()),
				zap.Error(err))
			spot.RoadError = err.Error()
		} else {
			spot.Road = road
		}
	}

	uc.logger.Info("Spot generated",
		zap.String("spot_id", spot.ID.String()),
		zap.String("region", spot.RegionID),
		zap.Float64("lat", spot.Lat),
		zap.Float64("lon", spot.Lon),
		zap.Int("attempts", spot.Attempts))

	if uc.spotRepo != nil {
		if err := uc.spotRepo.Save(ctx, spot); err != nil {
			uc.logger.Warn("Failed to save spot to history",
				zap.String("spot_id", spot.ID.String()),
				zap.Error(err))
		}
	}

	return spot, nil
}

func (uc *SpotUseCase) sample(ctx context.Context, req dto.GenerateSpotRequest) (*domain.Region, domain.SampledPoint, error) {
	if req.IsMultiRegion() {
		candidates, err := uc.regions.Candidates(ctx, req.Regions, req.All, req.IncludeTerritories)
		if err != nil {
			return nil, domain.SampledPoint{}, err
		}
		return uc.sampler.SampleWeighted(candidates)
	}

	if req.Region == "" {
		return nil, domain.SampledPoint{}, pkgerrors.ErrInvalidRequest.WithMessage("region, regions or all is required")
	}

	region, err := uc.regions.Get(ctx, req.Region)
	if err != nil {
		return nil, domain.SampledPoint{}, err
	}
	point, err := uc.sampler.PointIn(region)
	if err != nil {
		return nil, domain.SampledPoint{}, err
	}
	return region, point, nil
}

// GenerateFeatureCollection генерирует точку и возвращает ее вместе с регионом
// и дорогой в виде GeoJSON для отрисовки на карте
func (uc *SpotUseCase) GenerateFeatureCollection(ctx context.Context, req dto.GenerateSpotRequest) (*geojson.FeatureCollection, *domain.Spot, error) {
	spot, err := uc.Generate(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	region, err := uc.regions.Get(ctx, spot.RegionID)
	if err != nil {
		return nil, nil, err
	}

	return SpotFeatureCollection(region, spot), spot, nil
}

// SpotFeatureCollection собирает слой карты: регион, маркер и, если найдена, дорогу с соединителем
func SpotFeatureCollection(region *domain.Region, spot *domain.Spot) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if region != nil && region.Geometry != nil {
		f := geojson.NewFeature(region.Geometry)
		f.ID = region.ID
		f.Properties["kind"] = "region"
		f.Properties["id"] = region.ID
		f.Properties["name"] = region.Name
		if region.Status != "" {
			f.Properties["status"] = region.Status
		}
		fc.Append(f)
	}

	marker := geojson.NewFeature(orb.Point{spot.Lon, spot.Lat})
	marker.ID = spot.ID.String()
	marker.Properties["kind"] = "spot"
	marker.Properties["region_id"] = spot.RegionID
	marker.Properties["popup"] = spot.Popup()
	marker.Properties["attempts"] = spot.Attempts
	if spot.RoadError != "" {
		marker.Properties["road_error"] = spot.RoadError
	}
	fc.Append(marker)

	if spot.Road != nil {
		connector := geojson.NewFeature(spot.Road.Connector())
		connector.Properties["kind"] = "connector"
		connector.Properties["distance_m"] = spot.Road.DistanceMeters
		fc.Append(connector)

		if len(spot.Road.Road.Geometry) > 0 {
			road := geojson.NewFeature(spot.Road.Road.Geometry)
			road.ID = spot.Road.Road.OSMID
			road.Properties["kind"] = "road"
			road.Properties["osm_id"] = spot.Road.Road.OSMID
			road.Properties["highway"] = spot.Road.Road.Highway
			if spot.Road.Road.Name != "" {
				road.Properties["name"] = spot.Road.Road.Name
			}
			fc.Append(road)
		}
	}

	return fc
}

// Get возвращает точку из истории
func (uc *SpotUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Spot, error) {
	if uc.spotRepo == nil {
		return nil, pkgerrors.ErrHistoryDisabled
	}
	return uc.spotRepo.GetByID(ctx, id)
}

// List возвращает последние точки из истории
func (uc *SpotUseCase) List(ctx context.Context, filter domain.SpotFilter) ([]*domain.Spot, error) {
	if uc.spotRepo == nil {
		return nil, pkgerrors.ErrHistoryDisabled
	}
	return uc.spotRepo.List(ctx, filter)
}

package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/random-spot/internal/config"
	"github.com/random-spot/internal/domain"
	"github.com/random-spot/internal/domain/repository"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"github.com/random-spot/internal/pkg/utils"
	"go.uber.org/zap"
)

// RoadUseCase ищет ближайшую дорогу к точке, расширяя радиус поиска
type RoadUseCase struct {
	roadRepo  repository.RoadRepository
	cacheRepo repository.CacheRepository
	cfg       config.RoadsConfig
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewRoadUseCase создает новый экземпляр RoadUseCase.
// roadRepo == nil означает, что поиск дорог отключен.
func NewRoadUseCase(
	roadRepo repository.RoadRepository,
	cacheRepo repository.CacheRepository,
	cfg config.RoadsConfig,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *RoadUseCase {
	return &RoadUseCase{
		roadRepo:  roadRepo,
		cacheRepo: cacheRepo,
		cfg:       cfg,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Enabled сообщает, настроен ли провайдер дорог
func (uc *RoadUseCase) Enabled() bool {
	return uc != nil && uc.roadRepo != nil
}

// radii возвращает последовательность радиусов поиска
func (uc *RoadUseCase) radii() []float64 {
	attempts := uc.cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	radius := uc.cfg.InitialRadius
	maxRadius := math.Max(uc.cfg.MaxRadius, radius)

	result := make([]float64, 0, attempts)
	for i := 0; i < attempts; i++ {
		result = append(result, radius)
		if radius >= maxRadius {
			break
		}
		radius = math.Min(radius*uc.cfg.RadiusFactor, maxRadius)
	}
	return result
}

// FindNearest возвращает ближайшую к точке дорогу
func (uc *RoadUseCase) FindNearest(ctx context.Context, lat, lon float64) (*domain.NearestRoad, error) {
	if !uc.Enabled() {
		return nil, pkgerrors.ErrRoadsDisabled
	}
	if !utils.ValidateCoordinates(lat, lon) {
		return nil, pkgerrors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"lat": lat,
			"lon": lon,
		})
	}

	// 1. Проверяем кеш
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetNearestRoad(ctx, lat, lon)
		if err != nil {
			uc.logger.Warn("Failed to get nearest road from cache", zap.Error(err))
		} else if cached != nil {
			uc.logger.Debug("Nearest road fetched from cache",
				zap.Float64("lat", lat),
				zap.Float64("lon", lon))
			return cached, nil
		}
	}

	// 2. Ищем с расширяющимся радиусом
	radii := uc.radii()
	for i, radius := range radii {
		roads, err := uc.roadRepo.NearestRoads(ctx, lat, lon, radius)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			uc.logger.Error("Roads provider request failed",
				zap.Float64("lat", lat),
				zap.Float64("lon", lon),
				zap.Float64("radius", radius),
				zap.Error(err))
			return nil, pkgerrors.ErrRoadsProvider.WithDetails(map[string]interface{}{
				"radius_m": radius,
				"reason":   err.Error(),
			})
		}

		nearest := closestRoad(lat, lon, roads)
		if nearest == nil {
			uc.logger.Debug("No roads within radius, expanding",
				zap.Float64("radius", radius),
				zap.Int("attempt", i+1))
			continue
		}

		nearest.SearchRadius = radius
		nearest.Attempts = i + 1

		// 3. Кешируем результат
		if uc.cacheRepo != nil {
			if err := uc.cacheRepo.SetNearestRoad(ctx, lat, lon, nearest, uc.cacheTTL); err != nil {
				uc.logger.Warn("Failed to cache nearest road", zap.Error(err))
			}
		}

		return nearest, nil
	}

	return nil, pkgerrors.ErrRoadNotFound.WithDetails(map[string]interface{}{
		"lat":          lat,
		"lon":          lon,
		"max_radius_m": radii[len(radii)-1],
		"attempts":     len(radii),
	})
}

// closestRoad выбирает дорогу с минимальным расстоянием до точки
func closestRoad(lat, lon float64, roads []*domain.Road) *domain.NearestRoad {
	var best *domain.NearestRoad
	for _, road := range roads {
		if road == nil {
			continue
		}
		closest, dist, ok := utils.ClosestPointOnLine(lat, lon, road.Geometry)
		if !ok {
			continue
		}
		if best != nil && dist >= best.DistanceMeters {
			continue
		}
		best = &domain.NearestRoad{
			Road:           *road,
			From:           domain.Point{Lat: lat, Lon: lon},
			ClosestPoint:   domain.Point{Lat: closest.Lat(), Lon: closest.Lon()},
			DistanceMeters: dist,
		}
	}
	return best
}

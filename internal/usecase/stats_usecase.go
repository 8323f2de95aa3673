package usecase

import (
	"context"
	"time"

	"github.com/random-spot/internal/domain"
	"github.com/random-spot/internal/domain/repository"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"go.uber.org/zap"
)

// StatsUseCase считает статистику истории точек
type StatsUseCase struct {
	spotRepo  repository.SpotRepository
	cacheRepo repository.CacheRepository
	ttl       time.Duration
	logger    *zap.Logger
}

// NewStatsUseCase создает новый экземпляр StatsUseCase.
// spotRepo == nil означает, что история отключена.
func NewStatsUseCase(
	spotRepo repository.SpotRepository,
	cacheRepo repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) *StatsUseCase {
	return &StatsUseCase{
		spotRepo:  spotRepo,
		cacheRepo: cacheRepo,
		ttl:       ttl,
		logger:    logger,
	}
}

// GetStatistics возвращает статистику, используя кеш когда возможно
func (uc *StatsUseCase) GetStatistics(ctx context.Context) (*domain.SpotStats, error) {
	if uc.spotRepo == nil {
		return nil, pkgerrors.ErrHistoryDisabled
	}

	// 1. Проверяем кеш
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetStats(ctx)
		if err != nil {
			uc.logger.Warn("Failed to get stats from cache", zap.Error(err))
		} else if cached != nil {
			uc.logger.Debug("Statistics fetched from cache")
			return cached, nil
		}
	}

	// 2. Считаем по истории и кешируем
	return uc.RefreshStatistics(ctx)
}

// RefreshStatistics принудительно пересчитывает статистику и обновляет кеш
func (uc *StatsUseCase) RefreshStatistics(ctx context.Context) (*domain.SpotStats, error) {
	if uc.spotRepo == nil {
		return nil, pkgerrors.ErrHistoryDisabled
	}

	byRegion, err := uc.spotRepo.CountByRegion(ctx)
	if err != nil {
		return nil, err
	}
	last, err := uc.spotRepo.LastCreatedAt(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.SpotStats{
		ByRegion:      byRegion,
		LastGenerated: last,
		UpdatedAt:     time.Now().UTC(),
	}
	for _, n := range byRegion {
		stats.TotalSpots += n
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetStats(ctx, stats, uc.ttl); err != nil {
			uc.logger.Warn("Failed to cache stats", zap.Error(err))
			// данные уже посчитаны
		}
	}

	uc.logger.Debug("Statistics refreshed", zap.Int("total_spots", stats.TotalSpots))
	return stats, nil
}

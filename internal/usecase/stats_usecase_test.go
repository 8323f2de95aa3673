package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/random-spot/internal/domain"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"github.com/random-spot/internal/usecase"
)

func TestStatsUseCase_GetStatistics(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("computed on cache miss and cached", func(t *testing.T) {
		spotRepo := &MockSpotRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := usecase.NewStatsUseCase(spotRepo, cacheRepo, time.Minute, logger)
		last := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

		cacheRepo.On("GetStats", mock.Anything).Return(nil, nil)
		spotRepo.On("CountByRegion", mock.Anything).Return(map[string]int{"fra": 3, "esp": 2}, nil)
		spotRepo.On("LastCreatedAt", mock.Anything).Return(&last, nil)
		cacheRepo.On("SetStats", mock.Anything, mock.AnythingOfType("*domain.SpotStats"), time.Minute).Return(nil)

		stats, err := uc.GetStatistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, stats.TotalSpots)
		assert.Equal(t, 3, stats.ByRegion["fra"])
		assert.Equal(t, &last, stats.LastGenerated)
		assert.False(t, stats.UpdatedAt.IsZero())

		cacheRepo.AssertExpectations(t)
		spotRepo.AssertExpectations(t)
	})

	t.Run("served from cache", func(t *testing.T) {
		spotRepo := &MockSpotRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := usecase.NewStatsUseCase(spotRepo, cacheRepo, time.Minute, logger)
		cached := &domain.SpotStats{TotalSpots: 9}

		cacheRepo.On("GetStats", mock.Anything).Return(cached, nil)

		stats, err := uc.GetStatistics(ctx)
		require.NoError(t, err)
		assert.Same(t, cached, stats)
		spotRepo.AssertNotCalled(t, "CountByRegion", mock.Anything)
	})

	t.Run("empty history", func(t *testing.T) {
		spotRepo := &MockSpotRepository{}
		uc := usecase.NewStatsUseCase(spotRepo, nil, time.Minute, logger)

		spotRepo.On("CountByRegion", mock.Anything).Return(map[string]int{}, nil)
		spotRepo.On("LastCreatedAt", mock.Anything).Return(nil, nil)

		stats, err := uc.GetStatistics(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.TotalSpots)
		assert.Nil(t, stats.LastGenerated)
	})

	t.Run("store error", func(t *testing.T) {
		spotRepo := &MockSpotRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := usecase.NewStatsUseCase(spotRepo, cacheRepo, time.Minute, logger)

		cacheRepo.On("GetStats", mock.Anything).Return(nil, errors.New("redis down"))
		spotRepo.On("CountByRegion", mock.Anything).Return(nil, pkgerrors.ErrDatabaseError)

		_, err := uc.GetStatistics(ctx)
		assert.True(t, pkgerrors.Is(err, pkgerrors.ErrDatabaseError))
		cacheRepo.AssertNotCalled(t, "SetStats", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("history disabled", func(t *testing.T) {
		uc := usecase.NewStatsUseCase(nil, nil, time.Minute, logger)

		_, err := uc.GetStatistics(ctx)
		assert.True(t, pkgerrors.Is(err, pkgerrors.ErrHistoryDisabled))
		_, err = uc.RefreshStatistics(ctx)
		assert.True(t, pkgerrors.Is(err, pkgerrors.ErrHistoryDisabled))
	})
}

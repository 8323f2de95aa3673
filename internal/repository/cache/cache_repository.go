package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/random-spot/internal/domain"
	"github.com/random-spot/internal/domain/repository"
	"github.com/random-spot/internal/pkg/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const statsKey = "stats:spots"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

// roadKeyDecimals - 5 знаков (~1 м)
const roadKeyDecimals = 5

// RoadKey - ключ кеша поиска дороги по округленным координатам
func RoadKey(lat, lon float64) string {
	return fmt.Sprintf("road:%.5f:%.5f",
		utils.RoundCoordinate(lat, roadKeyDecimals),
		utils.RoundCoordinate(lon, roadKeyDecimals))
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) GetNearestRoad(ctx context.Context, lat, lon float64) (*domain.NearestRoad, error) {
	var road domain.NearestRoad
	found, err := r.getJSON(ctx, RoadKey(lat, lon), &road)
	if err != nil || !found {
		return nil, err
	}
	return &road, nil
}

func (r *cacheRepository) SetNearestRoad(ctx context.Context, lat, lon float64, road *domain.NearestRoad, ttl time.Duration) error {
	return r.setJSON(ctx, RoadKey(lat, lon), road, ttl)
}

// GetStats получает статистику из кеша
func (r *cacheRepository) GetStats(ctx context.Context) (*domain.SpotStats, error) {
	var stats domain.SpotStats
	found, err := r.getJSON(ctx, statsKey, &stats)
	if err != nil || !found {
		return nil, err
	}
	return &stats, nil
}

// SetStats сохраняет статистику в кеше
func (r *cacheRepository) SetStats(ctx context.Context, stats *domain.SpotStats, ttl time.Duration) error {
	return r.setJSON(ctx, statsKey, stats, ttl)
}

func (r *cacheRepository) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}

	if err := json.Unmarshal(data, dst); err != nil {
		r.logger.Error("Failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (r *cacheRepository) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Error("Failed to marshal cache value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return r.Set(ctx, key, data, ttl)
}

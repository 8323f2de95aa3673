package repository

import (
	"context"
	"time"

	"github.com/random-spot/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу (nil, nil при промахе)
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetNearestRoad получает результат поиска дороги для точки
	GetNearestRoad(ctx context.Context, lat, lon float64) (*domain.NearestRoad, error)

	// SetNearestRoad сохраняет результат поиска дороги для точки
	SetNearestRoad(ctx context.Context, lat, lon float64, road *domain.NearestRoad, ttl time.Duration) error

	// GetStats получает статистику из кеша
	GetStats(ctx context.Context) (*domain.SpotStats, error)

	// SetStats сохраняет статистику в кеше
	SetStats(ctx context.Context, stats *domain.SpotStats, ttl time.Duration) error
}

package repository

import (
	"context"

	"github.com/random-spot/internal/domain"
)

// RoadRepository ищет дороги вокруг точки
type RoadRepository interface {
	// NearestRoads возвращает дороги, проходящие в радиусе radiusMeters от точки.
	// Пустой результат без ошибки означает, что в радиусе дорог нет.
	NearestRoads(ctx context.Context, lat, lon, radiusMeters float64) ([]*domain.Road, error)
}

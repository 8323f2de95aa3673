package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/random-spot/internal/domain"
)

// SpotRepository - история сгенерированных точек
type SpotRepository interface {
	// Save сохраняет точку
	Save(ctx context.Context, spot *domain.Spot) error

	// GetByID возвращает точку по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Spot, error)

	// List возвращает последние точки, опционально только для указанных регионов
	List(ctx context.Context, filter domain.SpotFilter) ([]*domain.Spot, error)

	// CountByRegion возвращает количество точек по region_id
	CountByRegion(ctx context.Context) (map[string]int, error)

	// LastCreatedAt возвращает время последней точки (nil если история пуста)
	LastCreatedAt(ctx context.Context) (*time.Time, error)
}

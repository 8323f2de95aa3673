package repository

import (
	"context"

	"github.com/random-spot/internal/domain"
)

// RegionRepository - источник набора границ регионов
type RegionRepository interface {
	// LoadAll читает весь набор границ. Вызывается один раз на процесс.
	LoadAll(ctx context.Context) ([]*domain.Region, error)

	// Source возвращает описание источника для логов (путь, URL, таблица)
	Source() string
}

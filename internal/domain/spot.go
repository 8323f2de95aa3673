package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Spot - сгенерированная случайная точка вместе с регионом и (опционально) ближайшей дорогой
type Spot struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	RegionID     string       `json:"region_id" db:"region_id"`
	RegionName   string       `json:"region_name" db:"region_name"`
	RegionStatus string       `json:"region_status,omitempty" db:"region_status"`
	Lat          float64      `json:"lat" db:"lat"`
	Lon          float64      `json:"lon" db:"lon"`
	Attempts     int          `json:"attempts" db:"attempts"`
	Road         *NearestRoad `json:"road,omitempty" db:"-"`
	RoadError    string       `json:"road_error,omitempty" db:"-"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// Popup - текст подписи маркера на карте
func (s *Spot) Popup() string {
	return fmt.Sprintf("Random Spot in %s at (%.5f, %.5f)", s.RegionName, s.Lat, s.Lon)
}

// SpotFilter - фильтр истории точек
type SpotFilter struct {
	RegionIDs []string
	Limit     int
}

// SpotStats - статистика сгенерированных точек
type SpotStats struct {
	TotalSpots    int            `json:"total_spots"`
	ByRegion      map[string]int `json:"by_region"`
	LastGenerated *time.Time     `json:"last_generated,omitempty"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

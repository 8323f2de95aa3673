package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"github.com/random-spot/internal/domain"
)

// RegionResponse - регион в списке (без геометрии)
type RegionResponse struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Status       string             `json:"status,omitempty"`
	Parent       string             `json:"parent,omitempty"`
	GeometryType string             `json:"geometry_type"`
	AreaSqKm     float64            `json:"area_sq_km"`
	BBox         domain.BoundingBox `json:"bbox"`
}

// RegionDetailResponse - регион с GeoJSON геометрией
type RegionDetailResponse struct {
	RegionResponse
	Geometry *geojson.Geometry `json:"geometry" swaggertype:"object"`
}

// RegionGroupResponse - группа регионов по статусу
type RegionGroupResponse struct {
	Status  string           `json:"status"`
	Regions []RegionResponse `json:"regions"`
}

// RegionRef - краткая ссылка на регион
type RegionRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// SpotResponse - сгенерированная точка
type SpotResponse struct {
	ID        uuid.UUID     `json:"id"`
	Region    RegionRef     `json:"region"`
	Lat       float64       `json:"lat"`
	Lon       float64       `json:"lon"`
	Attempts  int           `json:"attempts"`
	Popup     string        `json:"popup"`
	Road      *RoadResponse `json:"road,omitempty"`
	RoadError string        `json:"road_error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// RoadResponse - ближайшая дорога и соединяющая линия
type RoadResponse struct {
	OSMID          int64             `json:"osm_id,omitempty"`
	Name           string            `json:"name,omitempty"`
	Highway        string            `json:"highway,omitempty"`
	DistanceMeters float64           `json:"distance_m"`
	ClosestPoint   domain.Point      `json:"closest_point"`
	SearchRadius   float64           `json:"search_radius_m,omitempty"`
	Attempts       int               `json:"attempts,omitempty"`
	Geometry       *geojson.Geometry `json:"geometry,omitempty" swaggertype:"object"`
	Connector      *geojson.Geometry `json:"connector,omitempty" swaggertype:"object"`
}

// SpotListResponse - история точек
type SpotListResponse struct {
	Spots []SpotResponse `json:"spots"`
	Total int            `json:"total"`
}

// HealthResponse - ответ health-check
type HealthResponse struct {
	Status   string            `json:"status"`
	Regions  int               `json:"regions"`
	Services map[string]string `json:"services,omitempty"`
}

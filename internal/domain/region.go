package domain

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// Типы геометрии, которые поддерживает генератор точек
const (
	GeometryPolygon      = "Polygon"
	GeometryMultiPolygon = "MultiPolygon"
)

// Статусы из набора world-administrative-boundaries
const (
	StatusMemberState = "Member State"
	StatusTerritory   = "Territory"
)

// Region - именованная территория (страна, территория) с границей Polygon или MultiPolygon.
// Набор регионов загружается один раз на процесс и дальше не изменяется.
type Region struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Status     string                 `json:"status,omitempty"`
	Parent     string                 `json:"parent,omitempty"`
	Geometry   orb.Geometry           `json:"-"`
	AreaSqKm   float64                `json:"area_sq_km"`
	BBox       BoundingBox            `json:"bbox"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// GeometryType возвращает GeoJSON тип геометрии ("" если геометрии нет)
func (r *Region) GeometryType() string {
	if r == nil || r.Geometry == nil {
		return ""
	}
	return r.Geometry.GeoJSONType()
}

// IsTerritory - регион зависимая территория, а не самостоятельное государство
func (r *Region) IsTerritory() bool {
	return r.Status == StatusTerritory
}

// WeightedRegion - кандидат для выбора региона пропорционально весу (обычно площади)
type WeightedRegion struct {
	Region *Region
	Weight float64
}

// SampledPoint - случайная точка внутри региона RegionID
type SampledPoint struct {
	RegionID string  `json:"region_id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Attempts int     `json:"attempts"`
}

// RegionFilter - фильтр списка регионов
type RegionFilter struct {
	Status string
	Query  string
}

// PropertyKeys - имена свойств набора границ, из которых берутся название, статус и родитель
type PropertyKeys struct {
	Name   string
	Status string
	Parent string
}

// RegionFromProperties собирает регион из свойств объекта набора границ.
// ID, площадь и bbox заполняются каталогом при загрузке.
func RegionFromProperties(id string, props map[string]interface{}, geom orb.Geometry, keys PropertyKeys) *Region {
	return &Region{
		ID:         id,
		Name:       propertyString(props, keys.Name),
		Status:     propertyString(props, keys.Status),
		Parent:     propertyString(props, keys.Parent),
		Geometry:   geom,
		Properties: props,
	}
}

func propertyString(props map[string]interface{}, key string) string {
	if key == "" {
		return ""
	}
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// RegionGroup - регионы с одинаковым статусом (группа в списке выбора)
type RegionGroup struct {
	Status  string    `json:"status"`
	Regions []*Region `json:"regions"`
}

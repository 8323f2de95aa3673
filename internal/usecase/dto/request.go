package dto

import (
	"strings"

	"github.com/random-spot/internal/domain"
)

// GenerateSpotRequest - запрос на генерацию случайной точки.
// Один регион (region) или выбор пропорционально площади (regions / all).
type GenerateSpotRequest struct {
	Region             string   `json:"region,omitempty" validate:"required_without_all=Regions All,max=200"`
	Regions            []string `json:"regions,omitempty" validate:"omitempty,max=300,dive,required,max=200"`
	All                bool     `json:"all,omitempty"`
	IncludeTerritories bool     `json:"include_territories,omitempty"`
	FindRoad           bool     `json:"find_road,omitempty"`
}

// IsMultiRegion - регион выбирается взвешенно; имеет приоритет над region
func (r GenerateSpotRequest) IsMultiRegion() bool {
	return r.All || len(r.Regions) > 0
}

// GenerateSpotRequestFromEvent конвертирует событие из стрима в запрос
func GenerateSpotRequestFromEvent(e *domain.SpotRequestEvent) GenerateSpotRequest {
	return GenerateSpotRequest{
		Region:             e.Region,
		Regions:            e.Regions,
		All:                e.All,
		IncludeTerritories: e.IncludeTerritories,
		FindRoad:           e.FindRoad,
	}
}

// NearestRoadRequest - запрос на поиск ближайшей дороги
type NearestRoadRequest struct {
	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon *float64 `json:"lon" validate:"required,min=-180,max=180"`
}

// RegionListQuery - фильтр списка регионов
type RegionListQuery struct {
	Status string `query:"status" validate:"omitempty,max=100"`
	Query  string `query:"q" validate:"omitempty,max=200"`
}

// ToFilter конвертирует query в фильтр домена
func (q RegionListQuery) ToFilter() domain.RegionFilter {
	return domain.RegionFilter{Status: q.Status, Query: q.Query}
}

// SpotListQuery - фильтр истории точек; region - список через запятую
type SpotListQuery struct {
	Region string `query:"region" validate:"omitempty,max=2000"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=500"`
}

// ToFilter конвертирует query в фильтр домена
func (q SpotListQuery) ToFilter() domain.SpotFilter {
	var ids []string
	for _, id := range strings.Split(q.Region, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return domain.SpotFilter{RegionIDs: ids, Limit: q.Limit}
}

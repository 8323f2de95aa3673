package dto

import (
	"github.com/paulmach/orb/geojson"
	"github.com/random-spot/internal/domain"
)

func ToRegionResponse(r *domain.Region) RegionResponse {
	return RegionResponse{
		ID:           r.ID,
		Name:         r.Name,
		Status:       r.Status,
		Parent:       r.Parent,
		GeometryType: r.GeometryType(),
		AreaSqKm:     r.AreaSqKm,
		BBox:         r.BBox,
	}
}

func ToRegionResponses(regions []*domain.Region) []RegionResponse {
	out := make([]RegionResponse, 0, len(regions))
	for _, r := range regions {
		out = append(out, ToRegionResponse(r))
	}
	return out
}

func ToRegionDetailResponse(r *domain.Region) RegionDetailResponse {
	resp := RegionDetailResponse{RegionResponse: ToRegionResponse(r)}
	if r.Geometry != nil {
		resp.Geometry = geojson.NewGeometry(r.Geometry)
	}
	return resp
}

func ToRegionGroupResponses(groups []domain.RegionGroup) []RegionGroupResponse {
	out := make([]RegionGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, RegionGroupResponse{
			Status:  g.Status,
			Regions: ToRegionResponses(g.Regions),
		})
	}
	return out
}

func ToRoadResponse(n *domain.NearestRoad) *RoadResponse {
	if n == nil {
		return nil
	}

	resp := &RoadResponse{
		OSMID:          n.Road.OSMID,
		Name:           n.Road.Name,
		Highway:        n.Road.Highway,
		DistanceMeters: n.DistanceMeters,
		ClosestPoint:   n.ClosestPoint,
		SearchRadius:   n.SearchRadius,
		Attempts:       n.Attempts,
	}
	if len(n.Road.Geometry) > 0 {
		resp.Geometry = geojson.NewGeometry(n.Road.Geometry)
		resp.Connector = geojson.NewGeometry(n.Connector())
	}
	return resp
}

func ToSpotResponse(s *domain.Spot) SpotResponse {
	return SpotResponse{
		ID: s.ID,
		Region: RegionRef{
			ID:     s.RegionID,
			Name:   s.RegionName,
			Status: s.RegionStatus,
		},
		Lat:       s.Lat,
		Lon:       s.Lon,
		Attempts:  s.Attempts,
		Popup:     s.Popup(),
		Road:      ToRoadResponse(s.Road),
		RoadError: s.RoadError,
		CreatedAt: s.CreatedAt,
	}
}

func ToSpotListResponse(spots []*domain.Spot) SpotListResponse {
	out := SpotListResponse{Spots: make([]SpotResponse, 0, len(spots)), Total: len(spots)}
	for _, s := range spots {
		out.Spots = append(out.Spots, ToSpotResponse(s))
	}
	return out
}

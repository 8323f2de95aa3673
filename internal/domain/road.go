package domain

import "github.com/paulmach/orb"

// Road - участок дороги (OSM way с тегом highway)
type Road struct {
	OSMID    int64             `json:"osm_id"`
	Name     string            `json:"name,omitempty"`
	Highway  string            `json:"highway"`
	Geometry orb.LineString    `json:"geometry"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// NearestRoad - ближайшая к точке дорога и соединяющий отрезок
type NearestRoad struct {
	Road           Road    `json:"road"`
	From           Point   `json:"from"`
	ClosestPoint   Point   `json:"closest_point"`
	DistanceMeters float64 `json:"distance_m"`
	SearchRadius   float64 `json:"search_radius_m"`
	Attempts       int     `json:"attempts"`
}

// Connector - линия от точки до ближайшей точки дороги
func (n *NearestRoad) Connector() orb.LineString {
	return orb.LineString{
		{n.From.Lon, n.From.Lat},
		{n.ClosestPoint.Lon, n.ClosestPoint.Lat},
	}
}

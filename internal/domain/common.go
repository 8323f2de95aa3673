package domain

type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// BoundingBox - минимальный прямоугольник, охватывающий все вершины геометрии
type BoundingBox struct {
	MinLat float64 `json:"min_lat" db:"min_lat"`
	MinLon float64 `json:"min_lon" db:"min_lon"`
	MaxLat float64 `json:"max_lat" db:"max_lat"`
	MaxLon float64 `json:"max_lon" db:"max_lon"`
}

// Width - протяженность по долготе в градусах
func (b BoundingBox) Width() float64 {
	return b.MaxLon - b.MinLon
}

// Height - протяженность по широте в градусах
func (b BoundingBox) Height() float64 {
	return b.MaxLat - b.MinLat
}

// IsDegenerate - прямоугольник нулевой площади (точка или отрезок)
func (b BoundingBox) IsDegenerate() bool {
	return b.Width() == 0 || b.Height() == 0
}

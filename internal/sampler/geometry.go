package sampler

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/random-spot/internal/domain"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
)

// polygons раскладывает поддерживаемую геометрию на список полигонов.
// Любой тип кроме Polygon и MultiPolygon - ErrUnsupportedGeometry, nil - ErrEmptyGeometry.
func polygons(g orb.Geometry) ([]orb.Polygon, error) {
	switch geom := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{geom}, nil
	case orb.MultiPolygon:
		return geom, nil
	case nil:
		return nil, pkgerrors.ErrEmptyGeometry
	default:
		return nil, unsupported(g)
	}
}

func unsupported(g orb.Geometry) error {
	return pkgerrors.ErrUnsupportedGeometry.WithDetails(map[string]interface{}{
		"geometry_type": g.GeoJSONType(),
	})
}

// BoundingBox возвращает минимальный прямоугольник по всем вершинам всех колец и частей
func BoundingBox(g orb.Geometry) (domain.BoundingBox, error) {
	polys, err := polygons(g)
	if err != nil {
		return domain.BoundingBox{}, err
	}

	box := domain.BoundingBox{
		MinLat: math.Inf(1),
		MinLon: math.Inf(1),
		MaxLat: math.Inf(-1),
		MaxLon: math.Inf(-1),
	}

	count := 0
	for _, poly := range polys {
		for _, ring := range poly {
			for _, p := range ring {
				box.MinLon = math.Min(box.MinLon, p.Lon())
				box.MaxLon = math.Max(box.MaxLon, p.Lon())
				box.MinLat = math.Min(box.MinLat, p.Lat())
				box.MaxLat = math.Max(box.MaxLat, p.Lat())
				count++
			}
		}
	}

	if count == 0 {
		return domain.BoundingBox{}, pkgerrors.ErrEmptyGeometry
	}

	return box, nil
}

// Contains проверяет попадание точки (lon, lat) в геометрию региона.
// Polygon - правило чет-нечет с учетом дыр, MultiPolygon - попадание в любую из частей.
// Точка на границе внешнего кольца считается внутри, на границе дыры - снаружи.
func Contains(g orb.Geometry, p orb.Point) (bool, error) {
	polys, err := polygons(g)
	if err != nil {
		return false, err
	}

	for _, poly := range polys {
		if polygonContains(poly, p) {
			return true, nil
		}
	}
	return false, nil
}

func polygonContains(poly orb.Polygon, p orb.Point) bool {
	// planar.RingContains паникует на пустых кольцах
	if len(poly) == 0 || len(poly[0]) == 0 {
		return false
	}
	if !planar.RingContains(poly[0], p) {
		return false
	}
	for _, hole := range poly[1:] {
		if len(hole) > 0 && planar.RingContains(hole, p) {
			return false
		}
	}
	return true
}

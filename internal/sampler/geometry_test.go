package sampler

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/random-spot/internal/domain"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(minLon, minLat, size float64) orb.Polygon {
	return rect(minLon, minLat, minLon+size, minLat+size)
}

func rect(minLon, minLat, maxLon, maxLat float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minLon, minLat},
		{minLon, maxLat},
		{maxLon, maxLat},
		{maxLon, minLat},
		{minLon, minLat},
	}}
}

func TestBoundingBox(t *testing.T) {
	t.Run("polygon", func(t *testing.T) {
		box, err := BoundingBox(square(0, 0, 10))
		require.NoError(t, err)
		assert.Equal(t, domain.BoundingBox{MinLat: 0, MinLon: 0, MaxLat: 10, MaxLon: 10}, box)
	})

	t.Run("multipolygon flattens every part and ring", func(t *testing.T) {
		withHole := orb.Polygon{
			rect(-5, -5, 5, 5)[0],
			rect(-1, -1, 1, 1)[0],
		}
		geom := orb.MultiPolygon{withHole, rect(20, 30, 25, 40)}

		box, err := BoundingBox(geom)
		require.NoError(t, err)
		assert.Equal(t, domain.BoundingBox{MinLat: -5, MinLon: -5, MaxLat: 40, MaxLon: 25}, box)
	})

	t.Run("empty geometries", func(t *testing.T) {
		for _, geom := range []orb.Geometry{nil, orb.Polygon{}, orb.Polygon{orb.Ring{}}, orb.MultiPolygon{}, orb.MultiPolygon{orb.Polygon{}}} {
			_, err := BoundingBox(geom)
			assert.ErrorIs(t, err, pkgerrors.ErrEmptyGeometry)
		}
	})

	t.Run("line string is unsupported", func(t *testing.T) {
		_, err := BoundingBox(orb.LineString{{0, 0}, {1, 1}})
		assert.ErrorIs(t, err, pkgerrors.ErrUnsupportedGeometry)

		appErr, ok := pkgerrors.As(err)
		require.True(t, ok)
		assert.Equal(t, "LineString", appErr.Details["geometry_type"])
	})
}

func TestContains(t *testing.T) {
	withHole := orb.Polygon{
		rect(0, 0, 10, 10)[0],
		rect(4, 4, 6, 6)[0],
	}

	tests := []struct {
		name   string
		geom   orb.Geometry
		point  orb.Point
		inside bool
	}{
		{"inside square", square(0, 0, 10), orb.Point{5, 5}, true},
		{"outside square", square(0, 0, 10), orb.Point{11, 5}, false},
		{"on the edge", square(0, 0, 10), orb.Point{0, 5}, true},
		{"inside ring of polygon with hole", withHole, orb.Point{2, 2}, true},
		{"inside hole", withHole, orb.Point{5, 5}, false},
		{"first part of multipolygon", orb.MultiPolygon{square(0, 0, 1), square(10, 10, 1)}, orb.Point{0.5, 0.5}, true},
		{"second part of multipolygon", orb.MultiPolygon{square(0, 0, 1), square(10, 10, 1)}, orb.Point{10.5, 10.5}, true},
		{"gap between parts", orb.MultiPolygon{square(0, 0, 1), square(10, 10, 1)}, orb.Point{5, 5}, false},
		{"overlapping parts", orb.MultiPolygon{square(0, 0, 2), square(1, 1, 2)}, orb.Point{1.5, 1.5}, true},
		{"empty part is skipped", orb.MultiPolygon{orb.Polygon{}, square(0, 0, 1)}, orb.Point{0.5, 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inside, err := Contains(tt.geom, tt.point)
			require.NoError(t, err)
			assert.Equal(t, tt.inside, inside)
		})
	}
}

func TestContains_UnsupportedGeometry(t *testing.T) {
	for _, geom := range []orb.Geometry{
		orb.LineString{{0, 0}, {1, 1}},
		orb.Point{1, 1},
		orb.MultiLineString{{{0, 0}, {1, 1}}},
		orb.Collection{square(0, 0, 1)},
	} {
		_, err := Contains(geom, orb.Point{0.5, 0.5})
		assert.ErrorIs(t, err, pkgerrors.ErrUnsupportedGeometry, geom.GeoJSONType())
	}
}

package postgresosm

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/random-spot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	assert.Empty(t, parseTags(nil))
	assert.Empty(t, parseTags([]byte("not json")))
	assert.Equal(t, map[string]string{"ref": "A-7"}, parseTags([]byte(`{"ref":"A-7"}`)))
}

func TestRoadName(t *testing.T) {
	tests := []struct {
		name     string
		tags     map[string]string
		expected string
	}{
		{"Gran Via", nil, "Gran Via"},
		{"  ", map[string]string{"ref": "A-7"}, "A-7"},
		{"", map[string]string{"name:en": "Coast Road", "ref": "N-340"}, "Coast Road"},
		{"", map[string]string{}, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, roadName(tt.name, tt.tags))
	}
}

func TestParseGeometry(t *testing.T) {
	g, err := parseGeometry(`{"type":"LineString","coordinates":[[2.1,41.3],[2.2,41.4]]}`)
	require.NoError(t, err)
	assert.Equal(t, orb.LineString{{2.1, 41.3}, {2.2, 41.4}}, g)

	_, err = parseGeometry(`{"type":`)
	assert.Error(t, err)
}

func TestLineFromGeometry(t *testing.T) {
	line, ok := lineFromGeometry(orb.MultiLineString{
		{{0, 0}, {1, 1}},
		{{0, 0}, {1, 1}, {2, 2}},
	})
	require.True(t, ok)
	assert.Len(t, line, 3)

	_, ok = lineFromGeometry(orb.LineString{{0, 0}})
	assert.False(t, ok)

	_, ok = lineFromGeometry(orb.Point{0, 0})
	assert.False(t, ok)
}

func TestRegionFromRow(t *testing.T) {
	row := regionRow{
		OSMID:    -2202162,
		Name:     "France",
		TagsJSON: []byte(`{"ISO3166-1:alpha3":"FRA","political_status":"Member State"}`),
	}
	keys := domain.PropertyKeys{Name: "name", Status: "political_status", Parent: "ISO3166-1:alpha3"}

	region := regionFromRow(row, orb.Polygon{}, keys)

	assert.Equal(t, "fra", region.ID)
	assert.Equal(t, "France", region.Name)
	assert.Equal(t, "Member State", region.Status)
	assert.Equal(t, "FRA", region.Parent)
	assert.Equal(t, int64(-2202162), region.Properties["osm_id"])
}

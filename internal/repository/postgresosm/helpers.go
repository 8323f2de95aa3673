package postgresosm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func parseTags(raw []byte) map[string]string {
	if len(raw) == 0 {
		return map[string]string{}
	}

	var tmp map[string]string
	if err := json.Unmarshal(raw, &tmp); err != nil {
		return map[string]string{}
	}

	return tmp
}

func pickTag(tags map[string]string, keys ...string) string {
	for _, key := range keys {
		if val, ok := tags[key]; ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// roadName - название дороги; безымянные дороги подписываются по ref
func roadName(name string, tags map[string]string) string {
	if strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	return pickTag(tags, "name:en", "ref", "int_ref")
}

// parseGeometry разбирает результат ST_AsGeoJSON
func parseGeometry(raw string) (orb.Geometry, error) {
	g, err := geojson.UnmarshalGeometry([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parse geojson geometry: %w", err)
	}
	return g.Geometry(), nil
}

// lineFromGeometry приводит геометрию линии к LineString.
// Для MultiLineString берется самая длинная часть.
func lineFromGeometry(g orb.Geometry) (orb.LineString, bool) {
	switch v := g.(type) {
	case orb.LineString:
		return v, len(v) >= 2
	case orb.MultiLineString:
		var best orb.LineString
		for _, ls := range v {
			if len(ls) > len(best) {
				best = ls
			}
		}
		return best, len(best) >= 2
	default:
		return nil, false
	}
}

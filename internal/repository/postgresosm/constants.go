package postgresosm

const (
	SRID4326 = 4326

	// LimitRoads - максимум дорог-кандидатов на один радиус поиска
	LimitRoads = 50

	// geoJSONPrecision - знаков после запятой в ST_AsGeoJSON (~1 см)
	geoJSONPrecision = 7
)

const (
	planetLineTable    = "planet_osm_line"
	planetPolygonTable = "planet_osm_polygon"
)

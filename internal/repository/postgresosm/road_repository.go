package postgresosm

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/random-spot/internal/domain"
	"github.com/random-spot/internal/domain/repository"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"go.uber.org/zap"
)

type roadRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

type roadRow struct {
	OSMID    int64  `db:"osm_id"`
	Name     string `db:"name"`
	Highway  string `db:"highway"`
	TagsJSON []byte `db:"tags_json"`
	GeoJSON  string `db:"geojson"`
}

// NewRoadRepository создает поиск дорог по planet_osm_line
func NewRoadRepository(db *DB) repository.RoadRepository {
	return &roadRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// NearestRoads возвращает дороги (highway IS NOT NULL) в радиусе от точки, ближайшие первыми
func (r *roadRepository) NearestRoads(ctx context.Context, lat, lon, radiusMeters float64) ([]*domain.Road, error) {
	query := fmt.Sprintf(`
		WITH point AS (
			SELECT ST_SetSRID(ST_MakePoint($1, $2), %d)::geography AS geom
		)
		SELECT
			osm_id,
			COALESCE(name, '') AS name,
			highway,
			COALESCE(hstore_to_json(tags)::text, '{}') AS tags_json,
			ST_AsGeoJSON(ST_Transform(way, %d), %d) AS geojson
		FROM %s, point
		WHERE highway IS NOT NULL
		  AND ST_DWithin(ST_Transform(way, %d)::geography, point.geom, $3)
		ORDER BY ST_Distance(ST_Transform(way, %d)::geography, point.geom)
		LIMIT $4
	`, SRID4326, SRID4326, geoJSONPrecision, planetLineTable, SRID4326, SRID4326)

	rows, err := r.db.QueryxContext(ctx, query, lon, lat, radiusMeters, LimitRoads)
	if err != nil {
		r.logger.Error("failed to get nearest osm roads",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Float64("radius_m", radiusMeters),
			zap.Error(err))
		return nil, pkgerrors.ErrDatabaseError
	}
	defer rows.Close()

	var roads []*domain.Road
	for rows.Next() {
		var row roadRow
		if err := rows.StructScan(&row); err != nil {
			r.logger.Error("failed to scan road row", zap.Error(err))
			continue
		}

		geom, err := parseGeometry(row.GeoJSON)
		if err != nil {
			r.logger.Warn("skipping road with invalid geometry", zap.Int64("osm_id", row.OSMID), zap.Error(err))
			continue
		}
		line, ok := lineFromGeometry(geom)
		if !ok {
			continue
		}

		tags := parseTags(row.TagsJSON)
		roads = append(roads, &domain.Road{
			OSMID:    row.OSMID,
			Name:     roadName(row.Name, tags),
			Highway:  row.Highway,
			Geometry: line,
			Tags:     tags,
		})
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("failed to iterate road rows", zap.Error(err))
		return nil, pkgerrors.ErrDatabaseError
	}

	return roads, nil
}

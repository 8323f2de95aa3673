package postgresosm

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/paulmach/orb"
	"github.com/random-spot/internal/config"
	"github.com/random-spot/internal/domain"
	"github.com/random-spot/internal/domain/repository"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"go.uber.org/zap"
)

type regionRepository struct {
	db         *sqlx.DB
	logger     *zap.Logger
	adminLevel int
	keys       domain.PropertyKeys
}

type regionRow struct {
	OSMID    int64  `db:"osm_id"`
	Name     string `db:"name"`
	TagsJSON []byte `db:"tags_json"`
	GeoJSON  string `db:"geojson"`
}

// NewRegionRepository создает репозиторий административных границ из planet_osm_polygon.
// Статус и родитель берутся из OSM тегов с настроенными именами.
func NewRegionRepository(db *DB, cfg *config.BoundariesConfig) repository.RegionRepository {
	return &regionRepository{
		db:         db.DB,
		logger:     db.logger,
		adminLevel: cfg.AdminLevel,
		keys: domain.PropertyKeys{
			Name:   "name",
			Status: cfg.StatusProperty,
			Parent: cfg.ParentProperty,
		},
	}
}

func (r *regionRepository) Source() string {
	return fmt.Sprintf("osm:%s(admin_level=%d)", planetPolygonTable, r.adminLevel)
}

// LoadAll возвращает границы заданного admin_level (по одной записи на osm_id)
func (r *regionRepository) LoadAll(ctx context.Context) ([]*domain.Region, error) {
	// osm2pgsql режет большие мультиполигоны на части: собираем их обратно
	query := fmt.Sprintf(`
		SELECT
			osm_id,
			MAX(name) AS name,
			MAX(hstore_to_json(tags)::text) AS tags_json,
			ST_AsGeoJSON(ST_Multi(ST_Union(ST_Transform(way, %d))), %d) AS geojson
		FROM %s
		WHERE boundary = 'administrative'
		  AND admin_level = $1
		  AND name IS NOT NULL
		GROUP BY osm_id
		ORDER BY MAX(name)
	`, SRID4326, geoJSONPrecision, planetPolygonTable)

	rows, err := r.db.QueryxContext(ctx, query, strconv.Itoa(r.adminLevel))
	if err != nil {
		r.logger.Error("failed to load osm boundaries", zap.Error(err))
		return nil, pkgerrors.ErrBoundariesUnavailable.WithDetails(map[string]interface{}{
			"source": r.Source(),
		})
	}
	defer rows.Close()

	var regions []*domain.Region
	for rows.Next() {
		var row regionRow
		if err := rows.StructScan(&row); err != nil {
			r.logger.Error("failed to scan boundary row", zap.Error(err))
			continue
		}

		geom, err := parseGeometry(row.GeoJSON)
		if err != nil {
			r.logger.Warn("skipping boundary with invalid geometry",
				zap.Int64("osm_id", row.OSMID),
				zap.Error(err))
			continue
		}

		regions = append(regions, regionFromRow(row, geom, r.keys))
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("failed to iterate boundary rows", zap.Error(err))
		return nil, pkgerrors.ErrDatabaseError
	}

	r.logger.Info("boundaries loaded",
		zap.String("source", r.Source()),
		zap.Int("features", len(regions)))

	return regions, nil
}

func regionFromRow(row regionRow, geom orb.Geometry, keys domain.PropertyKeys) *domain.Region {
	tags := parseTags(row.TagsJSON)
	props := make(map[string]interface{}, len(tags)+2)
	for k, v := range tags {
		props[k] = v
	}
	props["name"] = row.Name
	props["osm_id"] = row.OSMID

	id := strings.ToLower(pickTag(tags, "ISO3166-1:alpha3", "ISO3166-1", "ISO3166-2"))
	return domain.RegionFromProperties(id, props, geom, keys)
}

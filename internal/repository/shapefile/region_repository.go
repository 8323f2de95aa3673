// Package shapefile читает границы регионов из ESRI Shapefile (например, Natural Earth admin-0).
package shapefile

import (
	"context"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/random-spot/internal/config"
	"github.com/random-spot/internal/domain"
	"github.com/random-spot/internal/domain/repository"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"go.uber.org/zap"
)

type regionRepository struct {
	path   string
	keys   domain.PropertyKeys
	logger *zap.Logger
}

// NewRegionRepository создает репозиторий границ из .shp файла (рядом должен лежать .dbf)
func NewRegionRepository(cfg *config.BoundariesConfig, logger *zap.Logger) repository.RegionRepository {
	return &regionRepository{
		path: cfg.Path,
		keys: domain.PropertyKeys{
			Name:   cfg.NameProperty,
			Status: cfg.StatusProperty,
			Parent: cfg.ParentProperty,
		},
		logger: logger,
	}
}

func (r *regionRepository) Source() string {
	return "shapefile:" + r.path
}

// LoadAll читает все полигональные записи. Имена атрибутов сравниваются без учета регистра.
func (r *regionRepository) LoadAll(ctx context.Context) ([]*domain.Region, error) {
	reader, err := shp.Open(r.path)
	if err != nil {
		r.logger.Error("failed to open shapefile", zap.String("path", r.path), zap.Error(err))
		return nil, pkgerrors.ErrBoundariesUnavailable.WithDetails(map[string]interface{}{
			"source": r.Source(),
		})
	}
	defer reader.Close()

	fields := reader.Fields()
	if len(fields) == 0 {
		r.logger.Error("shapefile has no attribute table", zap.String("path", r.path))
		return nil, pkgerrors.ErrBoundariesUnavailable.WithDetails(map[string]interface{}{
			"source": r.Source(),
			"reason": "missing dbf",
		})
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(string(f.Name[:]), "\x00 ")
	}

	var regions []*domain.Region
	skipped := 0
	for reader.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, shape := reader.Shape()

		geom := geometryFromShape(shape)
		if geom == nil {
			skipped++
			continue
		}

		props := make(map[string]interface{}, len(names))
		for i, name := range names {
			// DBF дополняет значения пробелами или NUL
			props[name] = strings.Trim(reader.ReadAttribute(n, i), "\x00 ")
		}

		regions = append(regions, domain.RegionFromProperties("", props, geom, r.propertyKeys(names)))
	}

	if err := reader.Err(); err != nil {
		r.logger.Error("failed to read shapefile", zap.String("path", r.path), zap.Error(err))
		return nil, pkgerrors.ErrBoundariesUnavailable.WithDetails(map[string]interface{}{
			"source": r.Source(),
		})
	}

	r.logger.Info("boundaries loaded",
		zap.String("source", r.Source()),
		zap.Int("features", len(regions)),
		zap.Int("skipped_non_polygon", skipped))

	return regions, nil
}

// propertyKeys сопоставляет настроенные имена свойств реальным именам полей DBF
func (r *regionRepository) propertyKeys(names []string) domain.PropertyKeys {
	match := func(key string) string {
		for _, name := range names {
			if strings.EqualFold(name, key) {
				return name
			}
		}
		return key
	}
	return domain.PropertyKeys{
		Name:   match(r.keys.Name),
		Status: match(r.keys.Status),
		Parent: match(r.keys.Parent),
	}
}

func geometryFromShape(shape shp.Shape) orb.Geometry {
	switch s := shape.(type) {
	case *shp.Polygon:
		return polygonFromParts(s.Parts, s.Points)
	case *shp.PolygonZ:
		return polygonFromParts(s.Parts, s.Points)
	case *shp.PolygonM:
		return polygonFromParts(s.Parts, s.Points)
	default:
		return nil
	}
}

// polygonFromParts собирает кольца shapefile в Polygon/MultiPolygon.
// Внешние кольца идут по часовой стрелке, дыры - против.
func polygonFromParts(parts []int32, points []shp.Point) orb.Geometry {
	var outers []orb.Polygon
	var holes []orb.Ring

	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		if int(start) >= end || end > len(points) {
			continue
		}

		ring := make(orb.Ring, 0, end-int(start))
		for _, p := range points[start:end] {
			ring = append(ring, orb.Point{p.X, p.Y})
		}
		if len(ring) < 4 {
			continue
		}

		if ring.Orientation() == orb.CCW {
			holes = append(holes, ring)
		} else {
			outers = append(outers, orb.Polygon{ring})
		}
	}

	// файл без соблюдения порядка обхода: все кольца считаем внешними
	if len(outers) == 0 {
		for _, h := range holes {
			outers = append(outers, orb.Polygon{h})
		}
		holes = nil
	}

	for _, hole := range holes {
		owner := len(outers) - 1
		for i, poly := range outers {
			if planar.RingContains(poly[0], hole[0]) {
				owner = i
				break
			}
		}
		outers[owner] = append(outers[owner], hole)
	}

	switch len(outers) {
	case 0:
		return nil
	case 1:
		return outers[0]
	default:
		return orb.MultiPolygon(outers)
	}
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/random-spot/internal/domain"
	"github.com/random-spot/internal/domain/repository"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"go.uber.org/zap"
)

type spotRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

type spotRow struct {
	domain.Spot
	RoadName      sql.NullString  `db:"road_name"`
	RoadDistanceM sql.NullFloat64 `db:"road_distance_m"`
}

func (r spotRow) toDomain() *domain.Spot {
	spot := r.Spot
	if r.RoadName.Valid || r.RoadDistanceM.Valid {
		spot.Road = &domain.NearestRoad{
			Road:           domain.Road{Name: r.RoadName.String},
			From:           domain.Point{Lat: spot.Lat, Lon: spot.Lon},
			DistanceMeters: r.RoadDistanceM.Float64,
		}
	}
	return &spot
}

const spotColumns = `id, region_id, region_name, region_status, lat, lon, attempts, road_name, road_distance_m, created_at`

// NewSpotRepository создает репозиторий истории точек
func NewSpotRepository(db *DB) repository.SpotRepository {
	return &spotRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Save сохраняет точку; дорога хранится только названием и расстоянием
func (r *spotRepository) Save(ctx context.Context, spot *domain.Spot) error {
	var roadName sql.NullString
	var roadDistance sql.NullFloat64
	if spot.Road != nil {
		roadName = sql.NullString{String: spot.Road.Road.Name, Valid: true}
		roadDistance = sql.NullFloat64{Float64: spot.Road.DistanceMeters, Valid: true}
	}

	if spot.CreatedAt.IsZero() {
		spot.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, spotsTable, spotColumns)

	_, err := r.db.ExecContext(ctx, query,
		spot.ID, spot.RegionID, spot.RegionName, spot.RegionStatus,
		spot.Lat, spot.Lon, spot.Attempts,
		roadName, roadDistance, spot.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to save spot", zap.String("id", spot.ID.String()), zap.Error(err))
		return pkgerrors.ErrDatabaseError
	}
	return nil
}

func (r *spotRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Spot, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, spotColumns, spotsTable)

	var row spotRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgerrors.ErrSpotNotFound
		}
		r.logger.Error("failed to get spot by id", zap.String("id", id.String()), zap.Error(err))
		return nil, pkgerrors.ErrDatabaseError
	}
	return row.toDomain(), nil
}

// List возвращает последние точки, новые первыми
func (r *spotRepository) List(ctx context.Context, filter domain.SpotFilter) ([]*domain.Spot, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	where := ""
	args := []interface{}{}
	if len(filter.RegionIDs) > 0 {
		args = append(args, pq.Array(filter.RegionIDs))
		where = fmt.Sprintf("WHERE region_id = ANY($%d)", len(args))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		%s
		ORDER BY created_at DESC
		LIMIT $%d
	`, spotColumns, spotsTable, where, len(args))

	var rows []spotRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("failed to list spots", zap.Strings("regions", filter.RegionIDs), zap.Error(err))
		return nil, pkgerrors.ErrDatabaseError
	}

	spots := make([]*domain.Spot, 0, len(rows))
	for _, row := range rows {
		spots = append(spots, row.toDomain())
	}
	return spots, nil
}

func (r *spotRepository) CountByRegion(ctx context.Context) (map[string]int, error) {
	query := fmt.Sprintf(`SELECT region_id, COUNT(*) FROM %s GROUP BY region_id`, spotsTable)

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to count spots by region", zap.Error(err))
		return nil, pkgerrors.ErrDatabaseError
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var regionID string
		var count int
		if err := rows.Scan(&regionID, &count); err != nil {
			r.logger.Error("failed to scan region count", zap.Error(err))
			continue
		}
		counts[regionID] = count
	}
	return counts, rows.Err()
}

func (r *spotRepository) LastCreatedAt(ctx context.Context) (*time.Time, error) {
	query := fmt.Sprintf(`SELECT MAX(created_at) FROM %s`, spotsTable)

	var last sql.NullTime
	if err := r.db.GetContext(ctx, &last, query); err != nil {
		r.logger.Error("failed to get last spot time", zap.Error(err))
		return nil, pkgerrors.ErrDatabaseError
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}

package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const spotsTable = "random_spots"

// Лимиты выборки истории
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ` + spotsTable + ` (
		id              UUID PRIMARY KEY,
		region_id       TEXT NOT NULL,
		region_name     TEXT NOT NULL,
		region_status   TEXT NOT NULL DEFAULT '',
		lat             DOUBLE PRECISION NOT NULL,
		lon             DOUBLE PRECISION NOT NULL,
		attempts        INTEGER NOT NULL,
		road_name       TEXT NULL,
		road_distance_m DOUBLE PRECISION NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_random_spots_created ON ` + spotsTable + ` (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_random_spots_region_created ON ` + spotsTable + ` (region_id, created_at DESC)`,
}

// EnsureSchema создает таблицу истории и индексы, если их нет
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.logger.Error("failed to apply schema", zap.Error(err))
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	db.logger.Info("Spot history schema ready", zap.String("table", spotsTable))
	return nil
}

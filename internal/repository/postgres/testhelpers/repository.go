package testhelpers

import (
	"context"
	"testing"

	"github.com/random-spot/internal/domain/repository"
	"github.com/random-spot/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB over the test connection with the schema applied
func (tdb *TestDB) NewDBForTest(t *testing.T) *postgres.DB {
	t.Helper()

	db := postgres.NewDBForTest(tdb.DB, tdb.Logger)
	if err := db.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	return db
}

// NewSpotRepositoryForTest creates a spot repository over a clean random_spots table
func (tdb *TestDB) NewSpotRepositoryForTest(t *testing.T) repository.SpotRepository {
	t.Helper()

	db := tdb.NewDBForTest(t)
	if err := tdb.Cleanup(context.Background()); err != nil {
		t.Fatalf("Failed to clean random_spots: %v", err)
	}
	return postgres.NewSpotRepository(db)
}

package testhelpers

import (
	"time"

	"github.com/google/uuid"
	"github.com/random-spot/internal/domain"
)

// NewSpotFixture builds a spot in the given region created at the given offset from now
func NewSpotFixture(regionID, regionName string, age time.Duration) *domain.Spot {
	return &domain.Spot{
		ID:           uuid.New(),
		RegionID:     regionID,
		RegionName:   regionName,
		RegionStatus: domain.StatusMemberState,
		Lat:          10.5,
		Lon:          -20.25,
		Attempts:     3,
		CreatedAt:    time.Now().UTC().Add(-age).Truncate(time.Microsecond),
	}
}

// WithRoad attaches a nearest road to a fixture spot
func WithRoad(spot *domain.Spot, name string, distance float64) *domain.Spot {
	spot.Road = &domain.NearestRoad{
		Road:           domain.Road{Name: name, Highway: "residential"},
		From:           domain.Point{Lat: spot.Lat, Lon: spot.Lon},
		DistanceMeters: distance,
	}
	return spot
}

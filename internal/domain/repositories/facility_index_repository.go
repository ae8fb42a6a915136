package repositories

import (
	"context"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
)

// FacilitySearchQuery filters the facility directory index
type FacilitySearchQuery struct {
	Query  string
	Region string
	// Radius filter applies when RadiusKm > 0
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	Limit     int
}

// FacilityIndexRepository maintains a searchable directory of facilities
type FacilityIndexRepository interface {
	// InitSchema ensures the index exists
	InitSchema(ctx context.Context) error

	// Index upserts the given facilities
	Index(ctx context.Context, facilities []entities.FacilityLocation) (int, error)

	// Search returns facilities matching the query, best match first
	Search(ctx context.Context, query FacilitySearchQuery) ([]entities.FacilitySearchHit, error)
}

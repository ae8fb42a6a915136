package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/repositories"
	apperrors "github.com/zatekoja/healthcaredecisionsupport/pkg/errors"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// FacilityDirectoryService publishes the loaded table to the search index and the
// snapshot database, and serves directory searches
type FacilityDirectoryService struct {
	data      *HospitalDataService
	index     repositories.FacilityIndexRepository
	snapshots repositories.MetricsSnapshotRepository
}

// NewFacilityDirectoryService creates a directory service. index and snapshots may be nil
// when the corresponding backend is disabled.
func NewFacilityDirectoryService(data *HospitalDataService, index repositories.FacilityIndexRepository, snapshots repositories.MetricsSnapshotRepository) *FacilityDirectoryService {
	return &FacilityDirectoryService{
		data:      data,
		index:     index,
		snapshots: snapshots,
	}
}

// SearchEnabled reports whether a search index is configured
func (s *FacilityDirectoryService) SearchEnabled() bool {
	return s.index != nil
}

// PublishDirectory creates the index schema if needed and upserts every facility
func (s *FacilityDirectoryService) PublishDirectory(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, apperrors.NewValidationError("facility search index is not configured")
	}

	facilities, err := s.data.FacilityLocations(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.index.InitSchema(ctx); err != nil {
		return 0, err
	}

	n, err := s.index.Index(ctx, facilities)
	if err != nil {
		return n, err
	}
	log.Info().Int("facilities", n).Msg("facility directory published")
	return n, nil
}

// ExportSnapshots upserts every row of the table into the snapshot database
func (s *FacilityDirectoryService) ExportSnapshots(ctx context.Context) (int, error) {
	if s.snapshots == nil {
		return 0, apperrors.NewValidationError("snapshot database is not configured")
	}

	n, err := s.snapshots.UpsertRecords(ctx, s.data.Table().Records())
	if err != nil {
		return n, err
	}
	log.Info().Int("rows", n).Str("version", s.data.Table().Version()).Msg("metrics snapshot exported")
	return n, nil
}

// Search queries the facility directory
func (s *FacilityDirectoryService) Search(ctx context.Context, query repositories.FacilitySearchQuery) ([]entities.FacilitySearchHit, error) {
	if s.index == nil {
		return nil, apperrors.NewValidationError("facility search index is not configured")
	}

	query.Query = strings.TrimSpace(query.Query)
	query.Region = strings.TrimSpace(query.Region)
	if query.RadiusKm < 0 {
		return nil, apperrors.NewValidationError("radius_km must not be negative")
	}
	if query.RadiusKm > 0 {
		if _, err := parseLocation(fmt.Sprintf("%g,%g", query.Latitude, query.Longitude)); err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid search origin: %v", err))
		}
	}
	switch {
	case query.Limit <= 0:
		query.Limit = defaultSearchLimit
	case query.Limit > maxSearchLimit:
		query.Limit = maxSearchLimit
	}

	return s.index.Search(ctx, query)
}

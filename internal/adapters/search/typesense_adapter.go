package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/repositories"
)

// IndexClient is the subset of the Typesense client the adapter needs
type IndexClient interface {
	InitSchema(ctx context.Context) error
	UpsertDocument(ctx context.Context, document map[string]interface{}) error
	Search(ctx context.Context, params *api.SearchCollectionParams) (*api.SearchResult, error)
}

// TypesenseAdapter implements the facility directory using Typesense
type TypesenseAdapter struct {
	client IndexClient
	now    func() time.Time
}

var _ repositories.FacilityIndexRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client IndexClient) *TypesenseAdapter {
	return &TypesenseAdapter{client: client, now: time.Now}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	if err := a.client.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to init facility index: %w", err)
	}
	return nil
}

// Index upserts every facility and returns how many were written
func (a *TypesenseAdapter) Index(ctx context.Context, facilities []entities.FacilityLocation) (int, error) {
	indexedAt := a.now().Unix()
	for i, f := range facilities {
		if err := a.client.UpsertDocument(ctx, buildFacilityDocument(f, indexedAt)); err != nil {
			return i, fmt.Errorf("failed to index facility %s: %w", f.ID, err)
		}
	}
	return len(facilities), nil
}

// Search searches the directory
func (a *TypesenseAdapter) Search(ctx context.Context, query repositories.FacilitySearchQuery) ([]entities.FacilitySearchHit, error) {
	result, err := a.client.Search(ctx, buildSearchParams(query))
	if err != nil {
		return nil, fmt.Errorf("failed to search facilities: %w", err)
	}

	hits := []entities.FacilitySearchHit{}
	if result == nil || result.Hits == nil {
		return hits, nil
	}
	for _, hit := range *result.Hits {
		if h, ok := hitToFacility(hit); ok {
			hits = append(hits, h)
		}
	}
	return hits, nil
}

func buildFacilityDocument(f entities.FacilityLocation, indexedAt int64) map[string]interface{} {
	return map[string]interface{}{
		"id":            f.ID,
		"hospital_id":   f.ID,
		"hospital_name": f.Name,
		"region":        f.Region,
		"location":      []float64{f.Latitude, f.Longitude},
		"indexed_at":    indexedAt,
	}
}

func buildSearchParams(query repositories.FacilitySearchQuery) *api.SearchCollectionParams {
	q := strings.TrimSpace(query.Query)
	if q == "" {
		q = "*"
	}

	var filters []string
	if query.Region != "" {
		filters = append(filters, fmt.Sprintf("region:=`%s`", query.Region))
	}
	if query.RadiusKm > 0 {
		filters = append(filters, fmt.Sprintf("location:(%f, %f, %f km)", query.Latitude, query.Longitude, query.RadiusKm))
	}

	params := &api.SearchCollectionParams{
		Q:       pointer.String(q),
		QueryBy: pointer.String("hospital_name,region"),
		PerPage: pointer.Int(query.Limit),
	}
	if len(filters) > 0 {
		params.FilterBy = pointer.String(strings.Join(filters, " && "))
	}
	return params
}

func hitToFacility(hit api.SearchResultHit) (entities.FacilitySearchHit, bool) {
	if hit.Document == nil {
		return entities.FacilitySearchHit{}, false
	}
	doc := *hit.Document

	id, _ := doc["hospital_id"].(string)
	if id == "" {
		return entities.FacilitySearchHit{}, false
	}
	name, _ := doc["hospital_name"].(string)
	region, _ := doc["region"].(string)

	out := entities.FacilitySearchHit{
		FacilitySummary: entities.FacilitySummary{ID: id, Name: name, Region: region},
	}
	if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
		lat, _ := loc[0].(float64)
		lon, _ := loc[1].(float64)
		out.Coordinates = entities.Coordinates{Latitude: lat, Longitude: lon}
		out.Location = fmt.Sprintf("%g, %g", lat, lon)
	}
	if hit.TextMatch != nil {
		out.Score = *hit.TextMatch
	}
	return out, true
}

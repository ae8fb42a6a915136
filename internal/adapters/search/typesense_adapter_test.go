package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/typesense/typesense-go/v2/typesense/api"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/repositories"
)

type MockIndexClient struct {
	mock.Mock
}

func (m *MockIndexClient) InitSchema(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockIndexClient) UpsertDocument(ctx context.Context, document map[string]interface{}) error {
	return m.Called(ctx, document).Error(0)
}

func (m *MockIndexClient) Search(ctx context.Context, params *api.SearchCollectionParams) (*api.SearchResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.SearchResult), args.Error(1)
}

func cityGeneral() entities.FacilityLocation {
	return entities.FacilityLocation{
		FacilitySummary: entities.FacilitySummary{ID: "H001", Name: "City General Hospital", Location: "40.7128, -74.006", Region: "Manhattan"},
		Coordinates:     entities.Coordinates{Latitude: 40.7128, Longitude: -74.006},
	}
}

func TestBuildFacilityDocument(t *testing.T) {
	doc := buildFacilityDocument(cityGeneral(), 1700000000)

	assert.Equal(t, map[string]interface{}{
		"id":            "H001",
		"hospital_id":   "H001",
		"hospital_name": "City General Hospital",
		"region":        "Manhattan",
		"location":      []float64{40.7128, -74.006},
		"indexed_at":    int64(1700000000),
	}, doc)
}

func TestBuildSearchParams(t *testing.T) {
	t.Run("match all without filters", func(t *testing.T) {
		params := buildSearchParams(repositories.FacilitySearchQuery{Limit: 10})
		assert.Equal(t, "*", *params.Q)
		assert.Equal(t, "hospital_name,region", *params.QueryBy)
		assert.Equal(t, 10, *params.PerPage)
		assert.Nil(t, params.FilterBy)
	})

	t.Run("region and radius", func(t *testing.T) {
		params := buildSearchParams(repositories.FacilitySearchQuery{
			Query:     " general ",
			Region:    "Manhattan",
			Latitude:  40.5,
			Longitude: -74,
			RadiusKm:  5,
			Limit:     3,
		})
		assert.Equal(t, "general", *params.Q)
		require.NotNil(t, params.FilterBy)
		assert.Equal(t, "region:=`Manhattan` && location:(40.500000, -74.000000, 5.000000 km)", *params.FilterBy)
	})
}

func TestHitToFacility(t *testing.T) {
	score := int64(578730123365187705)
	doc := map[string]interface{}{
		"hospital_id":   "H003",
		"hospital_name": "Metro Health Hospital",
		"region":        "Manhattan",
		"location":      []interface{}{40.72, -74.0},
	}

	hit, ok := hitToFacility(api.SearchResultHit{Document: &doc, TextMatch: &score})
	require.True(t, ok)
	assert.Equal(t, "H003", hit.ID)
	assert.Equal(t, "Metro Health Hospital", hit.Name)
	assert.Equal(t, 40.72, hit.Latitude)
	assert.Equal(t, -74.0, hit.Longitude)
	assert.Equal(t, "40.72, -74", hit.Location)
	assert.Equal(t, score, hit.Score)

	_, ok = hitToFacility(api.SearchResultHit{})
	assert.False(t, ok)

	empty := map[string]interface{}{"hospital_name": "No Id"}
	_, ok = hitToFacility(api.SearchResultHit{Document: &empty})
	assert.False(t, ok)
}

func TestTypesenseAdapter_Index(t *testing.T) {
	ctx := context.Background()
	client := new(MockIndexClient)
	adapter := NewTypesenseAdapter(client)
	adapter.now = func() time.Time { return time.Unix(42, 0) }

	second := cityGeneral()
	second.ID = "H002"

	client.On("UpsertDocument", ctx, mock.MatchedBy(func(doc map[string]interface{}) bool {
		return doc["id"] == "H001" && doc["indexed_at"] == int64(42)
	})).Return(nil).Once()
	client.On("UpsertDocument", ctx, mock.MatchedBy(func(doc map[string]interface{}) bool {
		return doc["id"] == "H002"
	})).Return(errors.New("503")).Once()

	n, err := adapter.Index(ctx, []entities.FacilityLocation{cityGeneral(), second})
	assert.Equal(t, 1, n)
	assert.ErrorContains(t, err, "failed to index facility H002")
	client.AssertExpectations(t)
}

func TestTypesenseAdapter_Search(t *testing.T) {
	ctx := context.Background()
	client := new(MockIndexClient)
	adapter := NewTypesenseAdapter(client)

	doc := map[string]interface{}{"hospital_id": "H001", "hospital_name": "City General Hospital", "region": "Manhattan"}
	client.On("Search", ctx, mock.AnythingOfType("*api.SearchCollectionParams")).
		Return(&api.SearchResult{Hits: &[]api.SearchResultHit{{Document: &doc}}}, nil).Once()
	client.On("Search", ctx, mock.AnythingOfType("*api.SearchCollectionParams")).
		Return(&api.SearchResult{}, nil).Once()
	client.On("Search", ctx, mock.AnythingOfType("*api.SearchCollectionParams")).
		Return(nil, errors.New("timeout")).Once()

	hits, err := adapter.Search(ctx, repositories.FacilitySearchQuery{Query: "general", Limit: 10})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "City General Hospital", hits[0].Name)

	hits, err = adapter.Search(ctx, repositories.FacilitySearchQuery{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = adapter.Search(ctx, repositories.FacilitySearchQuery{Limit: 10})
	assert.ErrorContains(t, err, "failed to search facilities")
	client.AssertExpectations(t)
}

func TestTypesenseAdapter_InitSchema(t *testing.T) {
	ctx := context.Background()
	client := new(MockIndexClient)
	client.On("InitSchema", ctx).Return(errors.New("unauthorized"))

	err := NewTypesenseAdapter(client).InitSchema(ctx)
	assert.ErrorContains(t, err, "unauthorized")
}

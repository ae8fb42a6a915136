package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/repositories"
	apperrors "github.com/zatekoja/healthcaredecisionsupport/pkg/errors"
)

type MockFacilityIndex struct {
	mock.Mock
}

func (m *MockFacilityIndex) InitSchema(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockFacilityIndex) Index(ctx context.Context, facilities []entities.FacilityLocation) (int, error) {
	args := m.Called(ctx, facilities)
	return args.Int(0), args.Error(1)
}

func (m *MockFacilityIndex) Search(ctx context.Context, query repositories.FacilitySearchQuery) ([]entities.FacilitySearchHit, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FacilitySearchHit), args.Error(1)
}

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) UpsertRecords(ctx context.Context, records []entities.MetricsRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

func TestFacilityDirectoryService_PublishDirectory(t *testing.T) {
	ctx := context.Background()
	index := new(MockFacilityIndex)
	svc := NewFacilityDirectoryService(loadFixture(t), index, nil)

	index.On("InitSchema", mock.Anything).Return(nil).Once()
	index.On("Index", mock.Anything, mock.MatchedBy(func(f []entities.FacilityLocation) bool {
		return len(f) == 5 && f[0].ID == "H001" && f[0].Latitude == 40.7580
	})).Return(5, nil).Once()

	n, err := svc.PublishDirectory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	index.AssertExpectations(t)
}

func TestFacilityDirectoryService_PublishDirectorySchemaFailure(t *testing.T) {
	index := new(MockFacilityIndex)
	svc := NewFacilityDirectoryService(loadFixture(t), index, nil)

	index.On("InitSchema", mock.Anything).Return(errors.New("typesense unavailable")).Once()

	_, err := svc.PublishDirectory(context.Background())
	assert.EqualError(t, err, "typesense unavailable")
	index.AssertNotCalled(t, "Index", mock.Anything, mock.Anything)
}

func TestFacilityDirectoryService_ExportSnapshots(t *testing.T) {
	snapshots := new(MockSnapshotRepository)
	svc := NewFacilityDirectoryService(loadFixture(t), nil, snapshots)

	snapshots.On("UpsertRecords", mock.Anything, mock.MatchedBy(func(r []entities.MetricsRecord) bool {
		return len(r) == 15
	})).Return(15, nil).Once()

	n, err := svc.ExportSnapshots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 15, n)
	snapshots.AssertExpectations(t)
}

func TestFacilityDirectoryService_Search(t *testing.T) {
	ctx := context.Background()
	index := new(MockFacilityIndex)
	svc := NewFacilityDirectoryService(loadFixture(t), index, nil)

	hits := []entities.FacilitySearchHit{{FacilitySummary: entities.FacilitySummary{ID: "H003"}}}
	index.On("Search", mock.Anything, repositories.FacilitySearchQuery{Query: "metro", Limit: 10}).Return(hits, nil).Once()
	index.On("Search", mock.Anything, repositories.FacilitySearchQuery{Query: "*", Region: "Bronx", Limit: 100}).Return(hits, nil).Once()

	got, err := svc.Search(ctx, repositories.FacilitySearchQuery{Query: " metro "})
	require.NoError(t, err)
	assert.Equal(t, hits, got)

	_, err = svc.Search(ctx, repositories.FacilitySearchQuery{Query: "*", Region: "Bronx", Limit: 500})
	require.NoError(t, err)

	_, err = svc.Search(ctx, repositories.FacilitySearchQuery{Query: "x", Latitude: 120, Longitude: 0, RadiusKm: 5})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = svc.Search(ctx, repositories.FacilitySearchQuery{Query: "x", RadiusKm: -1})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	index.AssertExpectations(t)
}

func TestFacilityDirectoryService_Disabled(t *testing.T) {
	svc := NewFacilityDirectoryService(loadFixture(t), nil, nil)

	assert.False(t, svc.SearchEnabled())
	_, err := svc.Search(context.Background(), repositories.FacilitySearchQuery{Query: "x"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	_, err = svc.PublishDirectory(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	_, err = svc.ExportSnapshots(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

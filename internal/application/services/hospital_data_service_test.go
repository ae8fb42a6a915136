package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
	apperrors "github.com/zatekoja/healthcaredecisionsupport/pkg/errors"
)

func TestHospitalDataService_FacilityListing(t *testing.T) {
	ctx := context.Background()
	svc := loadFixture(t)

	count, err := svc.FacilityCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	all, err := svc.ListFacilities(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, entities.FacilitySummary{
		ID:       "H001",
		Name:     "City General Hospital",
		Location: "40.7580,-73.9855",
		Region:   "Manhattan",
	}, all[0])

	manhattan, err := svc.ListFacilities(ctx, " manhattan ")
	require.NoError(t, err)
	require.Len(t, manhattan, 2)
	assert.Equal(t, "H001", manhattan[0].ID)
	assert.Equal(t, "H003", manhattan[1].ID)

	none, err := svc.ListFacilities(ctx, "Staten Island")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	regions, err := svc.RegionDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entities.RegionCount{
		{Region: "Bronx", Count: 1},
		{Region: "Brooklyn", Count: 1},
		{Region: "Manhattan", Count: 2},
		{Region: "Queens", Count: 1},
	}, regions)
}

func TestHospitalDataService_Details(t *testing.T) {
	ctx := context.Background()
	svc := loadFixture(t)

	row, err := svc.Details(ctx, "st. mary's medical center", "2024-10-19")
	require.NoError(t, err)
	assert.Equal(t, "H002", row["hospital_id"])
	assert.Equal(t, 91, row["beds_occupied"])
	assert.Equal(t, 3.0, row["transport_cost_per_km"])
	assert.Equal(t, "critical", row["burnout_risk_score"])
	assert.Len(t, row, 30)

	t.Run("unknown name carries suggestions", func(t *testing.T) {
		_, err := svc.Details(ctx, "Medical", "2024-10-19")
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
		assert.Equal(t, []string{"St. Mary's Medical Center", "Northside Medical Center"}, appErr.Suggestions)
		assert.Equal(t, "Hospital 'Medical' not found. Did you mean: St. Mary's Medical Center, Northside Medical Center?", appErr.Explain())
	})

	t.Run("known name on unknown date", func(t *testing.T) {
		_, err := svc.Details(ctx, "City General Hospital", "2024-10-21")
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
		assert.Empty(t, appErr.Suggestions)
		assert.Contains(t, appErr.Message, "2024-10-21")
	})
}

func TestHospitalDataService_ColumnValue(t *testing.T) {
	ctx := context.Background()
	svc := loadFixture(t)

	single, err := svc.ColumnValue(ctx, "City General Hospital", "beds_occupied", "2024-10-20")
	require.NoError(t, err)
	assert.Equal(t, 190, single.Value)
	assert.Equal(t, "2024-10-20", single.Date)
	assert.Nil(t, single.Values)

	series, err := svc.ColumnValue(ctx, "City General Hospital", "beds_occupied", "")
	require.NoError(t, err)
	assert.Equal(t, []entities.SeriesPoint{
		{Date: "2024-10-18", Value: 150},
		{Date: "2024-10-19", Value: 170},
		{Date: "2024-10-20", Value: 190},
	}, series.Values)

	_, err = svc.ColumnValue(ctx, "City General Hospital", "bed_count", "2024-10-20")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnknownColumn))
	assert.Contains(t, err.Error(), "get_column_names")

	_, err = svc.ColumnValue(ctx, "Nowhere General", "beds_occupied", "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	_, err = svc.ColumnValue(ctx, "City General Hospital", "beds_occupied", "2023-01-01")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestHospitalDataService_Columns(t *testing.T) {
	ctx := context.Background()
	svc := loadFixture(t)

	names, err := svc.ColumnNames(ctx)
	require.NoError(t, err)
	require.Len(t, names, 30)
	assert.Equal(t, "date", names[0])
	assert.Equal(t, "other_infectious_cases", names[29])

	catalog, err := svc.ColumnCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, catalog.TotalColumns)
	assert.Equal(t, CategoryIdentification, catalog.Categories[0].Category)
	assert.Equal(t, []string{"date", "hospital_id", "hospital_name", "region", "location"}, catalog.Categories[0].Columns)

	total := 0
	for _, c := range catalog.Categories {
		total += len(c.Columns)
		assert.NotEqual(t, CategoryOther, c.Category)
	}
	assert.Equal(t, 30, total)
}

func TestHospitalDataService_DateRange(t *testing.T) {
	got, err := loadFixture(t).DateRange(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &entities.DateRange{
		StartDate: "2024-10-18",
		EndDate:   "2024-10-20",
		TotalDays: 3,
		AllDates:  []string{"2024-10-18", "2024-10-19", "2024-10-20"},
	}, got)
}

func TestHospitalDataService_SearchFacilities(t *testing.T) {
	ctx := context.Background()
	svc := loadFixture(t)

	got, err := svc.SearchFacilities(ctx, map[string]string{"region": "MANHATTAN", "beds_occupied": "60"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "H003", got[0].ID)

	got, err = svc.SearchFacilities(ctx, map[string]string{"burnout_risk_score": "critical", "favourite_colour": "blue"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "H002", got[0].ID)

	got, err = svc.SearchFacilities(ctx, map[string]string{"transport_cost_per_km": "2.5"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "H003", got[0].ID)

	got, err = svc.SearchFacilities(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, got, 5)

	_, err = svc.SearchFacilities(ctx, map[string]string{"bed_capacity": "lots"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestHospitalDataService_Location(t *testing.T) {
	ctx := context.Background()
	svc := loadFixture(t)

	loc, err := svc.Location(ctx, "northside medical center")
	require.NoError(t, err)
	assert.Equal(t, "H005", loc.ID)
	assert.Equal(t, entities.Coordinates{Latitude: 40.7690, Longitude: -73.9712}, loc.Coordinates)

	_, err = svc.Location(ctx, "Southside")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestHospitalDataService_MalformedLocation(t *testing.T) {
	ctx := context.Background()
	table, err := NewMetricsTable(rawTable(RequiredColumns,
		[]string{"H001", "City General Hospital", "2024-10-18", "200", "40.7580,-73.9855"},
		[]string{"H002", "Broken Clinic", "2024-10-18", "10", "40.7489;-73.9680"},
	))
	require.NoError(t, err)
	svc := NewHospitalDataService(table)

	_, err = svc.Location(ctx, "Broken Clinic")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMalformedLocation))
	assert.Contains(t, err.Error(), "Broken Clinic")

	_, err = svc.Distance(ctx, "City General Hospital", "Broken Clinic")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMalformedLocation))

	_, err = svc.NearestFacility(ctx, "City General Hospital")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMalformedLocation))

	_, err = svc.AllPairsDistances(ctx)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMalformedLocation))
}

func TestHospitalDataService_Distance(t *testing.T) {
	ctx := context.Background()
	svc := loadFixture(t)

	got, err := svc.Distance(ctx, "City General Hospital", "St. Mary's Medical Center")
	require.NoError(t, err)
	assert.Equal(t, 1.79, got.DistanceKm)
	assert.Equal(t, "H001", got.FromHospitalID)
	assert.Equal(t, "H002", got.ToHospitalID)

	reverse, err := svc.Distance(ctx, "st. mary's medical center", "city general hospital")
	require.NoError(t, err)
	assert.Equal(t, got.DistanceKm, reverse.DistanceKm)
	assert.Equal(t, "St. Mary's Medical Center", reverse.FromHospital)

	self, err := svc.Distance(ctx, "Metro Health Hospital", "Metro Health Hospital")
	require.NoError(t, err)
	assert.Zero(t, self.DistanceKm)

	t.Run("both sides missing", func(t *testing.T) {
		_, err := svc.Distance(ctx, "General", "Hospitalia")
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
		assert.Equal(t, "Hospital 'General' not found. Hospital 'Hospitalia' not found.", appErr.Message)
		assert.Equal(t, []string{"City General Hospital"}, appErr.Suggestions)
	})

	t.Run("one side missing", func(t *testing.T) {
		_, err := svc.Distance(ctx, "City General Hospital", "Metro")
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "Hospital 'Metro' not found.", appErr.Message)
		assert.Equal(t, []string{"Metro Health Hospital"}, appErr.Suggestions)
	})
}

func TestHospitalDataService_NearestFacility(t *testing.T) {
	ctx := context.Background()
	svc := loadFixture(t)

	tests := []struct {
		name   string
		wantID string
		wantKm float64
	}{
		{name: "City General Hospital", wantID: "H003", wantKm: 0.77},
		{name: "St. Mary's Medical Center", wantID: "H003", wantKm: 1.61},
		{name: "Riverside Community Hospital", wantID: "H001", wantKm: 1.07},
		{name: "Northside Medical Center", wantID: "H003", wantKm: 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.NearestFacility(ctx, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.name, got.ReferenceHospital)
			assert.Equal(t, tt.wantID, got.NearestHospitalID)
			assert.Equal(t, tt.wantKm, got.DistanceKm)
		})
	}
}

func TestHospitalDataService_NearestFacilityTieBreak(t *testing.T) {
	table, err := NewMetricsTable(rawTable(RequiredColumns,
		[]string{"H001", "Center", "2024-10-18", "1", "0,0"},
		[]string{"H009", "East", "2024-10-18", "1", "0,1"},
		[]string{"H002", "West", "2024-10-18", "1", "0,-1"},
	))
	require.NoError(t, err)

	got, err := NewHospitalDataService(table).NearestFacility(context.Background(), "Center")
	require.NoError(t, err)
	assert.Equal(t, "H002", got.NearestHospitalID)

	lonely, err := NewMetricsTable(rawTable(RequiredColumns, []string{"H001", "Center", "2024-10-18", "1", "0,0"}))
	require.NoError(t, err)
	_, err = NewHospitalDataService(lonely).NearestFacility(context.Background(), "Center")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestHospitalDataService_AllPairsDistances(t *testing.T) {
	ctx := context.Background()
	svc := loadFixture(t)

	matrix, err := svc.AllPairsDistances(ctx)
	require.NoError(t, err)

	// F*(F-1)/2 for five facilities
	assert.Equal(t, 10, matrix.TotalPairs)
	require.Len(t, matrix.Distances, 10)

	seen := make(map[string]bool)
	for _, d := range matrix.Distances {
		assert.Less(t, d.FromHospitalID, d.ToHospitalID)
		key := d.FromHospitalID + "-" + d.ToHospitalID
		assert.False(t, seen[key], "duplicate pair %s", key)
		seen[key] = true
	}

	assert.Equal(t, "H001", matrix.Distances[0].FromHospitalID)
	assert.Equal(t, "H002", matrix.Distances[0].ToHospitalID)
	assert.Equal(t, 1.79, matrix.Distances[0].DistanceKm)
	assert.Equal(t, 2.78, matrix.Distances[9].DistanceKm)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.AllPairsDistances(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

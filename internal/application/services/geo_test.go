package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    entities.Coordinates
		wantErr bool
	}{
		{name: "plain", input: "40.7580,-73.9855", want: entities.Coordinates{Latitude: 40.7580, Longitude: -73.9855}},
		{name: "spaces", input: " 40.7580 , -73.9855 ", want: entities.Coordinates{Latitude: 40.7580, Longitude: -73.9855}},
		{name: "empty", input: "", wantErr: true},
		{name: "single value", input: "40.7580", wantErr: true},
		{name: "three values", input: "40.7,-73.9,10", wantErr: true},
		{name: "not a number", input: "north,-73.9855", wantErr: true},
		{name: "latitude out of range", input: "91,0", wantErr: true},
		{name: "nan", input: "NaN,0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLocation(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHaversine_Properties(t *testing.T) {
	locations, err := loadFixture(t).FacilityLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locations, 5)

	for _, a := range locations {
		assert.Zero(t, haversineKm(a.Coordinates, a.Coordinates), "self distance of %s", a.ID)

		for _, b := range locations {
			assert.InDelta(t, haversineKm(a.Coordinates, b.Coordinates), haversineKm(b.Coordinates, a.Coordinates), 1e-9)

			for _, c := range locations {
				ab := haversineKm(a.Coordinates, b.Coordinates)
				bc := haversineKm(b.Coordinates, c.Coordinates)
				ac := haversineKm(a.Coordinates, c.Coordinates)
				assert.LessOrEqual(t, ac, ab+bc+1e-9, "%s-%s-%s", a.ID, b.ID, c.ID)
			}
		}
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	h001 := entities.Coordinates{Latitude: 40.7580, Longitude: -73.9855}
	h002 := entities.Coordinates{Latitude: 40.7489, Longitude: -73.9680}

	assert.InDelta(t, 1.78796, haversineKm(h001, h002), 1e-5)
	assert.Equal(t, 1.79, round2(haversineKm(h001, h002)))
}

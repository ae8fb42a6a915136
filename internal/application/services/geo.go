package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
)

const earthRadiusKm = 6371.0

// haversineKm is the great-circle distance between two points in kilometers
func haversineKm(from, to entities.Coordinates) float64 {
	dLat := degreesToRadians(to.Latitude - from.Latitude)
	dLon := degreesToRadians(to.Longitude - from.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(from.Latitude))*math.Cos(degreesToRadians(to.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// parseLocation parses "lat,lon" in decimal degrees
func parseLocation(location string) (entities.Coordinates, error) {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return entities.Coordinates{}, fmt.Errorf("expected 2 comma-separated values, got %d", len(parts))
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return entities.Coordinates{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return entities.Coordinates{}, fmt.Errorf("invalid longitude: %w", err)
	}
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return entities.Coordinates{}, fmt.Errorf("coordinates (%g, %g) out of range", lat, lon)
	}

	return entities.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

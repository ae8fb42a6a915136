package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/repositories"
)

// DefaultFacilityLocations seeds the location column for datasets exported without one
var DefaultFacilityLocations = map[string]string{
	"H001": "40.7580,-73.9855",
	"H002": "40.7489,-73.9680",
	"H003": "40.7614,-73.9776",
	"H004": "40.7505,-73.9934",
	"H005": "40.7690,-73.9712",
}

// MetricsLoader reads the metrics source, repairs the location column and builds the table
type MetricsLoader struct {
	source    repositories.MetricsSource
	locations map[string]string
	writeBack bool
}

// NewMetricsLoader creates a loader. When writeBack is false a backfilled table is
// used in memory only and the source is left untouched.
func NewMetricsLoader(source repositories.MetricsSource, locations map[string]string, writeBack bool) *MetricsLoader {
	if locations == nil {
		locations = DefaultFacilityLocations
	}
	return &MetricsLoader{
		source:    source,
		locations: locations,
		writeBack: writeBack,
	}
}

// Load reads the raw table from the source
func (l *MetricsLoader) Load(ctx context.Context) (*entities.RawTable, error) {
	return l.source.Load(ctx)
}

// EnsureSchema backfills the location column and writes the table back when it changed.
// It reports whether the table was modified.
func (l *MetricsLoader) EnsureSchema(ctx context.Context, raw *entities.RawTable) (bool, error) {
	changed := backfillLocations(raw, l.locations)
	if !changed {
		return false, nil
	}

	if !l.writeBack {
		log.Warn().Str("source", l.source.Describe()).Msg("location column backfilled in memory only, write-back disabled")
		return true, nil
	}

	if err := l.source.Save(ctx, raw); err != nil {
		return true, err
	}
	log.Info().Str("source", l.source.Describe()).Msg("location column backfilled and written back")
	return true, nil
}

// Open runs Load, EnsureSchema and NewMetricsTable
func (l *MetricsLoader) Open(ctx context.Context) (*MetricsTable, error) {
	raw, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := l.EnsureSchema(ctx, raw); err != nil {
		return nil, err
	}

	table, err := NewMetricsTable(raw)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("source", l.source.Describe()).
		Int("rows", len(table.Records())).
		Int("facilities", len(table.Facilities())).
		Str("version", table.Version()).
		Msg("metrics table loaded")
	return table, nil
}

// backfillLocations appends a location column when absent and fills blank cells of
// mapped ids when present. Without a hospital_id column nothing can be mapped.
func backfillLocations(raw *entities.RawTable, locations map[string]string) bool {
	idCol := raw.ColumnIndex(ColumnHospitalID)
	if idCol < 0 {
		return false
	}

	locCol := raw.ColumnIndex(ColumnLocation)
	if locCol < 0 {
		raw.Header = append(raw.Header, ColumnLocation)
		for i, row := range raw.Rows {
			loc := ""
			if idCol < len(row) {
				loc = locations[strings.TrimSpace(row[idCol])]
			}
			raw.Rows[i] = append(row, loc)
		}
		return true
	}

	changed := false
	for _, row := range raw.Rows {
		if idCol >= len(row) || locCol >= len(row) || strings.TrimSpace(row[locCol]) != "" {
			continue
		}
		if loc, ok := locations[strings.TrimSpace(row[idCol])]; ok {
			row[locCol] = loc
			changed = true
		}
	}
	return changed
}

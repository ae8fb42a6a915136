package repositories

import (
	"context"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
)

// MetricsSnapshotRepository persists copies of the metrics table for reporting
type MetricsSnapshotRepository interface {
	// UpsertRecords writes records keyed by (hospital_id, date) and returns the row count written
	UpsertRecords(ctx context.Context, records []entities.MetricsRecord) (int, error)
}

package repositories

import (
	"context"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
)

// MetricsSource defines where the hospital metrics table is read from and persisted to
type MetricsSource interface {
	// Load reads the whole table. A missing or unreadable source is a DATA_SOURCE error.
	Load(ctx context.Context) (*entities.RawTable, error)

	// Save replaces the source contents with table, in the same format Load reads
	Save(ctx context.Context, table *entities.RawTable) error

	// Describe names the source for logs and error messages
	Describe() string
}

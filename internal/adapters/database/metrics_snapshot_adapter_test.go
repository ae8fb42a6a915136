package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
	apperrors "github.com/zatekoja/healthcaredecisionsupport/pkg/errors"
)

func newSnapshotAdapter(t *testing.T) (*MetricsSnapshotAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	adapter := NewMetricsSnapshotAdapter(db, nil)
	adapter.now = func() time.Time { return time.Date(2024, 10, 21, 8, 0, 0, 0, time.UTC) }
	return adapter, mock
}

func snapshotRecord(id, date string) entities.MetricsRecord {
	return entities.MetricsRecord{
		Date:             date,
		HospitalID:       id,
		HospitalName:     "St. Mary's Medical Center",
		Region:           "Brooklyn",
		BedCapacity:      150,
		BedsOccupied:     140,
		BurnoutRiskScore: entities.BurnoutRiskHigh,
	}
}

func TestMetricsSnapshotAdapter_UpsertRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input skips the database", func(t *testing.T) {
		adapter, mock := newSnapshotAdapter(t)
		n, err := adapter.UpsertRecords(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("writes one upsert per batch", func(t *testing.T) {
		adapter, mock := newSnapshotAdapter(t)

		records := make([]entities.MetricsRecord, 0, snapshotBatchSize+1)
		for i := 0; i <= snapshotBatchSize; i++ {
			records = append(records, snapshotRecord(fmt.Sprintf("H%04d", i), "2024-10-18"))
		}

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "hospital_metrics" .* ON CONFLICT \(hospital_id, date\) DO UPDATE SET`).
			WillReturnResult(sqlmock.NewResult(0, snapshotBatchSize))
		mock.ExpectExec(`INSERT INTO "hospital_metrics"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		n, err := adapter.UpsertRecords(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, snapshotBatchSize+1, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		adapter, mock := newSnapshotAdapter(t)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "hospital_metrics"`).WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := adapter.UpsertRecords(ctx, []entities.MetricsRecord{snapshotRecord("H002", "2024-10-18")})
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeInternal, appErr.Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMetricsSnapshotAdapter_BuildUpsert(t *testing.T) {
	adapter, _ := newSnapshotAdapter(t)

	query, err := adapter.buildUpsert([]entities.MetricsRecord{snapshotRecord("H002", "2024-10-18")}, adapter.now())
	require.NoError(t, err)

	assert.Contains(t, query, `INSERT INTO "hospital_metrics"`)
	assert.Contains(t, query, `'H002'`)
	assert.Contains(t, query, `'St. Mary''s Medical Center'`)
	assert.Contains(t, query, `"burnout_risk_score"=EXCLUDED.burnout_risk_score`)
	assert.NotContains(t, query, `"hospital_id"=EXCLUDED`)
}

func TestMetricsSnapshotAdapter_EnsureSchema(t *testing.T) {
	adapter, mock := newSnapshotAdapter(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS hospital_metrics`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, adapter.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

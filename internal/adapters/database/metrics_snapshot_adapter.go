package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/repositories"
	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/healthcaredecisionsupport/pkg/errors"
)

const (
	snapshotTable     = "hospital_metrics"
	snapshotBatchSize = 500
)

const createSnapshotTable = `
	CREATE TABLE IF NOT EXISTS hospital_metrics (
		hospital_id        TEXT NOT NULL,
		date               TEXT NOT NULL,
		hospital_name      TEXT NOT NULL,
		region             TEXT NOT NULL DEFAULT '',
		location           TEXT NOT NULL DEFAULT '',
		bed_capacity       INTEGER NOT NULL,
		beds_occupied      INTEGER NOT NULL,
		icu_beds_total     INTEGER NOT NULL,
		icu_beds_occupied  INTEGER NOT NULL,
		ventilators_in_use INTEGER NOT NULL,
		burnout_risk_score TEXT NOT NULL DEFAULT '',
		payload            JSONB NOT NULL,
		exported_at        TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (hospital_id, date)
	)
`

// MetricsSnapshotAdapter copies metrics rows into PostgreSQL for reporting
type MetricsSnapshotAdapter struct {
	db      *sql.DB
	qb      goqu.DialectWrapper
	metrics *observability.Metrics
	now     func() time.Time
}

var _ repositories.MetricsSnapshotRepository = (*MetricsSnapshotAdapter)(nil)

// NewMetricsSnapshotAdapter creates a snapshot adapter; metrics may be nil
func NewMetricsSnapshotAdapter(db *sql.DB, metrics *observability.Metrics) *MetricsSnapshotAdapter {
	return &MetricsSnapshotAdapter{
		db:      db,
		qb:      goqu.Dialect("postgres"),
		metrics: metrics,
		now:     time.Now,
	}
}

// EnsureSchema creates the snapshot table when missing
func (a *MetricsSnapshotAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, createSnapshotTable); err != nil {
		return apperrors.NewInternalError("failed to create snapshot table", err)
	}
	return nil
}

// UpsertRecords writes records keyed by (hospital_id, date) in one transaction
func (a *MetricsSnapshotAdapter) UpsertRecords(ctx context.Context, records []entities.MetricsRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	start := time.Now()
	defer func() {
		observability.RecordDBMetric(ctx, a.metrics, "upsert_snapshots", time.Since(start))
	}()

	exportedAt := a.now().UTC()
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to begin snapshot transaction", err)
	}
	defer tx.Rollback()

	for lo := 0; lo < len(records); lo += snapshotBatchSize {
		hi := lo + snapshotBatchSize
		if hi > len(records) {
			hi = len(records)
		}

		query, err := a.buildUpsert(records[lo:hi], exportedAt)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return 0, apperrors.NewInternalError("failed to upsert metrics snapshot", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.NewInternalError("failed to commit metrics snapshot", err)
	}
	return len(records), nil
}

func (a *MetricsSnapshotAdapter) buildUpsert(records []entities.MetricsRecord, exportedAt time.Time) (string, error) {
	rows := make([]interface{}, 0, len(records))
	for _, r := range records {
		payload, err := json.Marshal(r)
		if err != nil {
			return "", apperrors.NewInternalError("failed to encode metrics record", err)
		}
		rows = append(rows, goqu.Record{
			"hospital_id":        r.HospitalID,
			"date":               r.Date,
			"hospital_name":      r.HospitalName,
			"region":             r.Region,
			"location":           r.Location,
			"bed_capacity":       r.BedCapacity,
			"beds_occupied":      r.BedsOccupied,
			"icu_beds_total":     r.ICUBedsTotal,
			"icu_beds_occupied":  r.ICUBedsOccupied,
			"ventilators_in_use": r.VentilatorsInUse,
			"burnout_risk_score": string(r.BurnoutRiskScore),
			"payload":            string(payload),
			"exported_at":        exportedAt,
		})
	}

	query, _, err := a.qb.Insert(snapshotTable).
		Rows(rows...).
		OnConflict(goqu.DoUpdate("hospital_id, date", goqu.Record{
			"hospital_name":      goqu.L("EXCLUDED.hospital_name"),
			"region":             goqu.L("EXCLUDED.region"),
			"location":           goqu.L("EXCLUDED.location"),
			"bed_capacity":       goqu.L("EXCLUDED.bed_capacity"),
			"beds_occupied":      goqu.L("EXCLUDED.beds_occupied"),
			"icu_beds_total":     goqu.L("EXCLUDED.icu_beds_total"),
			"icu_beds_occupied":  goqu.L("EXCLUDED.icu_beds_occupied"),
			"ventilators_in_use": goqu.L("EXCLUDED.ventilators_in_use"),
			"burnout_risk_score": goqu.L("EXCLUDED.burnout_risk_score"),
			"payload":            goqu.L("EXCLUDED.payload"),
			"exported_at":        goqu.L("EXCLUDED.exported_at"),
		})).
		ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build snapshot upsert", err)
	}
	return query, nil
}

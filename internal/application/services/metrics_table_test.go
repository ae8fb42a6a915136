package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zatekoja/healthcaredecisionsupport/pkg/errors"
)

func TestNewMetricsTable_MissingRequiredColumns(t *testing.T) {
	_, err := NewMetricsTable(rawTable([]string{"date", "hospital_id", "hospital_name"}))

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSchema))
	assert.Contains(t, err.Error(), "bed_capacity, location")
}

func TestNewMetricsTable_TypedCells(t *testing.T) {
	header := []string{"date", "hospital_id", "hospital_name", "bed_capacity", "location", "avg_wait_time_minutes", "burnout_risk_score", "trauma_level"}

	t.Run("integral floats and empty cells are accepted", func(t *testing.T) {
		table, err := NewMetricsTable(rawTable(header,
			[]string{"2024-10-18", "H001", "City General Hospital", "250.0", "40.7580,-73.9855", "", " High ", "II"},
		))
		require.NoError(t, err)

		rec := table.Records()[0]
		assert.Equal(t, 250, rec.BedCapacity)
		assert.Equal(t, 0.0, rec.AvgWaitTimeMinutes)
		assert.Equal(t, "high", string(rec.BurnoutRiskScore))
		assert.Equal(t, map[string]string{"trauma_level": "II"}, rec.Extra)
		assert.Equal(t, "II", table.value(0, "trauma_level"))
	})

	t.Run("non-numeric cell is a schema error", func(t *testing.T) {
		_, err := NewMetricsTable(rawTable(header,
			[]string{"2024-10-18", "H001", "City General Hospital", "many", "40.7580,-73.9855", "", "low", ""},
		))
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSchema))
		assert.Contains(t, err.Error(), "line 2, column 'bed_capacity'")
	})

	t.Run("fractional integer is a schema error", func(t *testing.T) {
		_, err := NewMetricsTable(rawTable(header,
			[]string{"2024-10-18", "H001", "City General Hospital", "12.5", "40.7580,-73.9855", "", "low", ""},
		))
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSchema))
	})

	t.Run("non-finite float is a schema error", func(t *testing.T) {
		for _, cell := range []string{"NaN", "Inf", "+Inf", "-inf"} {
			_, err := NewMetricsTable(rawTable(header,
				[]string{"2024-10-18", "H001", "City General Hospital", "10", "40.7580,-73.9855", cell, "low", ""},
			))
			require.Error(t, err, cell)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSchema), cell)
			assert.Contains(t, err.Error(), "column 'avg_wait_time_minutes'", cell)
		}
	})

	t.Run("overflowing or infinite integer is a schema error", func(t *testing.T) {
		for _, cell := range []string{"1e30", "-1e19", "Inf", "NaN"} {
			_, err := NewMetricsTable(rawTable(header,
				[]string{"2024-10-18", "H001", "City General Hospital", cell, "40.7580,-73.9855", "", "low", ""},
			))
			require.Error(t, err, cell)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSchema), cell)
		}
	})

	t.Run("blank identity is a schema error", func(t *testing.T) {
		_, err := NewMetricsTable(rawTable(header,
			[]string{"2024-10-18", "", "City General Hospital", "1", "40.7580,-73.9855", "", "low", ""},
		))
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSchema))
	})
}

func TestNewMetricsTable_DuplicateColumn(t *testing.T) {
	_, err := NewMetricsTable(rawTable([]string{"date", "hospital_id", "hospital_name", "bed_capacity", "location", "date"}))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSchema))
}

func TestMetricsTable_Indexes(t *testing.T) {
	svc := loadFixture(t)
	table := svc.Table()

	assert.Len(t, table.Records(), 15)
	assert.Len(t, table.Facilities(), 5)
	assert.Equal(t, "H001", table.Facilities()[0].ID)

	f, ok := table.facilityNamed("  city GENERAL hospital ")
	require.True(t, ok)
	assert.Equal(t, "H001", f.ID)

	assert.Equal(t, []int{0, 5, 10}, table.rowsByID["H001"])
	assert.Equal(t, []string{"St. Mary's Medical Center", "Northside Medical Center"}, table.nameSuggestions("medical"))
	assert.Empty(t, table.nameSuggestions("   "))
}

func TestMetricsTable_VersionIsContentFingerprint(t *testing.T) {
	a, err := NewMetricsTable(rawTable(RequiredColumns, []string{"H001", "A", "2024-10-18", "1", "1,1"}))
	require.NoError(t, err)
	b, err := NewMetricsTable(rawTable(RequiredColumns, []string{"H001", "A", "2024-10-18", "1", "1,1"}))
	require.NoError(t, err)
	c, err := NewMetricsTable(rawTable(RequiredColumns, []string{"H001", "A", "2024-10-18", "2", "1,1"}))
	require.NoError(t, err)

	assert.Equal(t, a.Version(), b.Version())
	assert.NotEqual(t, a.Version(), c.Version())
	assert.Len(t, a.Version(), 16)
}

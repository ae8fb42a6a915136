package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zatekoja/healthcaredecisionsupport/internal/adapters/csvsource"
	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
)

// testdata/hospital_trends.csv: five facilities (H001-H005) reporting on
// 2024-10-18, 2024-10-19 and 2024-10-20, stored date-major.
const fixturePath = "testdata/hospital_trends.csv"

func loadFixture(t *testing.T) *HospitalDataService {
	t.Helper()
	raw, err := csvsource.NewFileSource(fixturePath).Load(context.Background())
	require.NoError(t, err)

	table, err := NewMetricsTable(raw)
	require.NoError(t, err)
	return NewHospitalDataService(table)
}

func rawTable(header []string, rows ...[]string) *entities.RawTable {
	return &entities.RawTable{Header: header, Rows: rows}
}

// memorySource is an in-memory MetricsSource that records saves
type memorySource struct {
	table   *entities.RawTable
	loadErr error
	saveErr error
	saves   int
}

func (m *memorySource) Load(ctx context.Context) (*entities.RawTable, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return &entities.RawTable{
		Header: append([]string(nil), m.table.Header...),
		Rows:   copyRows(m.table.Rows),
	}, nil
}

func (m *memorySource) Save(ctx context.Context, table *entities.RawTable) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.table = &entities.RawTable{
		Header: append([]string(nil), table.Header...),
		Rows:   copyRows(table.Rows),
	}
	return nil
}

func (m *memorySource) Describe() string { return "memory" }

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

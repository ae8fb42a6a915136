package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
	apperrors "github.com/zatekoja/healthcaredecisionsupport/pkg/errors"
)

// MetricsTable is the validated, immutable in-memory form of the metrics table.
// It is safe for concurrent readers.
type MetricsTable struct {
	raw       *entities.RawTable
	columns   []string
	accessors map[string]func(r *entities.MetricsRecord) interface{}
	records   []entities.MetricsRecord

	facilities   []entities.FacilitySummary
	facilityByID map[string]int
	// lowercased name -> index of the first facility carrying that name
	facilityByName map[string]int
	rowsByID       map[string][]int

	version string
}

// NewMetricsTable validates raw and builds the typed table
func NewMetricsTable(raw *entities.RawTable) (*MetricsTable, error) {
	var missing []string
	for _, col := range RequiredColumns {
		if !raw.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}

	t := &MetricsTable{
		raw:            raw,
		columns:        append([]string(nil), raw.Header...),
		accessors:      make(map[string]func(r *entities.MetricsRecord) interface{}, len(raw.Header)),
		records:        make([]entities.MetricsRecord, 0, len(raw.Rows)),
		facilityByID:   make(map[string]int),
		facilityByName: make(map[string]int),
		rowsByID:       make(map[string][]int),
	}

	specs := make([]*columnSpec, len(raw.Header))
	for i, name := range raw.Header {
		if _, dup := t.accessors[name]; dup {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("duplicate column '%s'", name))
		}
		if spec, ok := columnsByName[name]; ok {
			specs[i] = spec
			t.accessors[name] = spec.get
			continue
		}
		extra := name
		t.accessors[name] = func(r *entities.MetricsRecord) interface{} { return r.Extra[extra] }
	}

	for rowIdx, row := range raw.Rows {
		// header is line 1
		line := rowIdx + 2
		if len(row) != len(raw.Header) {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("line %d has %d fields, expected %d", line, len(row), len(raw.Header)))
		}

		var rec entities.MetricsRecord
		for i, cell := range row {
			if specs[i] == nil {
				if rec.Extra == nil {
					rec.Extra = make(map[string]string)
				}
				rec.Extra[raw.Header[i]] = cell
				continue
			}
			if err := specs[i].set(&rec, cell); err != nil {
				return nil, apperrors.NewSchemaError(fmt.Sprintf("line %d, column '%s': %v", line, raw.Header[i], err))
			}
		}

		if rec.HospitalID == "" || rec.HospitalName == "" || rec.Date == "" {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("line %d is missing hospital_id, hospital_name or date", line))
		}

		t.records = append(t.records, rec)
		t.index(rowIdx, &rec)
	}

	t.version = fingerprint(raw)
	return t, nil
}

func (t *MetricsTable) index(rowIdx int, rec *entities.MetricsRecord) {
	t.rowsByID[rec.HospitalID] = append(t.rowsByID[rec.HospitalID], rowIdx)
	if _, seen := t.facilityByID[rec.HospitalID]; seen {
		return
	}

	t.facilities = append(t.facilities, entities.FacilitySummary{
		ID:       rec.HospitalID,
		Name:     rec.HospitalName,
		Location: rec.Location,
		Region:   rec.Region,
	})
	idx := len(t.facilities) - 1
	t.facilityByID[rec.HospitalID] = idx

	key := normalizeName(rec.HospitalName)
	if _, taken := t.facilityByName[key]; !taken {
		t.facilityByName[key] = idx
	}
}

// Columns returns the header in table order
func (t *MetricsTable) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether name is a column of this table
func (t *MetricsTable) HasColumn(name string) bool {
	_, ok := t.accessors[name]
	return ok
}

// Records returns the typed rows in stored order. Callers must not modify them.
func (t *MetricsTable) Records() []entities.MetricsRecord {
	return t.records
}

// Facilities returns the distinct facilities in discovery order
func (t *MetricsTable) Facilities() []entities.FacilitySummary {
	return append([]entities.FacilitySummary(nil), t.facilities...)
}

// Raw returns the untyped table the typed form was built from
func (t *MetricsTable) Raw() *entities.RawTable {
	return t.raw
}

// Version is a content fingerprint, stable across reloads of identical data
func (t *MetricsTable) Version() string {
	return t.version
}

// value reads a column of a stored row; column must exist
func (t *MetricsTable) value(rowIdx int, column string) interface{} {
	return t.accessors[column](&t.records[rowIdx])
}

// rowAsMap renders a stored row as column -> typed value
func (t *MetricsTable) rowAsMap(rowIdx int) map[string]interface{} {
	out := make(map[string]interface{}, len(t.columns))
	for _, col := range t.columns {
		out[col] = t.value(rowIdx, col)
	}
	return out
}

func (t *MetricsTable) facilityNamed(name string) (entities.FacilitySummary, bool) {
	idx, ok := t.facilityByName[normalizeName(name)]
	if !ok {
		return entities.FacilitySummary{}, false
	}
	return t.facilities[idx], true
}

// rowOn returns the first row of facility id on date
func (t *MetricsTable) rowOn(id, date string) (int, bool) {
	for _, rowIdx := range t.rowsByID[id] {
		if t.records[rowIdx].Date == date {
			return rowIdx, true
		}
	}
	return 0, false
}

// nameSuggestions returns known names containing query, case-insensitively
func (t *MetricsTable) nameSuggestions(query string) []string {
	q := normalizeName(query)
	if q == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for _, f := range t.facilities {
		if _, dup := seen[f.Name]; dup {
			continue
		}
		seen[f.Name] = struct{}{}
		if strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f.Name)
		}
	}
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func fingerprint(raw *entities.RawTable) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(raw.Header, "\x1f")))
	for _, row := range raw.Rows {
		h.Write([]byte{'\x1e'})
		h.Write([]byte(strings.Join(row, "\x1f")))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

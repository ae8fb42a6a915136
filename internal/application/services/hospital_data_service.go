package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/entities"
	apperrors "github.com/zatekoja/healthcaredecisionsupport/pkg/errors"
)

// HospitalQueries is the read-only operation set over the metrics table
type HospitalQueries interface {
	FacilityCount(ctx context.Context) (int, error)
	ListFacilities(ctx context.Context, region string) ([]entities.FacilitySummary, error)
	RegionDistribution(ctx context.Context) ([]entities.RegionCount, error)
	Details(ctx context.Context, name, date string) (map[string]interface{}, error)
	ColumnValue(ctx context.Context, name, column, date string) (*entities.ColumnValue, error)
	ColumnNames(ctx context.Context) ([]string, error)
	ColumnCatalog(ctx context.Context) (*entities.ColumnCatalog, error)
	DateRange(ctx context.Context) (*entities.DateRange, error)
	SearchFacilities(ctx context.Context, criteria map[string]string) ([]entities.FacilitySummary, error)

	Location(ctx context.Context, name string) (*entities.FacilityLocation, error)
	Distance(ctx context.Context, from, to string) (*entities.DistanceResult, error)
	NearestFacility(ctx context.Context, name string) (*entities.NearestFacility, error)
	AllPairsDistances(ctx context.Context) (*entities.DistanceMatrix, error)

	CapacityTrend(ctx context.Context, name string) (*entities.CapacityTrend, error)
	SystemStatistics(ctx context.Context, date string) (*entities.SystemStatistics, error)
	CompareFacilities(ctx context.Context, first, second, date string) (*entities.FacilityComparison, error)
	TravelCost(ctx context.Context, from, to, date string) (*entities.TravelCostEstimate, error)
}

// HospitalDataService answers queries over an immutable metrics table
type HospitalDataService struct {
	table *MetricsTable
}

var _ HospitalQueries = (*HospitalDataService)(nil)

// NewHospitalDataService creates a new hospital data service
func NewHospitalDataService(table *MetricsTable) *HospitalDataService {
	return &HospitalDataService{table: table}
}

// Table returns the underlying table
func (s *HospitalDataService) Table() *MetricsTable {
	return s.table
}

// FacilityCount returns the number of distinct facility ids
func (s *HospitalDataService) FacilityCount(ctx context.Context) (int, error) {
	return len(s.table.facilities), nil
}

// ListFacilities returns unique facilities in discovery order, optionally filtered by region
func (s *HospitalDataService) ListFacilities(ctx context.Context, region string) ([]entities.FacilitySummary, error) {
	region = strings.TrimSpace(region)
	out := make([]entities.FacilitySummary, 0, len(s.table.facilities))
	for _, f := range s.table.facilities {
		if region != "" && !strings.EqualFold(strings.TrimSpace(f.Region), region) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// RegionDistribution counts distinct facilities per region, sorted by region
func (s *HospitalDataService) RegionDistribution(ctx context.Context) ([]entities.RegionCount, error) {
	counts := make(map[string]int)
	for _, f := range s.table.facilities {
		counts[f.Region]++
	}

	out := make([]entities.RegionCount, 0, len(counts))
	for region, n := range counts {
		out = append(out, entities.RegionCount{Region: region, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out, nil
}

// Details returns the full row of a facility on a date
func (s *HospitalDataService) Details(ctx context.Context, name, date string) (map[string]interface{}, error) {
	f, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	rowIdx, ok := s.table.rowOn(f.ID, strings.TrimSpace(date))
	if !ok {
		return nil, noDataOn(f.Name, date)
	}
	return s.table.rowAsMap(rowIdx), nil
}

// ColumnValue returns one cell, or the whole dated series when date is empty
func (s *HospitalDataService) ColumnValue(ctx context.Context, name, column, date string) (*entities.ColumnValue, error) {
	column = strings.TrimSpace(column)
	if !s.table.HasColumn(column) {
		return nil, apperrors.NewUnknownColumnError(column)
	}

	f, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	result := &entities.ColumnValue{HospitalName: f.Name, Column: column}

	date = strings.TrimSpace(date)
	if date != "" {
		rowIdx, ok := s.table.rowOn(f.ID, date)
		if !ok {
			return nil, noDataOn(f.Name, date)
		}
		result.Date = date
		result.Value = s.table.value(rowIdx, column)
		return result, nil
	}

	rows := s.table.rowsByID[f.ID]
	result.Values = make([]entities.SeriesPoint, 0, len(rows))
	for _, rowIdx := range rows {
		result.Values = append(result.Values, entities.SeriesPoint{
			Date:  s.table.records[rowIdx].Date,
			Value: s.table.value(rowIdx, column),
		})
	}
	return result, nil
}

// ColumnNames returns the columns in table order
func (s *HospitalDataService) ColumnNames(ctx context.Context) ([]string, error) {
	return s.table.Columns(), nil
}

// ColumnCatalog groups the table's columns by category
func (s *HospitalDataService) ColumnCatalog(ctx context.Context) (*entities.ColumnCatalog, error) {
	byCategory := make(map[string][]string)
	for _, col := range s.table.columns {
		category := CategoryOther
		if spec, ok := columnsByName[col]; ok {
			category = spec.category
		}
		byCategory[category] = append(byCategory[category], col)
	}

	catalog := &entities.ColumnCatalog{TotalColumns: len(s.table.columns)}
	for _, category := range categoryOrder {
		cols, ok := byCategory[category]
		if !ok {
			continue
		}
		catalog.Categories = append(catalog.Categories, entities.ColumnCategory{Category: category, Columns: cols})
	}
	return catalog, nil
}

// DateRange returns the distinct dates of the table. ISO dates sort lexicographically.
func (s *HospitalDataService) DateRange(ctx context.Context) (*entities.DateRange, error) {
	seen := make(map[string]struct{})
	dates := make([]string, 0)
	for i := range s.table.records {
		d := s.table.records[i].Date
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return nil, apperrors.NewNotFoundError("The metrics table has no rows.")
	}
	sort.Strings(dates)

	return &entities.DateRange{
		StartDate: dates[0],
		EndDate:   dates[len(dates)-1],
		TotalDays: len(dates),
		AllDates:  dates,
	}, nil
}

// SearchFacilities returns facilities having at least one row matching every criterion.
// String columns compare case-insensitively; criteria naming unknown columns are ignored.
func (s *HospitalDataService) SearchFacilities(ctx context.Context, criteria map[string]string) ([]entities.FacilitySummary, error) {
	type criterion struct {
		column string
		kind   columnKind
		text   string
		num    float64
	}

	var active []criterion
	for column, want := range criteria {
		if !s.table.HasColumn(column) {
			continue
		}
		c := criterion{column: column, kind: kindString, text: strings.TrimSpace(want)}
		if spec, ok := columnsByName[column]; ok && spec.kind != kindString {
			n, err := strconv.ParseFloat(c.text, 64)
			if err != nil {
				return nil, apperrors.NewValidationError(fmt.Sprintf("criterion '%s' expects a number, got %q", column, want))
			}
			c.kind = spec.kind
			c.num = n
		}
		active = append(active, c)
	}

	matches := func(rowIdx int) bool {
		for _, c := range active {
			switch v := s.table.value(rowIdx, c.column).(type) {
			case int:
				if float64(v) != c.num {
					return false
				}
			case float64:
				if v != c.num {
					return false
				}
			case string:
				if !strings.EqualFold(strings.TrimSpace(v), c.text) {
					return false
				}
			}
		}
		return true
	}

	out := make([]entities.FacilitySummary, 0)
	seen := make(map[string]struct{})
	for rowIdx := range s.table.records {
		id := s.table.records[rowIdx].HospitalID
		if _, dup := seen[id]; dup || !matches(rowIdx) {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, s.table.facilities[s.table.facilityByID[id]])
	}
	return out, nil
}

// Location returns the parsed coordinates of a facility
func (s *HospitalDataService) Location(ctx context.Context, name string) (*entities.FacilityLocation, error) {
	f, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	coords, err := locate(f)
	if err != nil {
		return nil, err
	}
	return &entities.FacilityLocation{FacilitySummary: f, Coordinates: coords}, nil
}

// FacilityLocations returns every facility with parsed coordinates, in discovery order
func (s *HospitalDataService) FacilityLocations(ctx context.Context) ([]entities.FacilityLocation, error) {
	out := make([]entities.FacilityLocation, 0, len(s.table.facilities))
	for _, f := range s.table.facilities {
		coords, err := locate(f)
		if err != nil {
			return nil, err
		}
		out = append(out, entities.FacilityLocation{FacilitySummary: f, Coordinates: coords})
	}
	return out, nil
}

// Distance returns the haversine distance between two facilities, rounded to 2 decimals
func (s *HospitalDataService) Distance(ctx context.Context, from, to string) (*entities.DistanceResult, error) {
	a, errA := s.resolve(from)
	b, errB := s.resolve(to)
	if err := joinNotFound(errA, errB); err != nil {
		return nil, err
	}
	return distanceBetween(a, b)
}

// NearestFacility returns the closest other facility.
// Equal distances resolve to the smallest hospital id.
func (s *HospitalDataService) NearestFacility(ctx context.Context, name string) (*entities.NearestFacility, error) {
	ref, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	refCoords, err := locate(ref)
	if err != nil {
		return nil, err
	}

	var (
		best     entities.FacilitySummary
		bestDist float64
		found    bool
	)
	for _, f := range s.table.facilities {
		if f.ID == ref.ID {
			continue
		}
		coords, err := locate(f)
		if err != nil {
			return nil, err
		}
		d := haversineKm(refCoords, coords)
		if !found || d < bestDist || (d == bestDist && f.ID < best.ID) {
			best, bestDist, found = f, d, true
		}
	}
	if !found {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("No other hospitals to compare '%s' against.", ref.Name))
	}

	return &entities.NearestFacility{
		ReferenceHospital: ref.Name,
		NearestHospital:   best.Name,
		NearestHospitalID: best.ID,
		DistanceKm:        round2(bestDist),
	}, nil
}

// AllPairsDistances returns the distance of every unordered facility pair with id(i) < id(j)
func (s *HospitalDataService) AllPairsDistances(ctx context.Context) (*entities.DistanceMatrix, error) {
	facilities := s.table.facilities
	distances := make([]entities.DistanceResult, 0, len(facilities)*(len(facilities)-1)/2)

	for _, a := range facilities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, b := range facilities {
			if a.ID >= b.ID {
				continue
			}
			d, err := distanceBetween(a, b)
			if err != nil {
				return nil, err
			}
			distances = append(distances, *d)
		}
	}

	return &entities.DistanceMatrix{TotalPairs: len(distances), Distances: distances}, nil
}

func (s *HospitalDataService) resolve(name string) (entities.FacilitySummary, error) {
	if f, ok := s.table.facilityNamed(name); ok {
		return f, nil
	}
	return entities.FacilitySummary{}, apperrors.NewNotFoundErrorWithSuggestions(
		fmt.Sprintf("Hospital '%s' not found.", strings.TrimSpace(name)),
		s.table.nameSuggestions(name),
	)
}

func distanceBetween(a, b entities.FacilitySummary) (*entities.DistanceResult, error) {
	from, err := locate(a)
	if err != nil {
		return nil, err
	}
	to, err := locate(b)
	if err != nil {
		return nil, err
	}

	return &entities.DistanceResult{
		FromHospital:    a.Name,
		FromHospitalID:  a.ID,
		ToHospital:      b.Name,
		ToHospitalID:    b.ID,
		DistanceKm:      round2(haversineKm(from, to)),
		FromCoordinates: from,
		ToCoordinates:   to,
	}, nil
}

func locate(f entities.FacilitySummary) (entities.Coordinates, error) {
	coords, err := parseLocation(f.Location)
	if err != nil {
		return entities.Coordinates{}, apperrors.NewMalformedLocationError(f.Name, f.Location, err)
	}
	return coords, nil
}

func noDataOn(name, date string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("No data found for hospital '%s' on date '%s'.", name, strings.TrimSpace(date)))
}

// joinNotFound merges the lookup failures of a two-facility operation so the caller
// sees every missing side at once
func joinNotFound(errs ...error) error {
	var (
		messages    []string
		suggestions []string
	)
	for _, err := range errs {
		if err == nil {
			continue
		}
		appErr, ok := apperrors.AsAppError(err)
		if !ok {
			return err
		}
		messages = append(messages, appErr.Message)
		suggestions = append(suggestions, appErr.Suggestions...)
	}
	if len(messages) == 0 {
		return nil
	}
	return apperrors.NewNotFoundErrorWithSuggestions(strings.Join(messages, " "), suggestions)
}

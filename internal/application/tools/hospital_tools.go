package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zatekoja/healthcaredecisionsupport/internal/application/services"
	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/repositories"
	apperrors "github.com/zatekoja/healthcaredecisionsupport/pkg/errors"
)

type facilityArgs struct {
	FacilityName string `json:"facility_name"`
}

type facilityDateArgs struct {
	FacilityName string `json:"facility_name"`
	Date         string `json:"date"`
}

type columnValueArgs struct {
	FacilityName string `json:"facility_name"`
	Column       string `json:"column"`
	Date         string `json:"date"`
}

type regionArgs struct {
	Region string `json:"region"`
}

type dateArgs struct {
	Date string `json:"date"`
}

type pairArgs struct {
	FacilityA string `json:"facility_a"`
	FacilityB string `json:"facility_b"`
}

type pairDateArgs struct {
	FacilityA string `json:"facility_a"`
	FacilityB string `json:"facility_b"`
	Date      string `json:"date"`
}

type searchArgs struct {
	Criteria map[string]interface{} `json:"criteria"`
}

type directoryArgs struct {
	Query     string  `json:"query"`
	Region    string  `json:"region"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radius_km"`
	Limit     int     `json:"limit"`
}

// RegisterHospitalTools registers one tool per hospital operation
func RegisterHospitalTools(r *Registry, q services.HospitalQueries) error {
	facilityName := stringParam("Hospital name, matched case-insensitively")
	date := stringParam("Date in YYYY-MM-DD format")

	toolset := []Tool{
		{
			Name:        "get_facility_count",
			Description: "Count the distinct hospitals in the dataset.",
			Category:    CategoryLookup,
			Invoke: func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
				n, err := q.FacilityCount(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]int{"total_hospitals": n}, nil
			},
		},
		{
			Name:        "list_facilities",
			Description: "List hospitals with id, name, location and region, optionally filtered by region.",
			Category:    CategoryLookup,
			Parameters:  objectSchema(map[string]interface{}{"region": stringParam("Region to filter by, case-insensitive")}),
			Invoke: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
				var args regionArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				return q.ListFacilities(ctx, args.Region)
			},
		},
		{
			Name:        "get_region_distribution",
			Description: "Count hospitals per region.",
			Category:    CategoryLookup,
			Invoke: func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
				return q.RegionDistribution(ctx)
			},
		},
		{
			Name:        "get_details",
			Description: "Return every metric of a hospital on a date.",
			Category:    CategoryLookup,
			Parameters:  objectSchema(map[string]interface{}{"facility_name": facilityName, "date": date}, "facility_name", "date"),
			Invoke: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
				var args facilityDateArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				if err := required("facility_name", args.FacilityName, "date", args.Date); err != nil {
					return nil, err
				}
				return q.Details(ctx, args.FacilityName, args.Date)
			},
		},
		{
			Name: "get_column_value",
			Description: "Return one column of a hospital on a date, or its full time series when date is omitted. " +
				"Call get_column_names first to find valid columns.",
			Category: CategoryLookup,
			Parameters: objectSchema(map[string]interface{}{
				"facility_name": facilityName,
				"column":        stringParam("Exact column name, e.g. beds_available or ventilators_total"),
				"date":          stringParam("Optional date in YYYY-MM-DD format"),
			}, "facility_name", "column"),
			Invoke: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
				var args columnValueArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				if err := required("facility_name", args.FacilityName, "column", args.Column); err != nil {
					return nil, err
				}
				return q.ColumnValue(ctx, args.FacilityName, args.Column, args.Date)
			},
		},
		{
			Name:        "get_column_names",
			Description: "List every column of the dataset in table order.",
			Category:    CategoryLookup,
			Invoke: func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
				return q.ColumnNames(ctx)
			},
		},
		{
			Name:        "get_column_catalog",
			Description: "List the dataset columns grouped by category.",
			Category:    CategoryLookup,
			Invoke: func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
				return q.ColumnCatalog(ctx)
			},
		},
		{
			Name:        "get_date_range",
			Description: "Return the first and last date of the dataset and every date in between that has data.",
			Category:    CategoryLookup,
			Invoke: func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
				return q.DateRange(ctx)
			},
		},
		{
			Name:        "search_facilities",
			Description: "Find hospitals with at least one row matching every column=value criterion. Unknown columns are ignored.",
			Category:    CategoryLookup,
			Parameters: objectSchema(map[string]interface{}{
				"criteria": map[string]interface{}{
					"type":        "object",
					"description": "Column name to exact value, e.g. {\"region\": \"Manhattan\", \"burnout_risk_score\": \"high\"}",
				},
			}, "criteria"),
			Invoke: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
				var args searchArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				criteria := make(map[string]string, len(args.Criteria))
				for k, v := range args.Criteria {
					criteria[k] = fmt.Sprint(v)
				}
				return q.SearchFacilities(ctx, criteria)
			},
		},
		{
			Name:        "get_location",
			Description: "Return the latitude and longitude of a hospital.",
			Category:    CategoryGeospatial,
			Parameters:  objectSchema(map[string]interface{}{"facility_name": facilityName}, "facility_name"),
			Invoke: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
				var args facilityArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				if err := required("facility_name", args.FacilityName); err != nil {
					return nil, err
				}
				return q.Location(ctx, args.FacilityName)
			},
		},
		{
			Name:        "distance",
			Description: "Great-circle distance in kilometers between two hospitals.",
			Category:    CategoryGeospatial,
			Parameters:  objectSchema(map[string]interface{}{"facility_a": facilityName, "facility_b": facilityName}, "facility_a", "facility_b"),
			Invoke: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
				var args pairArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				if err := required("facility_a", args.FacilityA, "facility_b", args.FacilityB); err != nil {
					return nil, err
				}
				return q.Distance(ctx, args.FacilityA, args.FacilityB)
			},
		},
		{
			Name:        "nearest_facility",
			Description: "Find the closest other hospital.",
			Category:    CategoryGeospatial,
			Parameters:  objectSchema(map[string]interface{}{"facility_name": facilityName}, "facility_name"),
			Invoke: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
				var args facilityArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				if err := required("facility_name", args.FacilityName); err != nil {
					return nil, err
				}
				return q.NearestFacility(ctx, args.FacilityName)
			},
		},
		{
			Name:        "all_pairs_distances",
			Description: "Distances between every pair of hospitals.",
			Category:    CategoryGeospatial,
			Invoke: func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
				return q.AllPairsDistances(ctx)
			},
		},
		{
			Name:        "capacity_trend",
			Description: "Bed and ICU utilization trend of a hospital across all dates.",
			Category:    CategoryAnalytics,
			Parameters:  objectSchema(map[string]interface{}{"facility_name": facilityName}, "facility_name"),
			Invoke: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
				var args facilityArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				if err := required("facility_name", args.FacilityName); err != nil {
					return nil, err
				}
				return q.CapacityTrend(ctx, args.FacilityName)
			},
		},
		{
			Name:        "system_statistics",
			Description: "System-wide capacity, staffing, activity and infection totals on a date.",
			Category:    CategoryAnalytics,
			Parameters:  objectSchema(map[string]interface{}{"date": date}, "date"),
			Invoke: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
				var args dateArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				if err := required("date", args.Date); err != nil {
					return nil, err
				}
				return q.SystemStatistics(ctx, args.Date)
			},
		},
		{
			Name:        "compare_facilities",
			Description: "Compare the key metrics of two hospitals on a date.",
			Category:    CategoryAnalytics,
			Parameters:  objectSchema(map[string]interface{}{"facility_a": facilityName, "facility_b": facilityName, "date": date}, "facility_a", "facility_b", "date"),
			Invoke: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
				var args pairDateArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				if err := required("facility_a", args.FacilityA, "facility_b", args.FacilityB, "date", args.Date); err != nil {
					return nil, err
				}
				return q.CompareFacilities(ctx, args.FacilityA, args.FacilityB, args.Date)
			},
		},
		{
			Name:        "travel_cost",
			Description: "Estimate the ambulance transfer cost and time between two hospitals on a date.",
			Category:    CategoryAnalytics,
			Parameters:  objectSchema(map[string]interface{}{"facility_a": facilityName, "facility_b": facilityName, "date": date}, "facility_a", "facility_b", "date"),
			Invoke: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
				var args pairDateArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				if err := required("facility_a", args.FacilityA, "facility_b", args.FacilityB, "date", args.Date); err != nil {
					return nil, err
				}
				return q.TravelCost(ctx, args.FacilityA, args.FacilityB, args.Date)
			},
		},
	}

	for _, tool := range toolset {
		if err := r.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDirectoryTools registers the search index tool; it is skipped when search is disabled
func RegisterDirectoryTools(r *Registry, dir *services.FacilityDirectoryService) error {
	if dir == nil || !dir.SearchEnabled() {
		return nil
	}

	return r.Register(Tool{
		Name:        "search_directory",
		Description: "Typo-tolerant hospital search by name or region, optionally within a radius of a point.",
		Category:    CategoryDirectory,
		Parameters: objectSchema(map[string]interface{}{
			"query":     stringParam("Free text, e.g. a partial hospital name; * matches everything"),
			"region":    stringParam("Exact region filter"),
			"latitude":  numberParam("Origin latitude for the radius filter"),
			"longitude": numberParam("Origin longitude for the radius filter"),
			"radius_km": numberParam("Radius in kilometers; 0 disables the geo filter"),
			"limit":     numberParam("Maximum hits, default 10"),
		}, "query"),
		Invoke: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			var args directoryArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if err := required("query", args.Query); err != nil {
				return nil, err
			}
			return dir.Search(ctx, repositories.FacilitySearchQuery{
				Query:     args.Query,
				Region:    args.Region,
				Latitude:  args.Latitude,
				Longitude: args.Longitude,
				RadiusKm:  args.RadiusKm,
				Limit:     args.Limit,
			})
		},
	})
}

func decodeArgs(raw json.RawMessage, dst interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid arguments: %v", err))
	}
	return nil
}

// required takes name/value pairs and rejects blank values
func required(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(fmt.Sprintf("missing required argument(s): %s", strings.Join(missing, ", ")))
	}
	return nil
}

func objectSchema(properties map[string]interface{}, requiredFields ...string) map[string]interface{} {
	if properties == nil {
		properties = map[string]interface{}{}
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(requiredFields) > 0 {
		schema["required"] = requiredFields
	}
	return schema
}

func stringParam(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func numberParam(description string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": description}
}

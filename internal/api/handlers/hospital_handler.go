package handlers

import (
	"net/http"

	"github.com/zatekoja/healthcaredecisionsupport/internal/application/services"
)

// reservedQueryKeys are never treated as search criteria
var reservedQueryKeys = map[string]bool{"limit": true}

// HospitalHandler exposes the metrics engine over REST
type HospitalHandler struct {
	queries services.HospitalQueries
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(queries services.HospitalQueries) *HospitalHandler {
	return &HospitalHandler{queries: queries}
}

// ListHospitals handles GET /api/hospitals?region=
func (h *HospitalHandler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	hospitals, err := h.queries.ListFacilities(r.Context(), r.URL.Query().Get("region"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}

// CountHospitals handles GET /api/hospitals/count
func (h *HospitalHandler) CountHospitals(w http.ResponseWriter, r *http.Request) {
	n, err := h.queries.FacilityCount(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"total_hospitals": n})
}

// RegionDistribution handles GET /api/regions
func (h *HospitalHandler) RegionDistribution(w http.ResponseWriter, r *http.Request) {
	regions, err := h.queries.RegionDistribution(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"regions": regions})
}

// SearchHospitals handles GET /api/hospitals/search; every query parameter is a column criterion
func (h *HospitalHandler) SearchHospitals(w http.ResponseWriter, r *http.Request) {
	criteria := map[string]string{}
	for key, values := range r.URL.Query() {
		if reservedQueryKeys[key] || len(values) == 0 {
			continue
		}
		criteria[key] = values[0]
	}

	hospitals, err := h.queries.SearchFacilities(r.Context(), criteria)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}

// GetDetails handles GET /api/hospitals/{name}/details?date=
func (h *HospitalHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	if err := requireQuery(r, "date"); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	details, err := h.queries.Details(r.Context(), r.PathValue("name"), r.URL.Query().Get("date"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, details)
}

// GetColumnValue handles GET /api/hospitals/{name}/columns/{column}?date=
// Without a date the whole series is returned.
func (h *HospitalHandler) GetColumnValue(w http.ResponseWriter, r *http.Request) {
	value, err := h.queries.ColumnValue(r.Context(), r.PathValue("name"), r.PathValue("column"), r.URL.Query().Get("date"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, value)
}

// GetLocation handles GET /api/hospitals/{name}/location
func (h *HospitalHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := h.queries.Location(r.Context(), r.PathValue("name"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, loc)
}

// GetNearest handles GET /api/hospitals/{name}/nearest
func (h *HospitalHandler) GetNearest(w http.ResponseWriter, r *http.Request) {
	nearest, err := h.queries.NearestFacility(r.Context(), r.PathValue("name"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, nearest)
}

// GetTrend handles GET /api/hospitals/{name}/trend
func (h *HospitalHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := h.queries.CapacityTrend(r.Context(), r.PathValue("name"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, trend)
}

// ListColumns handles GET /api/columns
func (h *HospitalHandler) ListColumns(w http.ResponseWriter, r *http.Request) {
	columns, err := h.queries.ColumnNames(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"columns": columns,
		"count":   len(columns),
	})
}

// ColumnCatalog handles GET /api/columns/catalog
func (h *HospitalHandler) ColumnCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.queries.ColumnCatalog(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, catalog)
}

// DateRange handles GET /api/dates
func (h *HospitalHandler) DateRange(w http.ResponseWriter, r *http.Request) {
	dates, err := h.queries.DateRange(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, dates)
}

// Distance handles GET /api/distance?from=&to=
func (h *HospitalHandler) Distance(w http.ResponseWriter, r *http.Request) {
	if err := requireQuery(r, "from", "to"); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	q := r.URL.Query()
	distance, err := h.queries.Distance(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, distance)
}

// AllDistances handles GET /api/distances
func (h *HospitalHandler) AllDistances(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.queries.AllPairsDistances(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, matrix)
}

// SystemStatistics handles GET /api/statistics?date=
func (h *HospitalHandler) SystemStatistics(w http.ResponseWriter, r *http.Request) {
	if err := requireQuery(r, "date"); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	stats, err := h.queries.SystemStatistics(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// Compare handles GET /api/compare?a=&b=&date=
func (h *HospitalHandler) Compare(w http.ResponseWriter, r *http.Request) {
	if err := requireQuery(r, "a", "b", "date"); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	q := r.URL.Query()
	comparison, err := h.queries.CompareFacilities(r.Context(), q.Get("a"), q.Get("b"), q.Get("date"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, comparison)
}

// TravelCost handles GET /api/travel-cost?from=&to=&date=
func (h *HospitalHandler) TravelCost(w http.ResponseWriter, r *http.Request) {
	if err := requireQuery(r, "from", "to", "date"); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	q := r.URL.Query()
	estimate, err := h.queries.TravelCost(r.Context(), q.Get("from"), q.Get("to"), q.Get("date"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, estimate)
}

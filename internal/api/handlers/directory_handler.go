package handlers

import (
	"net/http"

	"github.com/zatekoja/healthcaredecisionsupport/internal/application/services"
	"github.com/zatekoja/healthcaredecisionsupport/internal/domain/repositories"
)

// DirectoryHandler serves the facility directory search
type DirectoryHandler struct {
	directory *services.FacilityDirectoryService
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directory *services.FacilityDirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// SearchFacilities handles GET /api/facilities/search?q=&region=&lat=&lon=&radius_km=&limit=
func (h *DirectoryHandler) SearchFacilities(w http.ResponseWriter, r *http.Request) {
	if h.directory == nil || !h.directory.SearchEnabled() {
		respondWithError(w, http.StatusServiceUnavailable, "facility search is not enabled")
		return
	}

	query := repositories.FacilitySearchQuery{
		Query:  r.URL.Query().Get("q"),
		Region: r.URL.Query().Get("region"),
	}

	var err error
	if query.Latitude, err = queryFloat(r, "lat", 0); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if query.Longitude, err = queryFloat(r, "lon", 0); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if query.RadiusKm, err = queryFloat(r, "radius_km", 0); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if query.Limit, err = queryInt(r, "limit", 0); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	hits, err := h.directory.Search(r.Context(), query)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": hits,
		"count":      len(hits),
	})
}

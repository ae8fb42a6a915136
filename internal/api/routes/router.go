package routes

import (
	"net/http"

	"github.com/zatekoja/healthcaredecisionsupport/internal/api/handlers"
	"github.com/zatekoja/healthcaredecisionsupport/internal/api/middleware"
	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	hospitalHandler  *handlers.HospitalHandler
	toolHandler      *handlers.ToolHandler
	directoryHandler *handlers.DirectoryHandler
	healthHandler    *handlers.HealthHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router. directoryHandler may be nil when search is disabled.
func NewRouter(
	hospitalHandler *handlers.HospitalHandler,
	toolHandler *handlers.ToolHandler,
	directoryHandler *handlers.DirectoryHandler,
	healthHandler *handlers.HealthHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		hospitalHandler:  hospitalHandler,
		toolHandler:      toolHandler,
		directoryHandler: directoryHandler,
		healthHandler:    healthHandler,
		allowedOrigins:   allowedOrigins,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Hospital endpoints
	r.mux.HandleFunc("GET /api/hospitals", r.hospitalHandler.ListHospitals)
	r.mux.HandleFunc("GET /api/hospitals/count", r.hospitalHandler.CountHospitals)
	r.mux.HandleFunc("GET /api/hospitals/search", r.hospitalHandler.SearchHospitals)
	r.mux.HandleFunc("GET /api/hospitals/{name}/details", r.hospitalHandler.GetDetails)
	r.mux.HandleFunc("GET /api/hospitals/{name}/columns/{column}", r.hospitalHandler.GetColumnValue)
	r.mux.HandleFunc("GET /api/hospitals/{name}/location", r.hospitalHandler.GetLocation)
	r.mux.HandleFunc("GET /api/hospitals/{name}/nearest", r.hospitalHandler.GetNearest)
	r.mux.HandleFunc("GET /api/hospitals/{name}/trend", r.hospitalHandler.GetTrend)

	// Schema endpoints
	r.mux.HandleFunc("GET /api/columns", r.hospitalHandler.ListColumns)
	r.mux.HandleFunc("GET /api/columns/catalog", r.hospitalHandler.ColumnCatalog)
	r.mux.HandleFunc("GET /api/dates", r.hospitalHandler.DateRange)
	r.mux.HandleFunc("GET /api/regions", r.hospitalHandler.RegionDistribution)

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/distance", r.hospitalHandler.Distance)
	r.mux.HandleFunc("GET /api/distances", r.hospitalHandler.AllDistances)
	r.mux.HandleFunc("GET /api/statistics", r.hospitalHandler.SystemStatistics)
	r.mux.HandleFunc("GET /api/compare", r.hospitalHandler.Compare)
	r.mux.HandleFunc("GET /api/travel-cost", r.hospitalHandler.TravelCost)

	// Function-call interface
	r.mux.HandleFunc("GET /api/tools", r.toolHandler.ListTools)
	r.mux.HandleFunc("POST /api/tools/{name}", r.toolHandler.InvokeTool)

	if r.directoryHandler != nil {
		r.mux.HandleFunc("GET /api/facilities/search", r.directoryHandler.SearchFacilities)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// Observability sits inside RequestID and reads the matched pattern after the mux runs.
	var handler http.Handler = r.mux
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.RequestID(handler)

	// Preflight is answered by CORS before any handler runs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}

package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/healthcaredecisionsupport/internal/adapters/csvsource"
	"github.com/zatekoja/healthcaredecisionsupport/internal/api/handlers"
	"github.com/zatekoja/healthcaredecisionsupport/internal/api/middleware"
	"github.com/zatekoja/healthcaredecisionsupport/internal/application/services"
	"github.com/zatekoja/healthcaredecisionsupport/internal/application/tools"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	loader := services.NewMetricsLoader(csvsource.NewFileSource("../../application/services/testdata/hospital_trends.csv"), nil, false)
	table, err := loader.Open(context.Background())
	require.NoError(t, err)

	data := services.NewHospitalDataService(table)
	registry := tools.NewRegistry(nil)
	require.NoError(t, tools.RegisterHospitalTools(registry, data))

	router := NewRouter(
		handlers.NewHospitalHandler(data),
		handlers.NewToolHandler(registry),
		nil,
		handlers.NewHealthHandler(table.Version(), len(table.Facilities())),
		nil,
		nil,
	)
	return router.SetupRoutes()
}

func TestRouter_Health(t *testing.T) {
	handler := newTestRouter(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(5), body["hospitals"])
	assert.Len(t, body["table_version"], 16)
}

func TestRouter_RoutesThroughMiddleware(t *testing.T) {
	handler := newTestRouter(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/regions", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))
	assert.JSONEq(t, `{"regions":[
		{"region":"Bronx","count":1},
		{"region":"Brooklyn","count":1},
		{"region":"Manhattan","count":2},
		{"region":"Queens","count":1}
	]}`, w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tools/distance",
		strings.NewReader(`{"facility_a":"City General Hospital","facility_b":"Metro Health Hospital"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"distance_km":0.77`)
}

func TestRouter_DirectorySearchAbsentWhenDisabled(t *testing.T) {
	handler := newTestRouter(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/facilities/search?q=metro", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	handler := newTestRouter(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/hospitals", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/healthcaredecisionsupport/pkg/errors"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error       string              `json:"error"`
	Type        apperrors.ErrorType `json:"type,omitempty"`
	Suggestions []string            `json:"suggestions,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithAppError maps an engine error to its HTTP status.
// Internal failures are logged and hidden from the caller.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := statusFor(appErr.Type)
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respondWithJSON(w, status, ErrorResponse{Error: http.StatusText(status), Type: appErr.Type})
		return
	}

	respondWithJSON(w, status, ErrorResponse{
		Error:       appErr.Explain(),
		Type:        appErr.Type,
		Suggestions: appErr.Suggestions,
	})
}

func statusFor(t apperrors.ErrorType) int {
	switch t {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeUnknownColumn:
		return http.StatusBadRequest
	case apperrors.ErrorTypeMalformedLocation:
		return http.StatusUnprocessableEntity
	case apperrors.ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// queryFloat parses an optional float query parameter; missing yields def
func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(name + " must be a number")
	}
	return v, nil
}

// queryInt parses an optional integer query parameter; missing yields def
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(name + " must be an integer")
	}
	return v, nil
}

// requireQuery returns a validation error naming every missing parameter
func requireQuery(r *http.Request, names ...string) error {
	var missing []string
	for _, n := range names {
		if r.URL.Query().Get(n) == "" {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperrors.NewValidationError("missing query parameter(s): " + strings.Join(missing, ", "))
}

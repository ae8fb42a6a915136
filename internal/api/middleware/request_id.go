package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/zatekoja/healthcaredecisionsupport/internal/infrastructure/observability"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// RequestID reuses a caller-supplied X-Request-ID or generates a UUID, echoes it on the
// response and stores it in the request context for logging.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(observability.WithRequestID(r.Context(), id)))
	})
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/zatekoja/healthcaredecisionsupport/internal/application/tools"
)

const maxToolArgsBytes = 1 << 20

// ToolHandler serves the function-call interface
type ToolHandler struct {
	registry *tools.Registry
}

// NewToolHandler creates a new tool handler
func NewToolHandler(registry *tools.Registry) *ToolHandler {
	return &ToolHandler{registry: registry}
}

// ListTools handles GET /api/tools. ?format=text returns the grouped plain-text catalog.
func (h *ToolHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, h.registry.Describe())
		return
	}

	descriptors := h.registry.Descriptors()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"tools": descriptors,
		"count": len(descriptors),
	})
}

// InvokeTool handles POST /api/tools/{name}. The body is the JSON argument object.
// Tool failures are reported inside the 200 envelope; only an unknown tool is a 404.
func (h *ToolHandler) InvokeTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxToolArgsBytes+1))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > maxToolArgsBytes {
		respondWithError(w, http.StatusRequestEntityTooLarge, "tool arguments too large")
		return
	}

	result := h.registry.Invoke(r.Context(), name, json.RawMessage(body))

	status := http.StatusOK
	if _, known := h.registry.Get(name); !known {
		status = http.StatusNotFound
	}
	respondWithJSON(w, status, result)
}

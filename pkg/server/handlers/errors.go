package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"halo-hq/titan/pkg/routing"
	"halo-hq/titan/pkg/server/middleware"
	"halo-hq/titan/pkg/session"
	"halo-hq/titan/pkg/store"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// writeError maps a core error onto its HTTP status and writes the uniform
// error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, routing.ErrNoProviderAvailable),
		errors.Is(err, routing.ErrInvalidCapability):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrBackendCallFailed):
		status = http.StatusBadGateway
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// badRequest writes a 400 with the given message.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message})
}

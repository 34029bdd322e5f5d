package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"halo-hq/titan/pkg/providers"
	"halo-hq/titan/pkg/server/middleware"
	"halo-hq/titan/pkg/session"
)

// Research handles POST /api/research: a search-capability request. The
// optional source field names a preferred search provider; when that
// provider holds no usable credential the selection error surfaces to the
// client rather than degrading to another source.
func (h *Handlers) Research(w http.ResponseWriter, r *http.Request) {
	var req ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Query == "" {
		badRequest(w, "query is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.backendTimeout)
	defer cancel()

	result, err := h.session.Oneshot(ctx, session.OneshotRequest{
		UserID:            middleware.UserIDFromContext(r.Context()),
		PreferredProvider: req.Source,
		Capability:        providers.CapabilitySearch,
		Payload:           providers.Payload{Query: req.Query},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ResearchResponse{
		Result:   result.Text,
		Provider: result.Provider,
	})
}

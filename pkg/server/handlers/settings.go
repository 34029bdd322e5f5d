package handlers

import (
	"encoding/json"
	"net/http"

	"halo-hq/titan/pkg/providers"
	"halo-hq/titan/pkg/server/middleware"
	"halo-hq/titan/pkg/telemetry/logging"
)

// UpdateKey handles POST /api/settings/keys: a global default API key
// update. The new key lands in the settings store and in the resolver's
// live snapshot, so in-flight requests keep the set they started with while
// new requests see the rotation.
func (h *Handlers) UpdateKey(w http.ResponseWriter, r *http.Request) {
	var req KeyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if !providers.Known(req.Provider) {
		badRequest(w, "unknown provider: "+req.Provider)
		return
	}
	if req.APIKey == "" {
		badRequest(w, "api_key is required")
		return
	}

	if err := h.settings.SetGlobalDefault(r.Context(), req.Provider, req.APIKey); err != nil {
		writeError(w, r, err)
		return
	}
	h.resolver.SetGlobalDefault(req.Provider, req.APIKey)

	writeJSON(w, http.StatusOK, map[string]string{
		"provider": req.Provider,
		"api_key":  logging.Mask(req.APIKey),
	})
}

// UpdateUserKey handles POST /api/settings/user-keys: a per-user override
// scoped to the authenticated caller. The override lands in the settings
// store only; the resolver reads the user layer per request, so it takes
// effect on the caller's next turn.
func (h *Handlers) UpdateUserKey(w http.ResponseWriter, r *http.Request) {
	var req KeyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if !providers.Known(req.Provider) {
		badRequest(w, "unknown provider: "+req.Provider)
		return
	}
	if req.APIKey == "" {
		badRequest(w, "api_key is required")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.settings.SetUserAPIKey(r.Context(), userID, req.Provider, req.APIKey); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"provider": req.Provider,
		"api_key":  logging.Mask(req.APIKey),
	})
}

// ListKeys handles GET /api/settings/keys: every configured global default
// in masked display form.
func (h *Handlers) ListKeys(w http.ResponseWriter, r *http.Request) {
	masked := make(map[string]string)
	for providerID, key := range h.resolver.Globals() {
		if key != "" {
			masked[providerID] = logging.Mask(key)
		}
	}
	writeJSON(w, http.StatusOK, masked)
}

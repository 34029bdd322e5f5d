package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"halo-hq/titan/pkg/providers"
	"halo-hq/titan/pkg/server/middleware"
	"halo-hq/titan/pkg/session"
)

// GenerateImage handles POST /api/image/generate: an image-capability
// request. The size defaults upstream when omitted.
func (h *Handlers) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Prompt == "" {
		badRequest(w, "prompt is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.backendTimeout)
	defer cancel()

	result, err := h.session.Oneshot(ctx, session.OneshotRequest{
		UserID:     middleware.UserIDFromContext(r.Context()),
		Capability: providers.CapabilityImage,
		Payload: providers.Payload{
			Prompt: req.Prompt,
			Size:   req.Size,
		},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ImageResponse{
		ImageBase64: result.ImageBase64,
		Prompt:      req.Prompt,
		Provider:    result.Provider,
	})
}

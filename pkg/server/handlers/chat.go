package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"halo-hq/titan/pkg/providers"
	"halo-hq/titan/pkg/server/middleware"
	"halo-hq/titan/pkg/session"
)

// Chat handles POST /api/chat.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Message == "" {
		badRequest(w, "message is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.backendTimeout)
	defer cancel()

	result, err := h.session.Turn(ctx, session.TurnRequest{
		UserID:            middleware.UserIDFromContext(r.Context()),
		ConversationID:    req.ConversationID,
		Message:           req.Message,
		PreferredProvider: req.PreferredProvider,
		UseFallbackChain:  req.UseFallback,
		Capability:        providers.CapabilityChat,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:       result.Response,
		ConversationID: result.ConversationID,
		Provider:       result.Provider,
		Timestamp:      time.Now().UTC(),
	})
}

// AnalyzeDocument handles POST /api/document/analyze: a vision turn through
// the same session core.
func (h *Handlers) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.ImageBase64 == "" {
		badRequest(w, "image_base64 is required")
		return
	}
	prompt := req.Prompt
	if prompt == "" {
		prompt = "Analyze this document and describe its contents."
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.backendTimeout)
	defer cancel()

	result, err := h.session.Turn(ctx, session.TurnRequest{
		UserID:            middleware.UserIDFromContext(r.Context()),
		ConversationID:    req.ConversationID,
		Message:           prompt,
		PreferredProvider: req.PreferredProvider,
		UseFallbackChain:  req.UseFallback,
		Capability:        providers.CapabilityVision,
		ImageBase64:       req.ImageBase64,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:       result.Response,
		ConversationID: result.ConversationID,
		Provider:       result.Provider,
		Timestamp:      time.Now().UTC(),
	})
}

package handlers

import (
	"net/http"

	"halo-hq/titan/pkg/store"
)

// ListConversations handles GET /api/conversations.
func (h *Handlers) ListConversations(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.conversations.ListRecent(r.Context(), 50)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

// GetConversation handles GET /api/conversations/{id}. A missing id is the
// one place a stale conversation reference is an error: 404.
func (h *Handlers) GetConversation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		badRequest(w, "conversation id is required")
		return
	}

	conversation, err := h.conversations.Load(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conversation)
}

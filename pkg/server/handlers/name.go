package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"halo-hq/titan/pkg/providers"
	"halo-hq/titan/pkg/server/middleware"
	"halo-hq/titan/pkg/session"
)

// namingPrompt frames the one-time conversation where the assistant proposes
// its own name.
const namingPrompt = "You are meeting your new user for the first time and " +
	"need to establish a strong, personalized connection. You are their " +
	"advanced AI companion for business strategy, personal development, " +
	"creative projects, technical challenges, research, and daily tasks. " +
	"Be warm, engaging, and personable. After a brief introduction that " +
	"demonstrates your capabilities, suggest 2-3 names that would suit " +
	"your relationship and make the selection feel collaborative."

// GetName handles GET /api/name: the assistant's chosen display name.
func (h *Handlers) GetName(w http.ResponseWriter, r *http.Request) {
	name, err := h.settings.AssistantName(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NameResponse{
		Name:    name,
		HasName: name != "",
	})
}

// SetName handles POST /api/name/set: persists the chosen name.
func (h *Handlers) SetName(w http.ResponseWriter, r *http.Request) {
	var req SetNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}

	if err := h.settings.SetAssistantName(r.Context(), req.Name); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NameResponse{
		Name:    req.Name,
		HasName: true,
	})
}

// InitialName handles POST /api/name/initial: the first-contact exchange.
// With a name already on record it answers with a greeting; otherwise it
// runs one naming turn through the session core without persisting history.
func (h *Handlers) InitialName(w http.ResponseWriter, r *http.Request) {
	var req InitialNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.UserMessage == "" {
		badRequest(w, "user_message is required")
		return
	}

	name, err := h.settings.AssistantName(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if name != "" {
		writeJSON(w, http.StatusOK, InitialNameResponse{
			Response: "Hello! I'm " + name + ", your AI companion. How can I help you today?",
			Name:     name,
			HasName:  true,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.backendTimeout)
	defer cancel()

	result, err := h.session.Oneshot(ctx, session.OneshotRequest{
		UserID:     middleware.UserIDFromContext(r.Context()),
		Capability: providers.CapabilityChat,
		Payload: providers.Payload{
			Messages: []providers.Message{
				{Role: providers.RoleSystem, Content: namingPrompt},
				{Role: providers.RoleUser, Content: req.UserMessage},
			},
		},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, InitialNameResponse{
		Response: result.Text,
		HasName:  false,
	})
}

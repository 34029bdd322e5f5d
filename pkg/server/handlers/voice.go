package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"halo-hq/titan/pkg/providers"
	"halo-hq/titan/pkg/server/middleware"
	"halo-hq/titan/pkg/session"
)

// Transcribe handles POST /api/voice/transcribe: a multipart audio upload
// routed through the transcription capability.
func (h *Handlers) Transcribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		badRequest(w, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		badRequest(w, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		badRequest(w, "reading audio upload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.backendTimeout)
	defer cancel()

	result, err := h.session.Oneshot(ctx, session.OneshotRequest{
		UserID:     middleware.UserIDFromContext(r.Context()),
		Capability: providers.CapabilityTranscription,
		Payload: providers.Payload{
			Audio:         audio,
			AudioFilename: header.Filename,
		},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TranscribeResponse{
		Text:     result.Text,
		Provider: result.Provider,
	})
}

// Speak handles POST /api/voice/speak: text to synthesized speech.
func (h *Handlers) Speak(w http.ResponseWriter, r *http.Request) {
	var req SpeakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Text == "" {
		badRequest(w, "text is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.backendTimeout)
	defer cancel()

	result, err := h.session.Oneshot(ctx, session.OneshotRequest{
		UserID:     middleware.UserIDFromContext(r.Context()),
		Capability: providers.CapabilitySpeech,
		Payload: providers.Payload{
			Input: req.Text,
			Voice: req.Voice,
		},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SpeakResponse{
		AudioBase64: base64.StdEncoding.EncodeToString(result.Audio),
		Provider:    result.Provider,
	})
}

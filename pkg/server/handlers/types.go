package handlers

import "time"

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message           string `json:"message"`
	ConversationID    string `json:"conversation_id,omitempty"`
	PreferredProvider string `json:"preferred_provider,omitempty"`
	UseFallback       bool   `json:"use_fallback,omitempty"`
}

// ChatResponse is the body of a successful chat or document turn.
type ChatResponse struct {
	Response       string    `json:"response"`
	ConversationID string    `json:"conversation_id"`
	Provider       string    `json:"provider"`
	Timestamp      time.Time `json:"timestamp"`
}

// DocumentRequest is the body of POST /api/document/analyze.
type DocumentRequest struct {
	ImageBase64       string `json:"image_base64"`
	Prompt            string `json:"prompt,omitempty"`
	ConversationID    string `json:"conversation_id,omitempty"`
	PreferredProvider string `json:"preferred_provider,omitempty"`
	UseFallback       bool   `json:"use_fallback,omitempty"`
}

// TranscribeResponse is the body of a successful transcription.
type TranscribeResponse struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
}

// SpeakRequest is the body of POST /api/voice/speak.
type SpeakRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// SpeakResponse carries synthesized audio as base64.
type SpeakResponse struct {
	AudioBase64 string `json:"audio_base64"`
	Provider    string `json:"provider"`
}

// ResearchRequest is the body of POST /api/research.
type ResearchRequest struct {
	Query  string `json:"query"`
	Source string `json:"source,omitempty"`
}

// ResearchResponse is the body of a successful research call.
type ResearchResponse struct {
	Result   string `json:"result"`
	Provider string `json:"provider"`
}

// ImageRequest is the body of POST /api/image/generate.
type ImageRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"`
}

// ImageResponse carries the generated image as base64.
type ImageResponse struct {
	ImageBase64 string `json:"image_base64"`
	Prompt      string `json:"prompt"`
	Provider    string `json:"provider"`
}

// SpecialistRequest is the body of every specialist endpoint.
type SpecialistRequest struct {
	Message string `json:"message"`
}

// NameResponse is the body of GET /api/name.
type NameResponse struct {
	Name    string `json:"name,omitempty"`
	HasName bool   `json:"has_name"`
}

// SetNameRequest is the body of POST /api/name/set.
type SetNameRequest struct {
	Name string `json:"name"`
}

// InitialNameRequest is the body of POST /api/name/initial.
type InitialNameRequest struct {
	UserMessage string `json:"user_message"`
}

// InitialNameResponse is the body of POST /api/name/initial. When a name is
// already on record the response is a greeting; otherwise it is the opening
// of the naming conversation.
type InitialNameResponse struct {
	Response string `json:"response"`
	Name     string `json:"name,omitempty"`
	HasName  bool   `json:"has_name"`
}

// KeyUpdateRequest is the body of POST /api/settings/keys.
type KeyUpdateRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

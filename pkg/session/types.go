package session

import (
	"halo-hq/titan/pkg/providers"
)

// TurnRequest is one conversational request entering the gateway.
type TurnRequest struct {
	// UserID identifies the caller for credential resolution.
	// Empty means the anonymous user, which sees only global defaults.
	UserID string

	// ConversationID threads this turn onto an existing conversation.
	// Empty starts a new one.
	ConversationID string

	// Message is the new user message.
	Message string

	// PreferredProvider is the caller's explicit provider choice, if any.
	PreferredProvider string

	// UseFallbackChain opts the turn into the low-cost fallback backend.
	UseFallbackChain bool

	// Capability is chat or vision; other capabilities go through Oneshot.
	Capability providers.Capability

	// ImageBase64 carries the image payload for vision turns.
	ImageBase64 string
}

// TurnResult is the outcome of a successful turn.
type TurnResult struct {
	// Response is the assistant's reply text.
	Response string

	// ConversationID identifies the persisted conversation, freshly
	// minted for new ones.
	ConversationID string

	// Provider is the backend that actually answered.
	Provider string
}

// OneshotRequest is a stateless capability request: transcription, speech
// synthesis, research, or image generation. It rides the same selection and escalation core
// as chat turns but skips history and persistence.
type OneshotRequest struct {
	// UserID identifies the caller for credential resolution.
	UserID string

	// PreferredProvider is the caller's explicit provider choice, if any.
	PreferredProvider string

	// UseFallbackChain opts the request into the fallback chain.
	UseFallbackChain bool

	// Capability is the requested kind of work.
	Capability providers.Capability

	// Payload carries the capability-specific input.
	Payload providers.Payload
}

// OneshotResult is the outcome of a stateless capability request.
type OneshotResult struct {
	// Text is the normalized textual response (transcription, research).
	Text string

	// Audio is the synthesized audio for speech requests.
	Audio []byte

	// ImageBase64 is the base64-encoded generated image.
	ImageBase64 string

	// Provider is the backend that actually answered.
	Provider string
}

package providers

// Message represents a single message in a conversation.
// It is provider-agnostic and is transformed to provider-specific formats by
// the invoker. Content is opaque text; for vision requests it may embed a
// structured payload (data URL), but nothing in the gateway interprets it.
type Message struct {
	// Role identifies the message sender (system, user, assistant).
	Role string `json:"role"`

	// Content is the message text content.
	Content string `json:"content"`
}

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Payload carries the capability-specific input of a single backend call.
// Only the fields relevant to the requested capability are set.
type Payload struct {
	// Messages is the full outgoing conversation for chat turns.
	// For vision turns the user message content embeds the image payload.
	Messages []Message `json:"messages,omitempty"`

	// ImageBase64 is the base64-encoded image for vision requests.
	ImageBase64 string `json:"image_base64,omitempty"`

	// Input is the text to synthesize for speech requests.
	Input string `json:"input,omitempty"`

	// Voice selects the synthesis voice for speech requests.
	Voice string `json:"voice,omitempty"`

	// Audio is the raw audio to transcribe.
	Audio []byte `json:"-"`

	// AudioFilename is the client-supplied name of the uploaded audio file.
	AudioFilename string `json:"audio_filename,omitempty"`

	// Query is the research query for search requests.
	Query string `json:"query,omitempty"`

	// Prompt is the generation prompt for image requests.
	Prompt string `json:"prompt,omitempty"`

	// Size is the requested image size (e.g. "1024x1024").
	Size string `json:"size,omitempty"`
}

// Result is the normalized outcome of a backend call.
// Text is set for chat, vision, transcription, and search; Audio for
// speech; ImageBase64 for image generation.
type Result struct {
	// Text is the normalized textual response.
	Text string

	// Audio is the raw synthesized audio for speech requests.
	Audio []byte

	// ImageBase64 is the base64-encoded generated image.
	ImageBase64 string
}

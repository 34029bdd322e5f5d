package providers

// Capability is a category of work a provider can perform.
type Capability string

const (
	// CapabilityChat is plain text conversation.
	CapabilityChat Capability = "chat"

	// CapabilityVision is image-grounded analysis (document/image understanding).
	CapabilityVision Capability = "vision"

	// CapabilityTranscription is speech-to-text.
	CapabilityTranscription Capability = "transcription"

	// CapabilitySpeech is text-to-speech synthesis.
	CapabilitySpeech Capability = "speech"

	// CapabilitySearch is live web research.
	CapabilitySearch Capability = "search"

	// CapabilityImage is text-to-image generation.
	CapabilityImage Capability = "image"
)

// AllCapabilities lists every capability the gateway understands.
var AllCapabilities = []Capability{
	CapabilityChat,
	CapabilityVision,
	CapabilityTranscription,
	CapabilitySpeech,
	CapabilitySearch,
	CapabilityImage,
}

// Valid reports whether c is a known capability.
func (c Capability) Valid() bool {
	switch c {
	case CapabilityChat, CapabilityVision, CapabilityTranscription, CapabilitySpeech, CapabilitySearch, CapabilityImage:
		return true
	}
	return false
}

// String returns the capability name.
func (c Capability) String() string {
	return string(c)
}

// CapabilitySet is an immutable set of capabilities.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether the set contains c.
// A nil set contains nothing.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

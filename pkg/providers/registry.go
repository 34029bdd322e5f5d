package providers

// Family identifies the wire shape a provider speaks. Several vendors expose
// OpenAI-compatible chat endpoints and share a single request translator.
type Family string

const (
	// FamilyOpenAI is the OpenAI API and its compatible clones.
	FamilyOpenAI Family = "openai"

	// FamilyAnthropic is the Anthropic messages API.
	FamilyAnthropic Family = "anthropic"

	// FamilyPerplexity is the Perplexity online-research chat API.
	FamilyPerplexity Family = "perplexity"

	// FamilyTavily is the Tavily search API.
	FamilyTavily Family = "tavily"

	// FamilyElevenLabs is the ElevenLabs speech synthesis API.
	FamilyElevenLabs Family = "elevenlabs"
)

// Definition is the static description of a single backend. Definitions are
// immutable; the registry is fixed at process start.
type Definition struct {
	// ID is the stable provider identifier used in requests, credentials,
	// and persistence (e.g. "openai", "anthropic").
	ID string

	// BaseEndpoint is the root URL of the provider's API.
	BaseEndpoint string

	// Family selects the request/response translator for this provider.
	Family Family

	// Capabilities is the set of work categories this provider supports.
	Capabilities CapabilitySet

	// Models maps each supported capability to the default model identifier.
	Models map[Capability]string

	// ReducedChatModel, when non-empty, is the cost-reduced chat model used
	// when the caller opts into the fallback chain. Quality/cost trade-off,
	// not a correctness concern.
	ReducedChatModel string
}

const (
	// DefaultProvider answers chat turns when the caller expresses no
	// preference and holds a usable credential.
	DefaultProvider = "openai"

	// FallbackProvider is the designated low-cost backend appended to every
	// candidate list and promoted when the caller opts into the fallback
	// chain.
	FallbackProvider = "emergent"
)

// registry is the fixed total order over every known provider. Declaration
// order is selection priority; the designated fallback provider is last.
var registry = []Definition{
	{
		ID:           "openai",
		BaseEndpoint: "https://api.openai.com/v1",
		Family:       FamilyOpenAI,
		Capabilities: NewCapabilitySet(CapabilityChat, CapabilityVision, CapabilityTranscription, CapabilitySpeech, CapabilityImage),
		Models: map[Capability]string{
			CapabilityChat:          "gpt-4o",
			CapabilityVision:        "gpt-4o",
			CapabilityTranscription: "whisper-1",
			CapabilitySpeech:        "tts-1",
			CapabilityImage:         "dall-e-3",
		},
		ReducedChatModel: "gpt-4o-mini",
	},
	{
		ID:           "anthropic",
		BaseEndpoint: "https://api.anthropic.com/v1",
		Family:       FamilyAnthropic,
		Capabilities: NewCapabilitySet(CapabilityChat),
		Models: map[Capability]string{
			CapabilityChat: "claude-3-opus-20240229",
		},
	},
	{
		ID:           "groq",
		BaseEndpoint: "https://api.groq.com/openai/v1",
		Family:       FamilyOpenAI,
		Capabilities: NewCapabilitySet(CapabilityChat),
		Models: map[Capability]string{
			CapabilityChat: "llama-3.1-70b-versatile",
		},
	},
	{
		ID:           "mistral",
		BaseEndpoint: "https://api.mistral.ai/v1",
		Family:       FamilyOpenAI,
		Capabilities: NewCapabilitySet(CapabilityChat),
		Models: map[Capability]string{
			CapabilityChat: "mistral-large-latest",
		},
	},
	{
		ID:           "aimlapi",
		BaseEndpoint: "https://api.aimlapi.com",
		Family:       FamilyOpenAI,
		Capabilities: NewCapabilitySet(CapabilityChat),
		Models: map[Capability]string{
			CapabilityChat: "gpt-4o",
		},
	},
	{
		ID:           "watsonx",
		BaseEndpoint: "https://us-south.ml.cloud.ibm.com",
		Family:       FamilyOpenAI,
		Capabilities: NewCapabilitySet(CapabilityChat),
		Models: map[Capability]string{
			CapabilityChat: "meta-llama/llama-3-70b-instruct",
		},
	},
	{
		ID:           "perplexity",
		BaseEndpoint: "https://api.perplexity.ai",
		Family:       FamilyPerplexity,
		Capabilities: NewCapabilitySet(CapabilitySearch),
		Models: map[Capability]string{
			CapabilitySearch: "llama-3.1-sonar-large-128k-online",
		},
	},
	{
		ID:           "tavily",
		BaseEndpoint: "https://api.tavily.com",
		Family:       FamilyTavily,
		Capabilities: NewCapabilitySet(CapabilitySearch),
		Models:       map[Capability]string{},
	},
	{
		ID:           "elevenlabs",
		BaseEndpoint: "https://api.elevenlabs.io/v1",
		Family:       FamilyElevenLabs,
		Capabilities: NewCapabilitySet(CapabilitySpeech),
		Models: map[Capability]string{
			CapabilitySpeech: "eleven_multilingual_v2",
		},
	},
	{
		ID:           "emergent",
		BaseEndpoint: "https://llm.emergentagi.com/v1",
		Family:       FamilyOpenAI,
		Capabilities: NewCapabilitySet(CapabilityChat, CapabilityVision),
		Models: map[Capability]string{
			CapabilityChat:   "gpt-4o-mini",
			CapabilityVision: "gpt-4o-mini",
		},
	},
}

// byID indexes the registry for constant-time lookup.
var byID = func() map[string]*Definition {
	m := make(map[string]*Definition, len(registry))
	for i := range registry {
		m[registry[i].ID] = &registry[i]
	}
	return m
}()

// All returns every known provider in fixed priority order.
// The returned slice must not be modified.
func All() []Definition {
	return registry
}

// IDs returns the provider identifiers in fixed priority order.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for i := range registry {
		ids = append(ids, registry[i].ID)
	}
	return ids
}

// Get returns the definition for the given provider id.
func Get(id string) (Definition, bool) {
	def, ok := byID[id]
	if !ok {
		return Definition{}, false
	}
	return *def, true
}

// Known reports whether id names a registered provider.
func Known(id string) bool {
	_, ok := byID[id]
	return ok
}

// Capabilities returns the capability set of the given provider.
// An unknown id yields an empty set, which causes selection to skip it;
// this is not an error by itself.
func Capabilities(id string) CapabilitySet {
	def, ok := byID[id]
	if !ok {
		return nil
	}
	return def.Capabilities
}

// ModelFor returns the model identifier the given provider should use for a
// capability. The default chat provider returns its cost-reduced model when
// the caller opted into the fallback chain. Unknown provider or capability
// yields the empty string.
func ModelFor(id string, capability Capability, useFallbackChain bool) string {
	def, ok := byID[id]
	if !ok {
		return ""
	}
	if capability == CapabilityChat && useFallbackChain && def.ReducedChatModel != "" {
		return def.ReducedChatModel
	}
	return def.Models[capability]
}

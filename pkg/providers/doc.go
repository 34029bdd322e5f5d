// Package providers defines the static registry of LLM and research backends
// and the client abstraction used to call them.
//
// # Overview
//
// Each backend (OpenAI, Anthropic, Groq, Perplexity, ElevenLabs, etc.) is
// described by a Definition: a stable identifier, a base endpoint, the set of
// capabilities it supports, and the default model per capability. Definitions
// are immutable and declared at process start; their declaration order is the
// fixed global priority order used by the selection logic in pkg/routing.
//
// The Invoker interface is the single call surface the rest of the gateway
// uses to reach a backend. HTTPInvoker implements it over plain HTTP with
// connection pooling, translating the provider-agnostic Payload into each
// provider family's wire shape and normalizing the response into a Result.
//
// # Basic Usage
//
//	def, ok := providers.Get("openai")
//	if !ok {
//	    return fmt.Errorf("unknown provider")
//	}
//	model := providers.ModelFor("openai", providers.CapabilityChat, false)
//
//	inv := providers.NewHTTPInvoker(providers.HTTPInvokerConfig{})
//	res, err := inv.Invoke(ctx, "openai", model, providers.CapabilityChat,
//	    &providers.Payload{Messages: msgs}, apiKey)
package providers

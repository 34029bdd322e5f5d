package routing

import (
	"halo-hq/titan/pkg/providers"
)

// SelectionPolicy captures the per-request routing inputs.
// It is constructed per call and never persisted.
type SelectionPolicy struct {
	// Capability is the kind of work the request needs.
	Capability providers.Capability

	// PreferredProvider is the caller's explicit provider choice, if any.
	PreferredProvider string

	// UseFallbackChain opts the request into the low-cost fallback backend
	// and its cost-reduced models.
	UseFallbackChain bool
}

// Selection is the outcome of a successful provider selection: the chosen
// provider bound to the model it should run.
type Selection struct {
	// ProviderID is the chosen provider.
	ProviderID string

	// Model is the model identifier the provider should use, already
	// adjusted for the fallback chain's cost-reduced variants.
	Model string

	// Credential is the effective secret for the call.
	Credential string

	// Candidates is the de-duplicated candidate order that was walked.
	// Retained for diagnostics.
	Candidates []string
}

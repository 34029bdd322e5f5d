package routing

import (
	"errors"
	"testing"

	"halo-hq/titan/pkg/credentials"
	"halo-hq/titan/pkg/providers"
)

func TestSelectPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		policy SelectionPolicy
		creds  credentials.Set
		want   string
	}{
		{
			name: "preferred provider wins when usable",
			policy: SelectionPolicy{
				Capability:        providers.CapabilityChat,
				PreferredProvider: "anthropic",
			},
			creds: credentials.Set{"openai": "sk-1", "anthropic": "sk-2"},
			want:  "anthropic",
		},
		{
			name:   "fixed order without preference",
			policy: SelectionPolicy{Capability: providers.CapabilityChat},
			creds:  credentials.Set{"openai": "sk-1", "anthropic": "sk-2"},
			want:   "openai",
		},
		{
			name:   "fallback chain promotes fallback provider",
			policy: SelectionPolicy{Capability: providers.CapabilityChat, UseFallbackChain: true},
			creds:  credentials.Set{"openai": "sk-1", "emergent": "sk-e"},
			want:   "emergent",
		},
		{
			name: "fallback chain still respects explicit preference",
			policy: SelectionPolicy{
				Capability:        providers.CapabilityChat,
				PreferredProvider: "mistral",
				UseFallbackChain:  true,
			},
			creds: credentials.Set{"mistral": "sk-m", "emergent": "sk-e"},
			want:  "mistral",
		},
		{
			name: "preferred without credential falls through to fixed order",
			policy: SelectionPolicy{
				Capability:        providers.CapabilityChat,
				PreferredProvider: "anthropic",
			},
			creds: credentials.Set{"anthropic": "", "groq": "sk-g", "mistral": "sk-m"},
			want:  "groq",
		},
		{
			name:   "capability narrows the walk",
			policy: SelectionPolicy{Capability: providers.CapabilitySearch},
			creds:  credentials.Set{"openai": "sk-1", "perplexity": "sk-p", "tavily": "sk-t"},
			want:   "perplexity",
		},
		{
			name:   "speech picks first speech-capable provider with credential",
			policy: SelectionPolicy{Capability: providers.CapabilitySpeech},
			creds:  credentials.Set{"anthropic": "sk-2", "elevenlabs": "sk-el"},
			want:   "elevenlabs",
		},
		{
			name: "unknown preferred provider is skipped, not an error",
			policy: SelectionPolicy{
				Capability:        providers.CapabilityChat,
				PreferredProvider: "nonexistent",
			},
			creds: credentials.Set{"openai": "sk-1"},
			want:  "openai",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := NewSelector().Select(tt.policy, tt.creds)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if sel.ProviderID != tt.want {
				t.Errorf("Select() = %q, want %q", sel.ProviderID, tt.want)
			}
		})
	}
}

func TestSelectDeterminism(t *testing.T) {
	policy := SelectionPolicy{Capability: providers.CapabilityChat, UseFallbackChain: true}
	creds := credentials.Set{"openai": "sk-1", "groq": "sk-g", "emergent": "sk-e"}

	s := NewSelector()
	first, err := s.Select(policy, creds)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		next, err := s.Select(policy, creds)
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if next.ProviderID != first.ProviderID {
			t.Fatalf("selection changed between identical calls: %q then %q",
				first.ProviderID, next.ProviderID)
		}
	}
}

func TestSelectStableDedup(t *testing.T) {
	// A preferred provider that also appears in the fixed order must keep
	// only its first position.
	policy := SelectionPolicy{
		Capability:        providers.CapabilityChat,
		PreferredProvider: "mistral",
		UseFallbackChain:  true,
	}
	candidates := buildCandidates(policy)

	seen := make(map[string]int)
	for _, id := range candidates {
		seen[id]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("candidate %q appears %d times, want 1", id, n)
		}
	}
	if candidates[0] != "mistral" {
		t.Errorf("candidates[0] = %q, want preferred provider first", candidates[0])
	}
	if candidates[1] != providers.FallbackProvider {
		t.Errorf("candidates[1] = %q, want fallback provider second", candidates[1])
	}
}

func TestSelectCapabilityGate(t *testing.T) {
	// A chat-only provider must never be returned for speech even with a
	// credential and fallback enabled.
	policy := SelectionPolicy{Capability: providers.CapabilitySpeech, UseFallbackChain: true}
	creds := credentials.Set{"anthropic": "sk-2", "groq": "sk-g"}

	_, err := NewSelector().Select(policy, creds)
	if err == nil {
		t.Fatal("Select() expected error, chat-only providers must not serve speech")
	}
	if !errors.Is(err, ErrNoProviderAvailable) {
		t.Errorf("error = %v, want ErrNoProviderAvailable", err)
	}
}

func TestSelectNoProviderAvailable(t *testing.T) {
	policy := SelectionPolicy{Capability: providers.CapabilityChat}
	_, err := NewSelector().Select(policy, credentials.Set{})
	if err == nil {
		t.Fatal("Select() expected error with empty credential set")
	}

	var npa *NoProviderAvailableError
	if !errors.As(err, &npa) {
		t.Fatalf("error = %T, want NoProviderAvailableError", err)
	}
	if npa.Capability != providers.CapabilityChat {
		t.Errorf("Capability = %q, want chat", npa.Capability)
	}
	if len(npa.Attempted) == 0 {
		t.Error("Attempted candidate list must be carried for diagnostics")
	}
}

func TestSelectInvalidCapabilityRequest(t *testing.T) {
	// Explicitly demanding speech from a chat-only provider without the
	// fallback chain is surfaced immediately.
	policy := SelectionPolicy{
		Capability:        providers.CapabilitySpeech,
		PreferredProvider: "anthropic",
	}
	creds := credentials.Set{"anthropic": "sk-2", "openai": "sk-1"}

	_, err := NewSelector().Select(policy, creds)
	if !errors.Is(err, ErrInvalidCapability) {
		t.Fatalf("error = %v, want ErrInvalidCapability", err)
	}

	// With the fallback chain opted in, the preferred provider is skipped
	// and the walk continues.
	policy.UseFallbackChain = true
	sel, err := NewSelector().Select(policy, creds)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.ProviderID != "openai" {
		t.Errorf("Select() = %q, want openai", sel.ProviderID)
	}
}

func TestSelectSkipsEmptyCredentialScenario(t *testing.T) {
	// Preferred anthropic with an empty credential, others populated: the
	// selector skips anthropic and returns the next candidate in fixed
	// order holding a credential.
	policy := SelectionPolicy{
		Capability:        providers.CapabilityChat,
		PreferredProvider: "anthropic",
	}
	creds := credentials.Set{
		"anthropic": "",
		"openai":    "sk-1",
		"groq":      "sk-g",
	}

	sel, err := NewSelector().Select(policy, creds)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.ProviderID != "openai" {
		t.Errorf("Select() = %q, want openai (next in fixed order)", sel.ProviderID)
	}
}

func TestSelectModelBinding(t *testing.T) {
	creds := credentials.Set{"openai": "sk-1", "emergent": "sk-e"}

	plain, err := NewSelector().Select(SelectionPolicy{Capability: providers.CapabilityChat}, creds)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if plain.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", plain.Model)
	}
	if plain.Credential != "sk-1" {
		t.Errorf("Credential = %q, want the effective key", plain.Credential)
	}

	reduced, err := NewSelector().Select(SelectionPolicy{
		Capability:       providers.CapabilityChat,
		UseFallbackChain: true,
	}, creds)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if reduced.ProviderID != "emergent" {
		t.Fatalf("ProviderID = %q, want emergent", reduced.ProviderID)
	}
	if reduced.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want cost-reduced gpt-4o-mini", reduced.Model)
	}
}

func TestSelectorStats(t *testing.T) {
	s := NewSelector()
	creds := credentials.Set{"openai": "sk-1"}

	for i := 0; i < 3; i++ {
		if _, err := s.Select(SelectionPolicy{Capability: providers.CapabilityChat}, creds); err != nil {
			t.Fatalf("Select() error = %v", err)
		}
	}
	s.Select(SelectionPolicy{Capability: providers.CapabilitySearch}, creds)

	stats := s.Stats()
	if stats.TotalSelections != 4 {
		t.Errorf("TotalSelections = %d, want 4", stats.TotalSelections)
	}
	if stats.SelectionsPerProvider["openai"] != 3 {
		t.Errorf("SelectionsPerProvider[openai] = %d, want 3", stats.SelectionsPerProvider["openai"])
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
}

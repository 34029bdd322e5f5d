package providers

import "testing"

func TestRegistryOrder(t *testing.T) {
	defs := All()
	if len(defs) == 0 {
		t.Fatal("registry is empty")
	}
	if defs[0].ID != DefaultProvider {
		t.Errorf("first provider = %q, want default provider %q", defs[0].ID, DefaultProvider)
	}
	if defs[len(defs)-1].ID != FallbackProvider {
		t.Errorf("last provider = %q, want fallback provider %q", defs[len(defs)-1].ID, FallbackProvider)
	}

	seen := make(map[string]bool)
	for _, def := range defs {
		if seen[def.ID] {
			t.Errorf("duplicate provider id %q", def.ID)
		}
		seen[def.ID] = true
	}
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		cap      Capability
		want     bool
	}{
		{"openai supports chat", "openai", CapabilityChat, true},
		{"openai supports vision", "openai", CapabilityVision, true},
		{"openai supports transcription", "openai", CapabilityTranscription, true},
		{"openai supports speech", "openai", CapabilitySpeech, true},
		{"openai supports image", "openai", CapabilityImage, true},
		{"openai lacks search", "openai", CapabilitySearch, false},
		{"anthropic lacks image", "anthropic", CapabilityImage, false},
		{"anthropic supports chat", "anthropic", CapabilityChat, true},
		{"anthropic lacks speech", "anthropic", CapabilitySpeech, false},
		{"perplexity supports search", "perplexity", CapabilitySearch, true},
		{"elevenlabs supports speech", "elevenlabs", CapabilitySpeech, true},
		{"unknown provider has no capabilities", "nonexistent", CapabilityChat, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Capabilities(tt.provider).Has(tt.cap)
			if got != tt.want {
				t.Errorf("Capabilities(%q).Has(%q) = %v, want %v", tt.provider, tt.cap, got, tt.want)
			}
		})
	}
}

func TestCapabilitiesUnknownIDIsEmptyNotError(t *testing.T) {
	set := Capabilities("no-such-provider")
	if len(set) != 0 {
		t.Errorf("unknown id capability set has %d entries, want 0", len(set))
	}
	for _, c := range AllCapabilities {
		if set.Has(c) {
			t.Errorf("unknown id reports capability %q", c)
		}
	}
}

func TestModelFor(t *testing.T) {
	tests := []struct {
		name       string
		provider   string
		capability Capability
		fallback   bool
		want       string
	}{
		{"default chat model", "openai", CapabilityChat, false, "gpt-4o"},
		{"cost-reduced chat model on fallback chain", "openai", CapabilityChat, true, "gpt-4o-mini"},
		{"fallback flag does not affect vision", "openai", CapabilityVision, true, "gpt-4o"},
		{"transcription model", "openai", CapabilityTranscription, false, "whisper-1"},
		{"speech model", "openai", CapabilitySpeech, false, "tts-1"},
		{"image model", "openai", CapabilityImage, false, "dall-e-3"},
		{"anthropic chat model", "anthropic", CapabilityChat, false, "claude-3-opus-20240229"},
		{"anthropic has no reduced model", "anthropic", CapabilityChat, true, "claude-3-opus-20240229"},
		{"unknown provider", "nonexistent", CapabilityChat, false, ""},
		{"unsupported capability", "anthropic", CapabilitySpeech, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ModelFor(tt.provider, tt.capability, tt.fallback)
			if got != tt.want {
				t.Errorf("ModelFor(%q, %q, %v) = %q, want %q",
					tt.provider, tt.capability, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestCapabilityValid(t *testing.T) {
	for _, c := range AllCapabilities {
		if !c.Valid() {
			t.Errorf("capability %q should be valid", c)
		}
	}
	if Capability("telepathy").Valid() {
		t.Error("unknown capability should be invalid")
	}
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// credentialEnvVars maps provider ids to their conventional environment
// variable names.
var credentialEnvVars = map[string]string{
	"openai":     "OPENAI_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
	"groq":       "GROQ_API_KEY",
	"mistral":    "MISTRAL_API_KEY",
	"aimlapi":    "AIMLAPI_API_KEY",
	"watsonx":    "IBM_WATSONX_API_KEY",
	"perplexity": "PERPLEXITY_API_KEY",
	"tavily":     "TAVILY_API_KEY",
	"elevenlabs": "ELEVENLABS_API_KEY",
	"emergent":   "EMERGENT_LLM_KEY",
}

// CredentialsFromEnv collects provider API keys from the conventional
// environment variables. Unset and empty variables are omitted.
func CredentialsFromEnv() map[string]string {
	creds := make(map[string]string)
	for provider, envVar := range credentialEnvVars {
		if v := os.Getenv(envVar); v != "" {
			creds[provider] = v
		}
	}
	return creds
}

// LoadCredentialsFile reads a YAML file mapping provider ids to API keys.
// Empty values are dropped.
func LoadCredentialsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file %q: %w", path, err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing credentials file %q: %w", path, err)
	}

	creds := make(map[string]string, len(raw))
	for provider, key := range raw {
		if key != "" {
			creds[provider] = key
		}
	}
	return creds, nil
}

// MergeCredentials layers maps left to right; later non-empty entries win.
func MergeCredentials(layers ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, layer := range layers {
		for provider, key := range layer {
			if key != "" {
				merged[provider] = key
			}
		}
	}
	return merged
}

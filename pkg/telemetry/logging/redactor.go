package logging

import (
	"log/slog"
	"regexp"
)

// Redactor masks credential-shaped values inside log attributes.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor creates a Redactor with the built-in credential patterns:
// OpenAI-style sk- keys, Anthropic sk-ant- keys, Perplexity pplx- keys,
// bearer tokens, and explicit api_key assignments.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`sk-[A-Za-z0-9_-]{8,}`),
			regexp.MustCompile(`pplx-[A-Za-z0-9]{8,}`),
			regexp.MustCompile(`tvly-[A-Za-z0-9_-]{8,}`),
			regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._-]{8,}`),
			regexp.MustCompile(`(?i)api[-_]?key["':=\s]+[A-Za-z0-9_-]{8,}`),
		},
	}
}

// Redact replaces credential-shaped substrings with a fixed marker.
func (r *Redactor) Redact(s string) string {
	for _, pattern := range r.patterns {
		s = pattern.ReplaceAllString(s, "[REDACTED]")
	}
	return s
}

// ReplaceAttr is a slog.HandlerOptions hook applying Redact to every string
// attribute value.
func (r *Redactor) ReplaceAttr(_ []string, attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindString {
		attr.Value = slog.StringValue(r.Redact(attr.Value.String()))
	}
	return attr
}

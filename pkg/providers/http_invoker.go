package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

// Generation parameters applied to every chat-style call. The gateway does
// not expose per-request tuning; these match the upstream defaults.
const (
	chatTemperature = 0.7
	chatMaxTokens   = 2000
	visionMaxTokens = 1000
)

// HTTPInvokerConfig configures the HTTP invoker.
type HTTPInvokerConfig struct {
	// Timeout bounds every backend call. The effective deadline is the
	// earlier of this timeout and the caller's context deadline.
	// Default: 60s
	Timeout time.Duration

	// MaxIdleConns controls the connection pool size.
	// Default: 100
	MaxIdleConns int

	// MaxIdleConnsPerHost controls per-host pooled connections.
	// Default: 10
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long idle connections are kept.
	// Default: 90s
	IdleConnTimeout time.Duration

	// EndpointOverrides replaces a provider's base endpoint, keyed by
	// provider id. Used by tests to point at local servers.
	EndpointOverrides map[string]string
}

// HTTPInvoker implements Invoker over plain HTTP with connection pooling.
// It owns the translation between the provider-agnostic Payload and each
// provider family's wire shape.
type HTTPInvoker struct {
	client    *http.Client
	timeout   time.Duration
	overrides map[string]string
}

// NewHTTPInvoker creates an HTTP invoker with pooled connections.
func NewHTTPInvoker(cfg HTTPInvokerConfig) *HTTPInvoker {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 100
	}
	if cfg.MaxIdleConnsPerHost == 0 {
		cfg.MaxIdleConnsPerHost = 10
	}
	if cfg.IdleConnTimeout == 0 {
		cfg.IdleConnTimeout = 90 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPInvoker{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		timeout:   cfg.Timeout,
		overrides: cfg.EndpointOverrides,
	}
}

// Invoke calls the given provider and normalizes its response.
func (h *HTTPInvoker) Invoke(ctx context.Context, providerID, model string, capability Capability, payload *Payload, credential string) (*Result, error) {
	def, ok := Get(providerID)
	if !ok {
		return nil, &ProviderError{Provider: providerID, Message: "unknown provider"}
	}
	if payload == nil {
		return nil, &ProviderError{Provider: providerID, Message: "nil payload"}
	}

	base := def.BaseEndpoint
	if override, ok := h.overrides[providerID]; ok {
		base = override
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	result, err := h.dispatch(ctx, def, base, model, capability, payload, credential)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = &TimeoutError{Provider: providerID, Timeout: h.timeout}
		}
		slog.Debug("backend call failed",
			"provider", providerID,
			"capability", capability,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	slog.Debug("backend call completed",
		"provider", providerID,
		"model", model,
		"capability", capability,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// dispatch routes the call to the family-specific translator.
func (h *HTTPInvoker) dispatch(ctx context.Context, def Definition, base, model string, capability Capability, payload *Payload, credential string) (*Result, error) {
	switch def.Family {
	case FamilyOpenAI:
		switch capability {
		case CapabilityChat, CapabilityVision:
			return h.openAIChat(ctx, def.ID, base, model, capability, payload, credential)
		case CapabilityTranscription:
			return h.openAITranscribe(ctx, def.ID, base, model, payload, credential)
		case CapabilitySpeech:
			return h.openAISpeech(ctx, def.ID, base, model, payload, credential)
		case CapabilityImage:
			return h.openAIImage(ctx, def.ID, base, model, payload, credential)
		}
	case FamilyAnthropic:
		if capability == CapabilityChat {
			return h.anthropicChat(ctx, def.ID, base, model, payload, credential)
		}
	case FamilyPerplexity:
		if capability == CapabilitySearch {
			return h.perplexitySearch(ctx, def.ID, base, model, payload, credential)
		}
	case FamilyTavily:
		if capability == CapabilitySearch {
			return h.tavilySearch(ctx, def.ID, base, payload, credential)
		}
	case FamilyElevenLabs:
		if capability == CapabilitySpeech {
			return h.elevenLabsSpeech(ctx, def.ID, base, model, payload, credential)
		}
	}
	return nil, &ProviderError{
		Provider: def.ID,
		Message:  fmt.Sprintf("capability %q not implemented for family %q", capability, def.Family),
	}
}

// openAIChat calls an OpenAI-compatible chat/completions endpoint.
// For vision turns the final user message is rewritten into multimodal
// content parts carrying the image payload.
func (h *HTTPInvoker) openAIChat(ctx context.Context, providerID, base, model string, capability Capability, payload *Payload, credential string) (*Result, error) {
	maxTokens := chatMaxTokens
	messages := make([]any, 0, len(payload.Messages))
	for i, msg := range payload.Messages {
		if capability == CapabilityVision && payload.ImageBase64 != "" && i == len(payload.Messages)-1 && msg.Role == RoleUser {
			messages = append(messages, map[string]any{
				"role": msg.Role,
				"content": []any{
					map[string]any{"type": "text", "text": msg.Content},
					map[string]any{
						"type": "image_url",
						"image_url": map[string]any{
							"url": "data:image/jpeg;base64," + payload.ImageBase64,
						},
					},
				},
			})
			maxTokens = visionMaxTokens
			continue
		}
		messages = append(messages, map[string]any{"role": msg.Role, "content": msg.Content})
	}

	body := map[string]any{
		"model":       model,
		"messages":    messages,
		"temperature": chatTemperature,
		"max_tokens":  maxTokens,
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	raw, err := h.postJSON(ctx, providerID, base+"/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + credential,
	})
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &ParseError{Provider: providerID, RawResponse: string(raw), Cause: err}
	}
	if len(decoded.Choices) == 0 {
		return nil, &ParseError{Provider: providerID, RawResponse: string(raw), Cause: errors.New("empty choices")}
	}
	return &Result{Text: decoded.Choices[0].Message.Content}, nil
}

// openAITranscribe posts multipart audio to the transcription endpoint.
func (h *HTTPInvoker) openAITranscribe(ctx context.Context, providerID, base, model string, payload *Payload, credential string) (*Result, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	filename := payload.AudioFilename
	if filename == "" {
		filename = "audio.webm"
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, &ProviderError{Provider: providerID, Message: "building multipart body", Cause: err}
	}
	if _, err := part.Write(payload.Audio); err != nil {
		return nil, &ProviderError{Provider: providerID, Message: "building multipart body", Cause: err}
	}
	if err := mw.WriteField("model", model); err != nil {
		return nil, &ProviderError{Provider: providerID, Message: "building multipart body", Cause: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &ProviderError{Provider: providerID, Message: "building multipart body", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/audio/transcriptions", &buf)
	if err != nil {
		return nil, &ProviderError{Provider: providerID, Message: "building request", Cause: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+credential)

	raw, err := h.do(providerID, req)
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &ParseError{Provider: providerID, RawResponse: string(raw), Cause: err}
	}
	return &Result{Text: decoded.Text}, nil
}

// openAISpeech calls the speech synthesis endpoint and returns raw audio.
func (h *HTTPInvoker) openAISpeech(ctx context.Context, providerID, base, model string, payload *Payload, credential string) (*Result, error) {
	voice := payload.Voice
	if voice == "" {
		voice = "nova"
	}
	body := map[string]any{
		"model": model,
		"voice": voice,
		"input": payload.Input,
	}
	raw, err := h.postJSON(ctx, providerID, base+"/audio/speech", body, map[string]string{
		"Authorization": "Bearer " + credential,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Audio: raw}, nil
}

// openAIImage calls the image generation endpoint and returns the image
// as base64. A single standard-quality image is requested per call.
func (h *HTTPInvoker) openAIImage(ctx context.Context, providerID, base, model string, payload *Payload, credential string) (*Result, error) {
	size := payload.Size
	if size == "" {
		size = "1024x1024"
	}
	body := map[string]any{
		"model":           model,
		"prompt":          payload.Prompt,
		"size":            size,
		"quality":         "standard",
		"n":               1,
		"response_format": "b64_json",
	}
	raw, err := h.postJSON(ctx, providerID, base+"/images/generations", body, map[string]string{
		"Authorization": "Bearer " + credential,
	})
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &ParseError{Provider: providerID, RawResponse: string(raw), Cause: err}
	}
	if len(decoded.Data) == 0 {
		return nil, &ParseError{Provider: providerID, RawResponse: string(raw), Cause: errors.New("empty data")}
	}
	return &Result{ImageBase64: decoded.Data[0].B64JSON}, nil
}

// anthropicChat calls the Anthropic messages API. The system message is
// carried in the dedicated system field; Anthropic rejects it inline.
func (h *HTTPInvoker) anthropicChat(ctx context.Context, providerID, base, model string, payload *Payload, credential string) (*Result, error) {
	var system string
	messages := make([]any, 0, len(payload.Messages))
	for _, msg := range payload.Messages {
		if msg.Role == RoleSystem {
			system = msg.Content
			continue
		}
		messages = append(messages, map[string]any{"role": msg.Role, "content": msg.Content})
	}

	body := map[string]any{
		"model":       model,
		"max_tokens":  chatMaxTokens,
		"temperature": chatTemperature,
		"messages":    messages,
	}
	if system != "" {
		body["system"] = system
	}

	raw, err := h.postJSON(ctx, providerID, base+"/messages", body, map[string]string{
		"x-api-key":         credential,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &ParseError{Provider: providerID, RawResponse: string(raw), Cause: err}
	}
	if len(decoded.Content) == 0 {
		return nil, &ParseError{Provider: providerID, RawResponse: string(raw), Cause: errors.New("empty content")}
	}
	return &Result{Text: decoded.Content[0].Text}, nil
}

// researchSystemPrompt frames Perplexity search calls.
const researchSystemPrompt = "You are an expert research analyst. Provide " +
	"comprehensive, well-sourced answers with citations, balanced " +
	"perspectives, and actionable insights. Structure responses with clear " +
	"sections and prioritize quality over quantity."

// perplexitySearch calls Perplexity's online-research chat endpoint.
func (h *HTTPInvoker) perplexitySearch(ctx context.Context, providerID, base, model string, payload *Payload, credential string) (*Result, error) {
	body := map[string]any{
		"model": model,
		"messages": []any{
			map[string]any{"role": RoleSystem, "content": researchSystemPrompt},
			map[string]any{"role": RoleUser, "content": payload.Query},
		},
	}
	raw, err := h.postJSON(ctx, providerID, base+"/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + credential,
	})
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &ParseError{Provider: providerID, RawResponse: string(raw), Cause: err}
	}
	if len(decoded.Choices) == 0 {
		return nil, &ParseError{Provider: providerID, RawResponse: string(raw), Cause: errors.New("empty choices")}
	}
	return &Result{Text: decoded.Choices[0].Message.Content}, nil
}

// tavilySearch calls the Tavily search API. Tavily authenticates via a body
// field rather than a header.
func (h *HTTPInvoker) tavilySearch(ctx context.Context, providerID, base string, payload *Payload, credential string) (*Result, error) {
	body := map[string]any{
		"api_key":        credential,
		"query":          payload.Query,
		"search_depth":   "advanced",
		"include_answer": true,
		"max_results":    5,
	}
	raw, err := h.postJSON(ctx, providerID, base+"/search", body, nil)
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &ParseError{Provider: providerID, RawResponse: string(raw), Cause: err}
	}
	return &Result{Text: decoded.Answer}, nil
}

// elevenLabsSpeech calls the ElevenLabs text-to-speech endpoint.
// The voice field carries the ElevenLabs voice id.
func (h *HTTPInvoker) elevenLabsSpeech(ctx context.Context, providerID, base, model string, payload *Payload, credential string) (*Result, error) {
	voice := payload.Voice
	if voice == "" {
		voice = "21m00Tcm4TlvDq8ikWAM" // Rachel, the ElevenLabs default
	}
	body := map[string]any{
		"text":     payload.Input,
		"model_id": model,
	}
	raw, err := h.postJSON(ctx, providerID, base+"/text-to-speech/"+voice, body, map[string]string{
		"xi-api-key": credential,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Audio: raw}, nil
}

// postJSON encodes body as JSON, posts it, and returns the raw response.
func (h *HTTPInvoker) postJSON(ctx context.Context, providerID, url string, body any, headers map[string]string) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, &ProviderError{Provider: providerID, Message: "encoding request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, &ProviderError{Provider: providerID, Message: "building request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return h.do(providerID, req)
}

// do executes the request and maps non-2xx statuses to typed errors.
func (h *HTTPInvoker) do(providerID string, req *http.Request) ([]byte, error) {
	resp, err := h.client.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}
		return nil, &ProviderError{Provider: providerID, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, &ProviderError{Provider: providerID, Message: "reading response", Cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{Provider: providerID, Message: truncate(string(raw), 200)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &ProviderError{
			Provider:   providerID,
			StatusCode: resp.StatusCode,
			Message:    truncate(string(raw), 200),
		}
	}
	return raw, nil
}

// truncate shortens s for inclusion in error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

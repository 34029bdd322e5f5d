package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newChatServer returns a server that answers OpenAI-shaped chat requests
// with the given content and records the last request body.
func newChatServer(t *testing.T, content string, lastBody *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if lastBody != nil {
			var decoded map[string]any
			if err := json.Unmarshal(raw, &decoded); err == nil {
				*lastBody = decoded
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": content}},
			},
		})
	}))
}

func TestHTTPInvokerOpenAIChat(t *testing.T) {
	var body map[string]any
	srv := newChatServer(t, "hello from upstream", &body)
	defer srv.Close()

	inv := NewHTTPInvoker(HTTPInvokerConfig{
		EndpointOverrides: map[string]string{"openai": srv.URL},
	})

	res, err := inv.Invoke(context.Background(), "openai", "gpt-4o", CapabilityChat, &Payload{
		Messages: []Message{
			{Role: RoleSystem, Content: "be helpful"},
			{Role: RoleUser, Content: "hi"},
		},
	}, "sk-test")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.Text != "hello from upstream" {
		t.Errorf("Text = %q, want %q", res.Text, "hello from upstream")
	}
	if body["model"] != "gpt-4o" {
		t.Errorf("request model = %v, want gpt-4o", body["model"])
	}
	msgs, ok := body["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("request messages = %v, want 2 entries", body["messages"])
	}
}

func TestHTTPInvokerVisionEmbedsImage(t *testing.T) {
	var body map[string]any
	srv := newChatServer(t, "a cat", &body)
	defer srv.Close()

	inv := NewHTTPInvoker(HTTPInvokerConfig{
		EndpointOverrides: map[string]string{"openai": srv.URL},
	})

	_, err := inv.Invoke(context.Background(), "openai", "gpt-4o", CapabilityVision, &Payload{
		Messages:    []Message{{Role: RoleUser, Content: "what is this?"}},
		ImageBase64: "aGVsbG8=",
	}, "sk-test")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	msgs := body["messages"].([]any)
	last := msgs[len(msgs)-1].(map[string]any)
	parts, ok := last["content"].([]any)
	if !ok || len(parts) != 2 {
		t.Fatalf("vision content = %v, want 2 multimodal parts", last["content"])
	}
}

func TestHTTPInvokerAnthropicSystemField(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		if got := r.Header.Get("x-api-key"); got != "sk-ant" {
			t.Errorf("x-api-key = %q, want sk-ant", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []any{map[string]any{"text": "claude says hi"}},
		})
	}))
	defer srv.Close()

	inv := NewHTTPInvoker(HTTPInvokerConfig{
		EndpointOverrides: map[string]string{"anthropic": srv.URL},
	})

	res, err := inv.Invoke(context.Background(), "anthropic", "claude-3-opus-20240229", CapabilityChat, &Payload{
		Messages: []Message{
			{Role: RoleSystem, Content: "be helpful"},
			{Role: RoleUser, Content: "hi"},
		},
	}, "sk-ant")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.Text != "claude says hi" {
		t.Errorf("Text = %q, want %q", res.Text, "claude says hi")
	}
	if body["system"] != "be helpful" {
		t.Errorf("system field = %v, want the system prompt", body["system"])
	}
	msgs := body["messages"].([]any)
	for _, m := range msgs {
		if m.(map[string]any)["role"] == RoleSystem {
			t.Error("system message must not appear inline for anthropic")
		}
	}
}

func TestHTTPInvokerSpeechReturnsAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte{0xFF, 0xFB, 0x01, 0x02})
	}))
	defer srv.Close()

	inv := NewHTTPInvoker(HTTPInvokerConfig{
		EndpointOverrides: map[string]string{"openai": srv.URL},
	})

	res, err := inv.Invoke(context.Background(), "openai", "tts-1", CapabilitySpeech, &Payload{
		Input: "hello world",
		Voice: "nova",
	}, "sk-test")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if len(res.Audio) != 4 {
		t.Errorf("Audio length = %d, want 4", len(res.Audio))
	}
	if res.Text != "" {
		t.Errorf("Text = %q, want empty for speech", res.Text)
	}
}

func TestHTTPInvokerImageGeneration(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []any{map[string]any{"b64_json": "aW1hZ2VieXRlcw=="}},
		})
	}))
	defer srv.Close()

	inv := NewHTTPInvoker(HTTPInvokerConfig{
		EndpointOverrides: map[string]string{"openai": srv.URL},
	})

	res, err := inv.Invoke(context.Background(), "openai", "dall-e-3", CapabilityImage, &Payload{
		Prompt: "a lighthouse at dusk",
	}, "sk-test")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.ImageBase64 != "aW1hZ2VieXRlcw==" {
		t.Errorf("ImageBase64 = %q, want the decoded data entry", res.ImageBase64)
	}
	if body["size"] != "1024x1024" {
		t.Errorf("size = %v, want the 1024x1024 default", body["size"])
	}
	if body["response_format"] != "b64_json" {
		t.Errorf("response_format = %v, want b64_json", body["response_format"])
	}
	if body["prompt"] != "a lighthouse at dusk" {
		t.Errorf("prompt = %v, want the request prompt", body["prompt"])
	}
}

func TestHTTPInvokerTranscription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model field = %q, want whisper-1", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"text": "transcribed words"})
	}))
	defer srv.Close()

	inv := NewHTTPInvoker(HTTPInvokerConfig{
		EndpointOverrides: map[string]string{"openai": srv.URL},
	})

	res, err := inv.Invoke(context.Background(), "openai", "whisper-1", CapabilityTranscription, &Payload{
		Audio:         []byte("fake audio bytes"),
		AudioFilename: "clip.webm",
	}, "sk-test")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.Text != "transcribed words" {
		t.Errorf("Text = %q, want %q", res.Text, "transcribed words")
	}
}

func TestHTTPInvokerTavilySearch(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		json.NewEncoder(w).Encode(map[string]any{"answer": "the answer"})
	}))
	defer srv.Close()

	inv := NewHTTPInvoker(HTTPInvokerConfig{
		EndpointOverrides: map[string]string{"tavily": srv.URL},
	})

	res, err := inv.Invoke(context.Background(), "tavily", "", CapabilitySearch, &Payload{
		Query: "latest news",
	}, "tvly-key")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.Text != "the answer" {
		t.Errorf("Text = %q, want %q", res.Text, "the answer")
	}
	if body["api_key"] != "tvly-key" {
		t.Error("tavily credential must travel in the request body")
	}
}

func TestHTTPInvokerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantAuth   bool
		wantStatus int
	}{
		{"unauthorized maps to AuthError", http.StatusUnauthorized, true, 0},
		{"forbidden maps to AuthError", http.StatusForbidden, true, 0},
		{"server error maps to ProviderError", http.StatusInternalServerError, false, http.StatusInternalServerError},
		{"rate limit maps to ProviderError", http.StatusTooManyRequests, false, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("upstream says no"))
			}))
			defer srv.Close()

			inv := NewHTTPInvoker(HTTPInvokerConfig{
				EndpointOverrides: map[string]string{"openai": srv.URL},
			})

			_, err := inv.Invoke(context.Background(), "openai", "gpt-4o", CapabilityChat, &Payload{
				Messages: []Message{{Role: RoleUser, Content: "hi"}},
			}, "sk-test")
			if err == nil {
				t.Fatal("Invoke() expected error")
			}

			var authErr *AuthError
			var provErr *ProviderError
			switch {
			case tt.wantAuth:
				if !errors.As(err, &authErr) {
					t.Errorf("error = %v, want AuthError", err)
				}
			default:
				if !errors.As(err, &provErr) {
					t.Fatalf("error = %v, want ProviderError", err)
				}
				if provErr.StatusCode != tt.wantStatus {
					t.Errorf("StatusCode = %d, want %d", provErr.StatusCode, tt.wantStatus)
				}
			}
		})
	}
}

func TestHTTPInvokerTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	inv := NewHTTPInvoker(HTTPInvokerConfig{
		Timeout:           50 * time.Millisecond,
		EndpointOverrides: map[string]string{"openai": srv.URL},
	})

	_, err := inv.Invoke(context.Background(), "openai", "gpt-4o", CapabilityChat, &Payload{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	}, "sk-test")
	if err == nil {
		t.Fatal("Invoke() expected timeout error")
	}
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Errorf("error = %v (%T), want TimeoutError", err, err)
	}
}

func TestHTTPInvokerUnknownProvider(t *testing.T) {
	inv := NewHTTPInvoker(HTTPInvokerConfig{})
	_, err := inv.Invoke(context.Background(), "nonexistent", "m", CapabilityChat, &Payload{}, "key")
	if err == nil {
		t.Fatal("Invoke() expected error for unknown provider")
	}
}

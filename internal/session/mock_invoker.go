package session

import (
	"context"
	"fmt"
	"sync"

	"halo-hq/titan/pkg/providers"
)

// MockInvoker is a scriptable providers.Invoker for testing. Providers can
// be marked failing, and every call is recorded for assertions.
type MockInvoker struct {
	mu       sync.Mutex
	failing  map[string]error
	response string
	audio    []byte
	image    string
	calls    []InvokeCall
}

// InvokeCall records one Invoke invocation.
type InvokeCall struct {
	ProviderID string
	Model      string
	Capability providers.Capability
	Payload    *providers.Payload
	Credential string
}

// NewMockInvoker creates a MockInvoker that succeeds for every provider
// with the given response text.
func NewMockInvoker(response string) *MockInvoker {
	return &MockInvoker{
		failing:  make(map[string]error),
		response: response,
	}
}

// Fail makes calls to the given provider return err.
func (m *MockInvoker) Fail(providerID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[providerID] = err
}

// Recover clears a previously scripted failure.
func (m *MockInvoker) Recover(providerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failing, providerID)
}

// SetAudio sets the audio bytes returned on success.
func (m *MockInvoker) SetAudio(audio []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audio = audio
}

// SetImage sets the base64 image returned on success.
func (m *MockInvoker) SetImage(image string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.image = image
}

// Calls returns a copy of the recorded calls.
func (m *MockInvoker) Calls() []InvokeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]InvokeCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Invoke implements providers.Invoker.
func (m *MockInvoker) Invoke(_ context.Context, providerID, model string, capability providers.Capability, payload *providers.Payload, credential string) (*providers.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, InvokeCall{
		ProviderID: providerID,
		Model:      model,
		Capability: capability,
		Payload:    payload,
		Credential: credential,
	})

	if err, ok := m.failing[providerID]; ok {
		if err == nil {
			err = fmt.Errorf("provider %s unavailable", providerID)
		}
		return nil, err
	}
	return &providers.Result{Text: m.response, Audio: m.audio, ImageBase64: m.image}, nil
}

package providers

import "context"

// Invoker is the single call surface used to reach a backend.
//
// Implementations must translate the provider-agnostic payload into the
// provider's wire shape, perform the call bounded by the context deadline,
// and normalize the response into a Result. Any transport, status, or
// decoding failure is returned as an error; the caller decides the retry
// policy.
type Invoker interface {
	// Invoke calls the given provider with the supplied model, capability,
	// payload, and credential. The credential is the effective secret for
	// this request, already resolved by the caller.
	Invoke(ctx context.Context, providerID, model string, capability Capability, payload *Payload, credential string) (*Result, error)
}

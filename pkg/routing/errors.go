package routing

import (
	"errors"
	"fmt"
	"strings"

	"halo-hq/titan/pkg/providers"
)

// Common selection errors that can be checked with errors.Is().
var (
	// ErrNoProviderAvailable is returned when no candidate has both the
	// requested capability and a usable credential.
	ErrNoProviderAvailable = errors.New("no provider available")

	// ErrInvalidCapability is returned when a request names a capability
	// the gateway does not understand, or explicitly demands a provider
	// that cannot perform it.
	ErrInvalidCapability = errors.New("invalid capability request")
)

// NoProviderAvailableError is returned when the candidate walk exhausts
// without a match. It is a client-correctable condition: the caller can fix
// the request by supplying a credential or choosing another capability.
type NoProviderAvailableError struct {
	// Capability is the capability the request asked for.
	Capability providers.Capability

	// Attempted contains the candidate provider ids that were tried,
	// in walk order.
	Attempted []string
}

// Error implements the error interface.
func (e *NoProviderAvailableError) Error() string {
	return fmt.Sprintf("no provider available for capability %q (tried: %s)",
		e.Capability, strings.Join(e.Attempted, ", "))
}

// Is implements error matching for errors.Is().
func (e *NoProviderAvailableError) Is(target error) bool {
	return target == ErrNoProviderAvailable
}

// InvalidCapabilityError is returned when a provider is explicitly asked to
// perform work it does not declare, with no viable fallback. Surfaced
// immediately, never retried.
type InvalidCapabilityError struct {
	// Provider is the explicitly requested provider.
	Provider string

	// Capability is the capability the provider lacks.
	Capability providers.Capability
}

// Error implements the error interface.
func (e *InvalidCapabilityError) Error() string {
	return fmt.Sprintf("provider %q does not support capability %q", e.Provider, e.Capability)
}

// Is implements error matching for errors.Is().
func (e *InvalidCapabilityError) Is(target error) bool {
	return target == ErrInvalidCapability
}

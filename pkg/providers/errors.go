package providers

import (
	"fmt"
	"time"
)

// ProviderError represents a general upstream provider error.
// It includes the provider id, HTTP status code, and underlying error.
type ProviderError struct {
	// Provider is the id of the provider that returned the error.
	Provider string

	// StatusCode is the HTTP status code (0 if not applicable).
	StatusCode int

	// Message is the error message.
	Message string

	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// AuthError represents an authentication failure.
// This occurs when the provider rejects the credential (HTTP 401 or 403).
type AuthError struct {
	// Provider is the id of the provider that rejected authentication.
	Provider string

	// Message is the error message from the provider.
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("provider %q authentication failed: %s", e.Provider, e.Message)
}

// TimeoutError represents a backend call that exceeded its deadline.
// Retry policy treats it identically to any other backend failure.
type TimeoutError struct {
	// Provider is the id of the provider where the timeout occurred.
	Provider string

	// Timeout is the configured timeout duration.
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider %q request timeout after %s", e.Provider, e.Timeout)
}

// ParseError represents a response parsing failure.
// This occurs when the provider returns a malformed response.
type ParseError struct {
	// Provider is the id of the provider that returned the malformed response.
	Provider string

	// RawResponse is the raw response body that failed to parse.
	RawResponse string

	// Cause is the underlying parse error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q returned malformed response: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying parse error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

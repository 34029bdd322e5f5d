package session

import (
	"errors"
	"fmt"
)

// ErrBackendCallFailed is the errors.Is target for exhausted turns.
var ErrBackendCallFailed = errors.New("backend call failed")

// BackendCallFailedError is returned when the backend call failed and every
// applicable escalation step was exhausted. The upstream error from the
// final attempt is preserved for diagnostics.
type BackendCallFailedError struct {
	// Provider is the backend of the final attempt.
	Provider string

	// Attempts is the total number of backend calls performed.
	Attempts int

	// Cause is the upstream error from the final attempt.
	Cause error
}

// Error implements the error interface.
func (e *BackendCallFailedError) Error() string {
	return fmt.Sprintf("backend call failed after %d attempt(s), last provider %q: %v",
		e.Attempts, e.Provider, e.Cause)
}

// Is implements error matching for errors.Is().
func (e *BackendCallFailedError) Is(target error) bool {
	return target == ErrBackendCallFailed
}

// Unwrap returns the upstream error.
func (e *BackendCallFailedError) Unwrap() error {
	return e.Cause
}

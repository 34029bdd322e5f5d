package store

import "errors"

// ErrNotFound is returned when a conversation id does not exist.
// Callers inside a turn treat it as "start fresh", never as a failure.
var ErrNotFound = errors.New("conversation not found")

// Package session executes conversation turns against the selected backend.
//
// A turn moves through a fixed sequence: resolve credentials and select a
// provider, load prior history, call the backend, persist the extended
// history. Selection failures are terminal; retrying with identical inputs
// cannot change the outcome. Backend failures trigger a bounded escalation:
// first the explicit provider preference is cleared back to the default
// provider, then the fallback chain is engaged, each step at most once per
// turn. A turn therefore performs at most two backend attempts beyond the
// first before surfacing a BackendCallFailedError that wraps the upstream
// error.
//
// Persistence is a single atomic upsert of the full message list. A supplied
// conversation id that no longer exists is treated as a fresh conversation,
// not an error; the stale id is discarded and a new one is minted on
// persist.
package session

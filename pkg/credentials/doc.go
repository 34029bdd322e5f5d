// Package credentials resolves the effective API key for each request.
//
// Two layers feed resolution: process-wide global defaults, loaded at startup
// and mutable only through an explicit administrative update, and per-user
// overrides persisted in the settings store. The effective credential for a
// request is the user override when present and non-empty, else the global
// default. A provider is usable for a request iff its effective credential is
// non-empty.
//
// Global defaults are held as an immutable snapshot behind an atomic pointer.
// Rotation builds a new map and swaps it in; in-flight requests keep reading
// the snapshot they started with, so a turn's resolution never races a key
// rotation.
package credentials

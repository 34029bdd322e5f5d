// Package handlers implements the gateway's HTTP endpoints: chat and
// document analysis turns, voice transcription and synthesis, research,
// conversation browsing, global API key administration, and health.
//
// Handlers translate between JSON request bodies and the session core, then
// map the core's typed errors onto HTTP status codes: selection failures
// and capability mismatches are 400s (client-correctable), exhausted
// backend escalation is a 502, a missing conversation on direct lookup is a
// 404, everything else is a 500.
package handlers

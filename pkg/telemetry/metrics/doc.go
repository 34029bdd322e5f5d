// Package metrics exposes Prometheus instrumentation for the gateway.
//
// Metrics:
//   - titan_http_requests_total: HTTP request count by route, method, status
//   - titan_http_request_duration_seconds: HTTP request latency histogram
//   - titan_provider_attempts_total: backend attempts by provider and outcome
//   - titan_escalations_total: retry escalation steps applied
//   - titan_turns_completed_total: successful turns by serving provider
//   - titan_turn_attempts: attempts consumed per successful turn
//
// A Metrics value also serves as the session observer: its EscalationApplied,
// BackendError, and TurnCompleted methods feed the provider-side counters.
package metrics

// Package telemetry groups the gateway's observability concerns.
//
//   - logging: structured slog output with credential redaction
//   - metrics: Prometheus instrumentation and the scrape endpoint
//
// Both subpackages are wired in by the server; neither holds package-level
// mutable state beyond the default slog logger installed at startup.
package telemetry

// Package logging configures the process-wide structured logger.
//
// Logs go through log/slog with a JSON or text handler. Every record passes
// a redaction hook that masks credential-shaped values, so a resolved API
// key accidentally placed in a log attribute never reaches the output
// stream. The Mask helper produces the short display form used when keys
// are intentionally echoed back to clients.
package logging

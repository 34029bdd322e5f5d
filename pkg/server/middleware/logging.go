package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// MetricsRecorder receives per-request counters. *metrics.Metrics satisfies
// it; a nil recorder disables instrumentation.
type MetricsRecorder interface {
	RecordHTTPRequest(route, method, status string, duration time.Duration)
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Logging logs each request on completion and records it in metrics.
func Logging(recorder MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			slog.Info("request handled",
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", sr.status,
				"duration_ms", duration.Milliseconds(),
				"user_id", UserIDFromContext(r.Context()),
			)
			if recorder != nil {
				recorder.RecordHTTPRequest(r.URL.Path, r.Method, strconv.Itoa(sr.status), duration)
			}
		})
	}
}

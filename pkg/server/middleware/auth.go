package middleware

import (
	"context"
	"log/slog"
	"net/http"
)

// UserIDHeader is the HTTP header carrying the caller identity.
const UserIDHeader = "X-User-ID"

// DefaultUserID is assumed when the caller sends no identity.
const DefaultUserID = "default_user"

// TokenVerifier validates the caller-supplied identity token and returns
// the canonical user id. Implementations decide what the token means; the
// middleware only transports it.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// AcceptAll is the default TokenVerifier: it echoes the supplied identity
// and substitutes DefaultUserID for an empty one.
type AcceptAll struct{}

// Verify implements TokenVerifier.
func (AcceptAll) Verify(_ context.Context, token string) (string, error) {
	if token == "" {
		return DefaultUserID, nil
	}
	return token, nil
}

// Identity extracts the X-User-ID header, runs it through the verifier, and
// stores the resulting user id in the request context. Verification failure
// is a 401.
func Identity(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := verifier.Verify(r.Context(), r.Header.Get(UserIDHeader))
			if err != nil {
				slog.Warn("identity verification failed",
					"request_id", RequestIDFromContext(r.Context()),
					"error", err,
				)
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
		})
	}
}

// Package middleware provides the HTTP middleware chain for the gateway:
// panic recovery, request ids, CORS, request logging with metrics, and
// caller identity extraction.
package middleware

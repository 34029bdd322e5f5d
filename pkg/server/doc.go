// Package server assembles the gateway's HTTP surface: the route table,
// the middleware chain (recovery, request ids, CORS, logging, identity),
// and the http.Server lifecycle with graceful shutdown.
package server

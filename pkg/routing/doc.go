// Package routing selects which backend answers a request.
//
// Selection is deterministic and credential-gated. Given a per-request
// policy (requested capability, optional preferred provider, fallback-chain
// opt-in) and the requester's effective credential set, the selector builds
// an ordered candidate list, de-duplicates it preserving first occurrence,
// and walks it until it finds a provider that both declares the capability
// and holds a non-empty credential.
//
// Precedence is explicit: the requested provider first, then the designated
// fallback provider when the caller opted in, then every registered provider
// in fixed registry order. No randomness, no hidden state; for a fixed
// (policy, credential set) input the selector always returns the same
// provider, so callers can reason about which backend will answer.
package routing

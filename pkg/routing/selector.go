package routing

import (
	"log/slog"

	"halo-hq/titan/pkg/credentials"
	"halo-hq/titan/pkg/providers"
)

// Selector picks the backend for a request. It is stateless apart from
// selection statistics; two calls with the same inputs return the same
// provider.
type Selector struct {
	stats *AtomicSelectionStats
}

// NewSelector creates a provider selector.
func NewSelector() *Selector {
	return &Selector{stats: NewAtomicSelectionStats()}
}

// Select walks the candidate order for the given policy and returns the
// first provider that declares the requested capability and holds a
// non-empty credential in the effective set.
//
// Candidate order: the preferred provider (if any), then the designated
// fallback provider (if the caller opted into the fallback chain), then
// every registered provider in fixed priority order. Duplicates keep their
// first position.
//
// An explicitly preferred provider that is known but lacks the capability is
// an InvalidCapabilityError when the caller did not opt into the fallback
// chain; with the chain opted in, it is skipped like any other non-matching
// candidate. Exhausting the walk yields a NoProviderAvailableError carrying
// the attempted candidates.
func (s *Selector) Select(policy SelectionPolicy, creds credentials.Set) (*Selection, error) {
	s.stats.IncrementTotal()

	if policy.PreferredProvider != "" && !policy.UseFallbackChain {
		if caps := providers.Capabilities(policy.PreferredProvider); providers.Known(policy.PreferredProvider) && !caps.Has(policy.Capability) {
			s.stats.IncrementErrors()
			return nil, &InvalidCapabilityError{
				Provider:   policy.PreferredProvider,
				Capability: policy.Capability,
			}
		}
	}

	candidates := buildCandidates(policy)

	for _, id := range candidates {
		if !providers.Capabilities(id).Has(policy.Capability) {
			continue
		}
		if !creds.Usable(id) {
			slog.Debug("candidate skipped, no usable credential",
				"provider", id,
				"capability", policy.Capability,
			)
			continue
		}

		s.stats.IncrementProvider(id)
		if policy.PreferredProvider == id {
			s.stats.IncrementPreferredHonored()
		}

		slog.Debug("provider selected",
			"provider", id,
			"capability", policy.Capability,
			"preferred", policy.PreferredProvider,
			"fallback_chain", policy.UseFallbackChain,
		)

		return &Selection{
			ProviderID: id,
			Model:      providers.ModelFor(id, policy.Capability, policy.UseFallbackChain),
			Credential: creds[id],
			Candidates: candidates,
		}, nil
	}

	s.stats.IncrementErrors()
	return nil, &NoProviderAvailableError{
		Capability: policy.Capability,
		Attempted:  candidates,
	}
}

// Stats returns current selection statistics.
func (s *Selector) Stats() *SelectionStats {
	return s.stats.Snapshot()
}

// buildCandidates produces the ordered, de-duplicated candidate list for a
// policy: explicit request first, opt-in fallback second, then the fixed
// global order. Stable dedup, first mention wins position.
func buildCandidates(policy SelectionPolicy) []string {
	ordered := make([]string, 0, len(providers.All())+2)
	if policy.PreferredProvider != "" {
		ordered = append(ordered, policy.PreferredProvider)
	}
	if policy.UseFallbackChain {
		ordered = append(ordered, providers.FallbackProvider)
	}
	ordered = append(ordered, providers.IDs()...)

	seen := make(map[string]bool, len(ordered))
	out := ordered[:0]
	for _, id := range ordered {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

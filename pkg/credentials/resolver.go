package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Set maps provider ids to secrets. It is the effective credential set
// materialized for a single request; callers own their copy.
type Set map[string]string

// Usable reports whether the set holds a non-empty credential for the
// given provider.
func (s Set) Usable(providerID string) bool {
	return s[providerID] != ""
}

// OverrideSource supplies persisted per-user key overrides.
// A user with no stored settings yields an empty map, not an error.
type OverrideSource interface {
	UserAPIKeys(ctx context.Context, userID string) (map[string]string, error)
}

// Resolver merges process-wide default keys with per-user overrides.
//
// The global layer is an immutable snapshot swapped atomically on update;
// readers never observe a partially rotated map. Writers serialize on a
// mutex so concurrent single-key updates cannot lose each other.
type Resolver struct {
	writeMu   sync.Mutex
	globals   atomic.Pointer[map[string]string]
	overrides OverrideSource
}

// NewResolver creates a resolver seeded with the given global defaults.
// The seed map is copied; the caller may reuse it.
func NewResolver(globalDefaults map[string]string, overrides OverrideSource) *Resolver {
	r := &Resolver{overrides: overrides}
	r.ReplaceGlobals(globalDefaults)
	return r
}

// ReplaceGlobals swaps the entire global default layer for a new snapshot.
// Used at startup and by config hot-reload.
func (r *Resolver) ReplaceGlobals(globalDefaults map[string]string) {
	snapshot := make(map[string]string, len(globalDefaults))
	for k, v := range globalDefaults {
		snapshot[k] = v
	}
	r.writeMu.Lock()
	r.globals.Store(&snapshot)
	r.writeMu.Unlock()
}

// SetGlobalDefault updates one provider's global default key.
// The update is copy-on-write: a new snapshot is built and swapped in under
// the writer lock, leaving concurrent readers on the old one.
func (r *Resolver) SetGlobalDefault(providerID, value string) {
	r.writeMu.Lock()
	old := *r.globals.Load()
	next := make(map[string]string, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[providerID] = value
	r.globals.Store(&next)
	r.writeMu.Unlock()

	slog.Info("global credential updated", "provider", providerID)
}

// Globals returns a copy of the current global default snapshot.
func (r *Resolver) Globals() Set {
	snapshot := *r.globals.Load()
	out := make(Set, len(snapshot))
	for k, v := range snapshot {
		out[k] = v
	}
	return out
}

// Resolve returns the effective credential for one provider: the user
// override when present and non-empty, else the global default. The second
// return value reports whether a non-empty credential was found.
func (r *Resolver) Resolve(ctx context.Context, userID, providerID string) (string, bool, error) {
	set, err := r.EffectiveSet(ctx, userID)
	if err != nil {
		return "", false, err
	}
	cred := set[providerID]
	return cred, cred != "", nil
}

// EffectiveSet materializes the full credential set for a request: a
// consistent copy of the global snapshot with the user's non-empty overrides
// applied on top. The returned set is independent of later rotations.
func (r *Resolver) EffectiveSet(ctx context.Context, userID string) (Set, error) {
	snapshot := *r.globals.Load()
	set := make(Set, len(snapshot))
	for k, v := range snapshot {
		set[k] = v
	}

	if r.overrides == nil || userID == "" {
		return set, nil
	}

	userKeys, err := r.overrides.UserAPIKeys(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user key overrides: %w", err)
	}
	for provider, key := range userKeys {
		if key != "" {
			set[provider] = key
		}
	}
	return set, nil
}

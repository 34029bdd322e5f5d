package routing

import (
	"sync"
	"sync/atomic"
	"time"
)

// SelectionStats is a point-in-time snapshot of selection statistics.
type SelectionStats struct {
	// TotalSelections is the total number of selection attempts.
	TotalSelections int64

	// SelectionsPerProvider counts successful selections by provider id.
	SelectionsPerProvider map[string]int64

	// PreferredHonored counts selections where the caller's explicit
	// preference was satisfied.
	PreferredHonored int64

	// Errors counts selection attempts that exhausted the candidate walk.
	Errors int64

	// LastResetTime is when statistics were last reset.
	LastResetTime time.Time
}

// AtomicSelectionStats implements thread-safe selection statistics using
// atomic operations. Counters are lock-free; the reset timestamp is guarded
// by a mutex.
type AtomicSelectionStats struct {
	totalSelections atomic.Int64

	// selectionsPerProvider tracks selections per provider id.
	selectionsPerProvider sync.Map // map[string]*atomic.Int64

	preferredHonored atomic.Int64
	errors           atomic.Int64

	lastResetTime time.Time
	mu            sync.RWMutex
}

// NewAtomicSelectionStats creates a new selection statistics tracker.
func NewAtomicSelectionStats() *AtomicSelectionStats {
	return &AtomicSelectionStats{
		lastResetTime: time.Now(),
	}
}

// IncrementTotal increments the total selection counter.
func (s *AtomicSelectionStats) IncrementTotal() {
	s.totalSelections.Add(1)
}

// IncrementProvider increments the counter for a specific provider.
func (s *AtomicSelectionStats) IncrementProvider(providerID string) {
	val, _ := s.selectionsPerProvider.LoadOrStore(providerID, &atomic.Int64{})
	val.(*atomic.Int64).Add(1)
}

// IncrementPreferredHonored increments the honored-preference counter.
func (s *AtomicSelectionStats) IncrementPreferredHonored() {
	s.preferredHonored.Add(1)
}

// IncrementErrors increments the error counter.
func (s *AtomicSelectionStats) IncrementErrors() {
	s.errors.Add(1)
}

// Snapshot returns a point-in-time snapshot of the statistics.
// The returned struct is safe to read without locks.
func (s *AtomicSelectionStats) Snapshot() *SelectionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perProvider := make(map[string]int64)
	s.selectionsPerProvider.Range(func(key, value interface{}) bool {
		perProvider[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})

	return &SelectionStats{
		TotalSelections:       s.totalSelections.Load(),
		SelectionsPerProvider: perProvider,
		PreferredHonored:      s.preferredHonored.Load(),
		Errors:                s.errors.Load(),
		LastResetTime:         s.lastResetTime,
	}
}

// Reset resets all statistics to zero.
func (s *AtomicSelectionStats) Reset() {
	s.totalSelections.Store(0)
	s.preferredHonored.Store(0)
	s.errors.Store(0)

	s.selectionsPerProvider.Range(func(key, value interface{}) bool {
		s.selectionsPerProvider.Delete(key)
		return true
	})

	s.mu.Lock()
	s.lastResetTime = time.Now()
	s.mu.Unlock()
}

package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig configures conversation retention.
type RetentionConfig struct {
	// MaxAge is how long conversations are kept after their last update.
	// Zero disables pruning.
	MaxAge time.Duration

	// Schedule is a standard cron expression controlling when pruning
	// runs (e.g. "0 3 * * *" for daily at 3 AM). Empty disables the
	// scheduler.
	Schedule string
}

// Pruner deletes conversations past their retention age.
type Pruner struct {
	store  ConversationStore
	config RetentionConfig
	logger *slog.Logger
}

// NewPruner creates a retention pruner over the given store.
func NewPruner(store ConversationStore, config RetentionConfig) *Pruner {
	return &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "store.retention"),
	}
}

// Prune runs one pruning cycle and returns the number of deleted
// conversations. A zero MaxAge is a no-op.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.MaxAge <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-p.config.MaxAge)
	return p.store.PruneOlderThan(ctx, cutoff)
}

// RetentionScheduler runs the pruner on a cron schedule.
type RetentionScheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewRetentionScheduler creates a scheduler for the given pruner.
func NewRetentionScheduler(pruner *Pruner) *RetentionScheduler {
	return &RetentionScheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: slog.Default().With("component", "store.scheduler"),
	}
}

// Start begins scheduled pruning. If no schedule is configured, the
// scheduler does nothing. Stops when the context is cancelled.
func (s *RetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pruner.config.Schedule == "" {
		s.logger.Info("retention schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.pruner.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.pruner.config.Schedule, err)
	}

	if _, err := s.cron.AddFunc(s.pruner.config.Schedule, func() {
		s.runPruning(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", s.pruner.config.Schedule,
		"max_age", s.pruner.config.MaxAge,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts scheduled pruning. In-flight cycles finish.
func (s *RetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("retention scheduler stopped")
}

func (s *RetentionScheduler) runPruning(ctx context.Context) {
	deleted, err := s.pruner.Prune(ctx)
	if err != nil {
		s.logger.Error("scheduled pruning failed", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("scheduled pruning completed", "deleted_count", deleted)
	}
}

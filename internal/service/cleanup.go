package service

import (
	"context"
	"time"

	"examcraft/internal/domain"
	"examcraft/internal/logger"

	"go.uber.org/zap"
)

// CleanupWorker periodically deletes sessions that were started but never
// submitted. Questions cascade with their session.
type CleanupWorker struct {
	sessionRepo domain.SessionRepository
	interval    time.Duration
	sessionTTL  time.Duration
	done        chan struct{}
}

// NewCleanupWorker creates a CleanupWorker.
func NewCleanupWorker(sessionRepo domain.SessionRepository, interval, sessionTTL time.Duration) *CleanupWorker {
	return &CleanupWorker{
		sessionRepo: sessionRepo,
		interval:    interval,
		sessionTTL:  sessionTTL,
		done:        make(chan struct{}),
	}
}

// Start launches the worker goroutine. It runs until the context is
// cancelled or Stop is called.
func (w *CleanupWorker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.done:
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()
}

// Stop signals the worker goroutine to exit.
func (w *CleanupWorker) Stop() {
	close(w.done)
}

func (w *CleanupWorker) runOnce(ctx context.Context) {
	appLogger := logger.Get()
	cutoff := time.Now().Add(-w.sessionTTL)
	deleted, err := w.sessionRepo.DeleteAbandonedSessions(ctx, cutoff)
	if err != nil {
		appLogger.Error("Abandoned session cleanup failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		appLogger.Info("Deleted abandoned sessions",
			zap.Int64("count", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
}

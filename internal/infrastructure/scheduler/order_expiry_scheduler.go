// Package scheduler runs the periodic background jobs of the store.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/oilmart/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// OrderExpirer releases stale unpaid orders. Implemented by the order
// application service.
type OrderExpirer interface {
	ExpireStalePending(ctx context.Context, olderThan time.Duration, batchSize int) (int, error)
}

// OrderExpiryScheduler periodically cancels pending orders whose
// payment never arrived, returning their stock to the catalog.
type OrderExpiryScheduler struct {
	expirer OrderExpirer
	cfg     config.OrderConfig
	logger  *zap.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewOrderExpiryScheduler creates a new OrderExpiryScheduler
func NewOrderExpiryScheduler(expirer OrderExpirer, cfg config.OrderConfig, logger *zap.Logger) *OrderExpiryScheduler {
	return &OrderExpiryScheduler{
		expirer: expirer,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start launches the sweep loop. Calling Start on a running scheduler
// is a no-op.
func (s *OrderExpiryScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.isRunning = true

	s.wg.Add(1)
	go s.run(runCtx)

	s.logger.Info("order expiry scheduler started",
		zap.Duration("interval", s.cfg.ExpiryCheckInterval),
		zap.Duration("pending_expiration", s.cfg.PendingExpiration),
		zap.Int("batch_size", s.cfg.ExpiryBatchSize),
	)
}

// Stop halts the loop and waits for an in-flight sweep to finish
func (s *OrderExpiryScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("order expiry scheduler stopped")
}

func (s *OrderExpiryScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.ExpiryCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *OrderExpiryScheduler) sweep(ctx context.Context) {
	expired, err := s.expirer.ExpireStalePending(ctx, s.cfg.PendingExpiration, s.cfg.ExpiryBatchSize)
	if err != nil {
		s.logger.Error("order expiry sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		s.logger.Info("expired stale pending orders", zap.Int("count", expired))
	}
}

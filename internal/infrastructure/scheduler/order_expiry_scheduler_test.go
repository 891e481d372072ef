package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oilmart/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingExpirer struct {
	calls atomic.Int64
}

func (e *countingExpirer) ExpireStalePending(_ context.Context, _ time.Duration, _ int) (int, error) {
	e.calls.Add(1)
	return 1, nil
}

func testOrderConfig(interval time.Duration) config.OrderConfig {
	return config.OrderConfig{
		PendingExpiration:   30 * time.Minute,
		ExpiryCheckInterval: interval,
		ExpiryBatchSize:     50,
	}
}

func TestOrderExpiryScheduler_RunsSweeps(t *testing.T) {
	expirer := &countingExpirer{}
	sched := NewOrderExpiryScheduler(expirer, testOrderConfig(10*time.Millisecond), zap.NewNop())

	sched.Start(context.Background())
	defer sched.Stop()

	assert.Eventually(t, func() bool {
		return expirer.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestOrderExpiryScheduler_StopHaltsSweeps(t *testing.T) {
	expirer := &countingExpirer{}
	sched := NewOrderExpiryScheduler(expirer, testOrderConfig(5*time.Millisecond), zap.NewNop())

	sched.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	sched.Stop()

	after := expirer.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, expirer.calls.Load())
}

func TestOrderExpiryScheduler_StartIsIdempotent(t *testing.T) {
	expirer := &countingExpirer{}
	sched := NewOrderExpiryScheduler(expirer, testOrderConfig(time.Hour), zap.NewNop())

	sched.Start(context.Background())
	sched.Start(context.Background())
	sched.Stop()
	sched.Stop()
}

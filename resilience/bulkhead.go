package resilience

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// BulkheadConfig configures the bulkhead.
type BulkheadConfig struct {
	// MaxConcurrent is the maximum number of in-flight operations.
	// Default: 10
	MaxConcurrent int64

	// MaxWait is the maximum time to wait for a slot.
	// Default: 0 (no waiting, fail immediately)
	MaxWait time.Duration
}

// Bulkhead caps concurrent operations so one slow dependency cannot
// exhaust the host process.
type Bulkhead struct {
	sem           *semaphore.Weighted
	maxConcurrent int64
	maxWait       time.Duration

	active   atomic.Int64
	rejected atomic.Int64
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}

	return &Bulkhead{
		sem:           semaphore.NewWeighted(config.MaxConcurrent),
		maxConcurrent: config.MaxConcurrent,
		maxWait:       config.MaxWait,
	}
}

// Acquire claims a slot, waiting up to MaxWait when none is free.
// Returns ErrBulkheadFull when capacity stays exhausted and the
// caller's context error when cancelled while waiting.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	if b.sem.TryAcquire(1) {
		b.active.Add(1)
		return nil
	}

	if b.maxWait <= 0 {
		b.rejected.Add(1)
		return ErrBulkheadFull
	}

	waitCtx, cancel := context.WithTimeout(ctx, b.maxWait)
	defer cancel()

	if err := b.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.rejected.Add(1)
		return ErrBulkheadFull
	}
	b.active.Add(1)
	return nil
}

// Release returns a slot. Calls must pair with a successful Acquire.
func (b *Bulkhead) Release() {
	b.active.Add(-1)
	b.sem.Release(1)
}

// Execute runs op within the bulkhead.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()

	return op(ctx)
}

// BulkheadMetrics contains bulkhead statistics.
type BulkheadMetrics struct {
	Active        int64
	Available     int64
	MaxConcurrent int64
	Rejected      int64
}

// Metrics returns current bulkhead statistics.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	active := b.active.Load()
	return BulkheadMetrics{
		Active:        active,
		Available:     b.maxConcurrent - active,
		MaxConcurrent: b.maxConcurrent,
		Rejected:      b.rejected.Load(),
	}
}

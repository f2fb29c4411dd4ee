package resilience

import (
	"context"
	"time"
)

// Monitor receives executor telemetry.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic and must return quickly.
type Monitor interface {
	// RecordCall records one completed Execute call with its total
	// duration and final error, nil on success.
	RecordCall(ctx context.Context, op string, duration time.Duration, err error)

	// RecordRetry records a failed attempt that will be retried after
	// the given delay.
	RecordRetry(ctx context.Context, op string, attempt int, err error, delay time.Duration)

	// RecordStateChange records a circuit breaker transition.
	RecordStateChange(ctx context.Context, key string, from, to State)
}

// NopMonitor discards all telemetry.
type NopMonitor struct{}

func (NopMonitor) RecordCall(ctx context.Context, op string, duration time.Duration, err error) {}

func (NopMonitor) RecordRetry(ctx context.Context, op string, attempt int, err error, delay time.Duration) {
}

func (NopMonitor) RecordStateChange(ctx context.Context, key string, from, to State) {}

package resilience

import (
	"context"
	"time"

	"github.com/coder/quartz"
)

// Executor is the public entry point. It composes the circuit breaker
// gate, the retry loop, and the per-attempt timeout around an outbound
// call, with optional rate limiting and bulkhead isolation in front.
type Executor struct {
	registry    *BreakerRegistry
	rateLimiter *RateLimiter
	bulkhead    *Bulkhead
	monitor     Monitor
	clock       quartz.Clock
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithBreakerRegistry sets the registry whose breakers gate keyed calls.
func WithBreakerRegistry(r *BreakerRegistry) ExecutorOption {
	return func(e *Executor) {
		e.registry = r
	}
}

// WithRateLimiter paces calls before any other layer runs.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) {
		e.rateLimiter = rl
	}
}

// WithBulkhead caps concurrent in-flight calls.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) {
		e.bulkhead = b
	}
}

// WithMonitor sets the telemetry sink.
func WithMonitor(m Monitor) ExecutorOption {
	return func(e *Executor) {
		e.monitor = m
	}
}

// WithExecutorClock overrides the time source for the executor and the
// breakers it creates.
func WithExecutorClock(clock quartz.Clock) ExecutorOption {
	return func(e *Executor) {
		e.clock = clock
	}
}

// NewExecutor creates an executor. Without WithBreakerRegistry it owns
// a private registry so breaker keys are scoped to this executor.
// Breaker state transitions are reported to the monitor for owned and
// injected registries alike.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		monitor: NopMonitor{},
		clock:   quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		e.registry = NewBreakerRegistry(BreakerConfig{Clock: e.clock})
	}
	e.registry.OnStateChange(func(key string, from, to State) {
		e.monitor.RecordStateChange(context.Background(), key, from, to)
	})
	return e
}

// Registry returns the breaker registry backing this executor.
func (e *Executor) Registry() *BreakerRegistry {
	return e.registry
}

// CallOptions configure a single Execute call.
type CallOptions struct {
	// Op names the call in errors and telemetry.
	Op string

	// Timeout bounds each individual attempt. Zero disables the
	// timeout wrapper.
	Timeout time.Duration

	// BreakerKey selects the circuit breaker guarding this call. Empty
	// skips the breaker layer entirely.
	BreakerKey string

	// OnRetry is invoked after each failed attempt, in addition to any
	// observer on the retry policy.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Execute runs op with retry, per-attempt timeout, and an optional
// circuit breaker gate. The breaker wraps the whole retry loop as one
// unit, so an exhausted retry counts as a single breaker failure. The
// final error is always the last real failure, with CircuitOpenError
// and AbortedError as the distinguishable synthetic cases.
func Execute[T any](ctx context.Context, e *Executor, policy RetryConfig, opts CallOptions, op func(context.Context) (T, error)) (T, error) {
	var result T

	if policy.Clock == nil {
		policy.Clock = e.clock
	}
	userRetry := policy.OnRetry
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		e.monitor.RecordRetry(ctx, opts.Op, attempt, err, delay)
		if opts.OnRetry != nil {
			opts.OnRetry(attempt, err, delay)
		}
		if userRetry != nil {
			userRetry(attempt, err, delay)
		}
	}
	retry := NewRetry(policy)

	attempt := func(ctx context.Context) error {
		v, err := op(ctx)
		if err == nil {
			result = v
		}
		return err
	}
	if opts.Timeout > 0 {
		// The op runs on a goroutine the timeout wrapper may abandon. Its
		// value lands in a per-attempt local and is promoted to result
		// only after the wrapper reports success, so a late completion
		// from a timed-out attempt is never observed.
		t := NewTimeout(TimeoutConfig{Timeout: opts.Timeout, Op: opts.Op, Clock: e.clock})
		attempt = func(ctx context.Context) error {
			var v T
			err := t.Execute(ctx, func(ctx context.Context) error {
				got, err := op(ctx)
				if err == nil {
					v = got
				}
				return err
			})
			if err == nil {
				result = v
			}
			return err
		}
	}

	unit := func(ctx context.Context) error {
		return retry.Execute(ctx, attempt)
	}
	if opts.BreakerKey != "" {
		inner := unit
		cb := e.registry.Get(opts.BreakerKey)
		unit = func(ctx context.Context) error {
			return cb.Execute(ctx, inner)
		}
	}
	if e.bulkhead != nil {
		inner := unit
		unit = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}
	if e.rateLimiter != nil {
		inner := unit
		unit = func(ctx context.Context) error {
			return e.rateLimiter.Execute(ctx, inner)
		}
	}

	start := e.clock.Now()
	err := unit(ctx)
	e.monitor.RecordCall(ctx, opts.Op, e.clock.Since(start), err)

	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

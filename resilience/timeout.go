package resilience

import (
	"context"
	"time"

	"github.com/coder/quartz"
)

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum wall-clock duration for one attempt.
	// Default: 30 seconds
	Timeout time.Duration

	// Op names the guarded operation in timeout errors.
	Op string

	// Clock overrides the time source.
	Clock quartz.Clock
}

// Timeout bounds the wall-clock duration of a single attempt.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	return &Timeout{config: config}
}

// Execute races op against the deadline. When the timer fires first the
// operation's eventual result is discarded and a TimeoutError is
// returned; the child context is cancelled so a cooperative op can stop
// its I/O, but forcing that is the caller's responsibility. The timer
// is stopped on every exit path.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	timer := t.config.Clock.NewTimer(t.config.Timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return &TimeoutError{Op: t.config.Op, Limit: t.config.Timeout}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ExecuteWithTimeout is a convenience wrapper for one-off calls.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	t := NewTimeout(TimeoutConfig{Timeout: timeout})
	return t.Execute(ctx, op)
}

package resilience

import (
	"context"
	"time"

	"github.com/coder/quartz"
)

// RetryConfig configures the retry loop. It is immutable once handed to
// NewRetry; build one per logical operation category and reuse it.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	// Default: 3
	MaxAttempts int

	// InitialDelay is the base delay before the first retry.
	// Default: 1 second
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	// Default: 30 seconds
	MaxDelay time.Duration

	// Multiplier is the exponential backoff factor.
	// Default: 2.0
	Multiplier float64

	// RetryableMatchers overrides DefaultRetryableMatchers.
	RetryableMatchers []string

	// OnRetry is invoked after a failed attempt with the attempt number,
	// the error, and the planned delay before the next attempt. It is
	// observational only: panics are swallowed and it cannot alter
	// control flow.
	OnRetry func(attempt int, err error, delay time.Duration)

	// Rand overrides the jitter source, see BackoffConfig.Rand.
	Rand func() float64

	// Clock overrides the time source.
	Clock quartz.Clock
}

// Retry executes operations with classified-error retry and jittered
// exponential backoff. Attempts are strictly sequential.
type Retry struct {
	maxAttempts int
	backoff     *Backoff
	classifier  *Classifier
	onRetry     func(attempt int, err error, delay time.Duration)
	clock       quartz.Clock
}

// NewRetry creates a retry handler.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}

	return &Retry{
		maxAttempts: config.MaxAttempts,
		backoff: NewBackoff(BackoffConfig{
			InitialDelay: config.InitialDelay,
			MaxDelay:     config.MaxDelay,
			Multiplier:   config.Multiplier,
			Rand:         config.Rand,
		}),
		classifier: NewClassifier(config.RetryableMatchers...),
		onRetry:    config.OnRetry,
		clock:      config.Clock,
	}
}

// MaxAttempts returns the configured attempt cap.
func (r *Retry) MaxAttempts() int { return r.maxAttempts }

// Execute runs op until it succeeds, fails terminally, or attempts run
// out. A non-retryable error is surfaced immediately after a single
// invocation; on exhaustion the last observed error is returned.
// Cancellation is checked before each attempt and raced against the
// inter-attempt sleep, producing an AbortedError rather than another
// attempt.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return &AbortedError{Attempt: attempt, Cause: err}
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.classifier.Retryable(err) {
			return err
		}
		if attempt >= r.maxAttempts {
			break
		}

		delay := r.backoff.Delay(attempt)
		r.notify(attempt, err, delay)

		if cause := r.sleep(ctx, delay); cause != nil {
			return &AbortedError{Attempt: attempt, Cause: cause}
		}
	}

	return lastErr
}

// notify invokes the OnRetry observer. A misbehaving observer must not
// corrupt retry semantics, so panics are discarded here.
func (r *Retry) notify(attempt int, err error, delay time.Duration) {
	if r.onRetry == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	r.onRetry(attempt, err, delay)
}

// sleep waits for the inter-attempt delay or for cancellation,
// whichever comes first. The timer is always stopped.
func (r *Retry) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := r.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

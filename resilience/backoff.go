package resilience

import (
	"math"
	"math/rand/v2"
	"time"
)

// BackoffConfig configures the delay calculator.
type BackoffConfig struct {
	// InitialDelay is the base delay before the first retry.
	// Default: 1 second
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries. Raised to InitialDelay
	// when set lower.
	// Default: 30 seconds
	MaxDelay time.Duration

	// Multiplier is the exponential growth factor.
	// Default: 2.0
	Multiplier float64

	// Rand returns values in [0, 1) and drives the jitter. Inject a
	// fixed source in tests for deterministic delays.
	// Default: math/rand/v2
	Rand func() float64
}

// Backoff computes capped exponential delays with symmetric jitter.
type Backoff struct {
	initial    time.Duration
	max        time.Duration
	multiplier float64
	rand       func() float64
}

// NewBackoff creates a delay calculator.
func NewBackoff(config BackoffConfig) *Backoff {
	if config.InitialDelay <= 0 {
		config.InitialDelay = time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.MaxDelay < config.InitialDelay {
		config.MaxDelay = config.InitialDelay
	}
	if config.Multiplier <= 1 {
		config.Multiplier = 2.0
	}
	if config.Rand == nil {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		config.Rand = rand.Float64
	}

	return &Backoff{
		initial:    config.InitialDelay,
		max:        config.MaxDelay,
		multiplier: config.Multiplier,
		rand:       config.Rand,
	}
}

// Delay returns the wait before the retry that follows the given
// attempt (1-indexed). The capped exponential value is perturbed by up
// to ±25% so synchronized callers do not retry in lockstep; attempt 1
// yields roughly InitialDelay.
func (b *Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	capped := float64(b.initial) * math.Pow(b.multiplier, float64(attempt-1))
	if capped > float64(b.max) {
		capped = float64(b.max)
	}

	jitter := capped * 0.25 * (b.rand()*2 - 1)

	d := math.Floor(capped + jitter)
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

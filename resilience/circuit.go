package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls pass through normally.
	StateClosed State = iota
	// StateOpen means calls are rejected without invoking the operation.
	StateOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures circuit breakers.
type BreakerConfig struct {
	// FailureThreshold is the failure count that opens the circuit.
	// Default: 5
	FailureThreshold int

	// ResetTimeout is the cool-down after which an open circuit may
	// close again.
	// Default: 60 seconds
	ResetTimeout time.Duration

	// OnStateChange is called when a breaker opens or closes.
	OnStateChange func(key string, from, to State)

	// Clock overrides the time source.
	Clock quartz.Clock
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = 60 * time.Second
	}
	if c.Clock == nil {
		c.Clock = quartz.NewReal()
	}
	return c
}

// CircuitBreaker guards a single logical operation key. It opens after
// a run of failures and closes again only through the cool-down check
// performed lazily at the next call; a success while closed resets the
// failure count but never touches an open circuit.
type CircuitBreaker struct {
	key    string
	config BreakerConfig

	mu          sync.Mutex
	open        bool
	failures    int
	lastFailure time.Time
}

// NewCircuitBreaker creates a breaker for the given key.
func NewCircuitBreaker(key string, config BreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{key: key, config: config.withDefaults()}
}

// Execute runs op through the breaker gate. The operation's error is
// re-raised unchanged after bookkeeping; deciding retryability is the
// retry loop's job, not the breaker's.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.allow(); err != nil {
		return err
	}

	err := op(ctx)
	cb.record(err)
	return err
}

// allow admits the call or returns a CircuitOpenError carrying the
// remaining cool-down. An elapsed cool-down closes the circuit and
// zeroes the failure count in the same step, so a freshly closed
// breaker can never re-open without new failures.
func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !cb.open {
		return nil
	}

	elapsed := cb.config.Clock.Now().Sub(cb.lastFailure)
	if elapsed > cb.config.ResetTimeout {
		cb.open = false
		cb.failures = 0
		cb.notify(StateOpen, StateClosed)
		return nil
	}

	return &CircuitOpenError{Key: cb.key, Remaining: cb.config.ResetTimeout - elapsed}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failures = 0
		return
	}

	// Cancellation says nothing about the dependency's health.
	var aborted *AbortedError
	if errors.As(err, &aborted) {
		return
	}

	cb.failures++
	cb.lastFailure = cb.config.Clock.Now()
	if !cb.open && cb.failures >= cb.config.FailureThreshold {
		cb.open = true
		cb.notify(StateClosed, StateOpen)
	}
}

func (cb *CircuitBreaker) notify(from, to State) {
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.key, from, to)
	}
}

// State reports the current state without side effects. An open breaker
// whose cool-down has elapsed still reports open until the next call
// runs the lazy reset.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.open {
		return StateOpen
	}
	return StateClosed
}

// BreakerStatus is a point-in-time snapshot of a breaker.
type BreakerStatus struct {
	Key         string
	State       State
	Failures    int
	LastFailure time.Time
}

// Status returns a snapshot of the breaker's bookkeeping.
func (cb *CircuitBreaker) Status() BreakerStatus {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := StateClosed
	if cb.open {
		state = StateOpen
	}
	return BreakerStatus{
		Key:         cb.key,
		State:       state,
		Failures:    cb.failures,
		LastFailure: cb.lastFailure,
	}
}

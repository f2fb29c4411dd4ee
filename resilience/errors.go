package resilience

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Sentinel errors for resilience operations. The typed errors below
// match these via errors.Is so callers can branch without knowing the
// concrete type.
var (
	// ErrCircuitOpen is returned when a circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrTimeout is returned when a single attempt exceeds its allotted duration.
	ErrTimeout = errors.New("resilience: operation timed out")

	// ErrAborted is returned when cancellation is observed between attempts.
	ErrAborted = errors.New("resilience: aborted")

	// ErrRateLimitExceeded is returned when the rate limit is exceeded.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")
)

// TimeoutError reports that a single attempt exceeded its allotted
// duration. The classifier treats timeouts as transient.
type TimeoutError struct {
	Op    string
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("operation timed out after %v", e.Limit)
	}
	return fmt.Sprintf("%s timed out after %v", e.Op, e.Limit)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

func (e *TimeoutError) Retryable() bool { return true }

// NetworkError wraps a transport-level failure (connection reset, DNS
// failure, unreachable host). Construct it at the call boundary so the
// classifier never has to probe unknown error shapes.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Retryable() bool { return true }

// HTTPError carries the response status of a failed upstream call.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// AbortedError reports that cancellation was observed at a retry
// checkpoint. It is distinct from the operation's own failures: the
// caller gave up, the dependency did not.
type AbortedError struct {
	Attempt int
	Cause   error
}

func (e *AbortedError) Error() string {
	return fmt.Sprintf("aborted on attempt %d: %v", e.Attempt, e.Cause)
}

func (e *AbortedError) Unwrap() error { return e.Cause }

func (e *AbortedError) Is(target error) bool { return target == ErrAborted }

// CircuitOpenError reports a call rejected by an open circuit breaker
// without the wrapped operation being invoked.
type CircuitOpenError struct {
	Key       string
	Remaining time.Duration
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit breaker %q open, retry in %ds", e.Key, e.RemainingSeconds())
}

func (e *CircuitOpenError) Is(target error) bool { return target == ErrCircuitOpen }

// RemainingSeconds returns the remaining cool-down rounded up to whole
// seconds.
func (e *CircuitOpenError) RemainingSeconds() int {
	return int(math.Ceil(e.Remaining.Seconds()))
}

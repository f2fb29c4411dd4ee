// Package resilience hardens outbound calls to hosted model APIs and
// other flaky collaborators.
//
// The core is an executor that composes three layers around a single
// asynchronous operation:
//
//   - Retry: classified-error retry with capped exponential backoff and
//     ±25% jitter. Terminal failures surface after one attempt;
//     transient ones are retried up to the configured cap.
//
//   - Timeout: bounds the wall-clock duration of each attempt. A fired
//     timeout discards the attempt's result and counts as transient.
//
//   - Circuit breaker: per-key failure counting. After a run of
//     failures the breaker opens and rejects calls for a cool-down,
//     then closes lazily at the next call once the cool-down elapses.
//
// The breaker gates the whole retry loop, so an exhausted retry counts
// as one breaker failure. Bulkhead isolation and token-bucket rate
// limiting can be layered in front.
//
// # Usage
//
//	registry := resilience.NewBreakerRegistry(resilience.BreakerConfig{
//	    FailureThreshold: 5,
//	    ResetTimeout:     time.Minute,
//	})
//
//	executor := resilience.NewExecutor(
//	    resilience.WithBreakerRegistry(registry),
//	)
//
//	policy := resilience.RetryConfig{
//	    MaxAttempts:  3,
//	    InitialDelay: time.Second,
//	    MaxDelay:     10 * time.Second,
//	    Multiplier:   2.0,
//	}
//
//	reply, err := resilience.Execute(ctx, executor, policy, resilience.CallOptions{
//	    Op:         "chat completion",
//	    Timeout:    30 * time.Second,
//	    BreakerKey: "chat-api",
//	}, func(ctx context.Context) (string, error) {
//	    return client.Complete(ctx, prompt)
//	})
//
// Failures come back classified: errors.Is distinguishes ErrTimeout,
// ErrAborted, and ErrCircuitOpen from the dependency's own errors, and
// CircuitOpenError carries the remaining cool-down. The package never
// produces user-facing text; callers map these to messages themselves.
package resilience

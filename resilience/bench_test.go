package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func BenchmarkBackoff_Delay(b *testing.B) {
	backoff := NewBackoff(BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = backoff.Delay(i%8 + 1)
	}
}

func BenchmarkClassifier_Retryable(b *testing.B) {
	c := NewClassifier()
	err := errors.New("read tcp 10.0.0.1:443: connection reset by peer")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Retryable(err)
	}
}

func BenchmarkExecute_Success(b *testing.B) {
	e := NewExecutor()
	policy := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Execute(context.Background(), e, policy, CallOptions{Op: "bench"},
			func(ctx context.Context) (int, error) { return 1, nil })
	}
}

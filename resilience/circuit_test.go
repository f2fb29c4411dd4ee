package resilience

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
)

func TestCircuitBreaker_OpensAtThreshold(t *testing.T) {
	mock := quartz.NewMock(t)
	cb := NewCircuitBreaker("chat-api", BreakerConfig{
		FailureThreshold: 2,
		ResetTimeout:     time.Minute,
		Clock:            mock,
	})

	ctx := context.Background()
	boom := errors.New("boom")

	if cb.State() != StateClosed {
		t.Fatalf("initial state = %v, want closed", cb.State())
	}

	for i := 0; i < 2; i++ {
		err := cb.Execute(ctx, func(ctx context.Context) error { return boom })
		if !errors.Is(err, boom) {
			t.Fatalf("Execute() error = %v, want original error re-raised", err)
		}
	}

	if cb.State() != StateOpen {
		t.Errorf("state after %d failures = %v, want open", 2, cb.State())
	}
}

func TestCircuitBreaker_RejectsWhileOpen(t *testing.T) {
	mock := quartz.NewMock(t)
	cb := NewCircuitBreaker("chat-api", BreakerConfig{
		FailureThreshold: 2,
		ResetTimeout:     time.Minute,
		Clock:            mock,
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_ = cb.Execute(ctx, func(ctx context.Context) error { return errors.New("boom") })
	}

	invoked := false
	err := cb.Execute(ctx, func(ctx context.Context) error {
		invoked = true
		return nil
	})

	if invoked {
		t.Error("operation invoked while circuit open")
	}

	var openErr *CircuitOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("Execute() error = %v, want CircuitOpenError", err)
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Error("errors.Is(err, ErrCircuitOpen) = false")
	}
	if openErr.RemainingSeconds() <= 0 || openErr.RemainingSeconds() > 60 {
		t.Errorf("RemainingSeconds() = %d, want in (0, 60]", openErr.RemainingSeconds())
	}
	if !strings.Contains(err.Error(), `"chat-api"`) {
		t.Errorf("error message %q should name the key", err.Error())
	}
}

func TestCircuitBreaker_LazyResetAfterCooldown(t *testing.T) {
	mock := quartz.NewMock(t)

	var transitions []string
	cb := NewCircuitBreaker("chat-api", BreakerConfig{
		FailureThreshold: 2,
		ResetTimeout:     time.Minute,
		Clock:            mock,
		OnStateChange: func(key string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_ = cb.Execute(ctx, func(ctx context.Context) error { return errors.New("boom") })
	}

	mock.Advance(time.Minute + time.Second)

	// The breaker only closes via the gate check at call time.
	if cb.State() != StateOpen {
		t.Errorf("state before next call = %v, want still open", cb.State())
	}

	invoked := false
	err := cb.Execute(ctx, func(ctx context.Context) error {
		invoked = true
		return nil
	})

	if err != nil {
		t.Errorf("Execute() after cool-down error = %v", err)
	}
	if !invoked {
		t.Error("operation not invoked after cool-down elapsed")
	}
	if got := cb.Status(); got.State != StateClosed || got.Failures != 0 {
		t.Errorf("status after reset = %+v, want closed with 0 failures", got)
	}

	want := []string{"closed->open", "open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition[%d] = %q, want %q", i, transitions[i], want[i])
		}
	}
}

func TestCircuitBreaker_FailureRightAfterResetCounts(t *testing.T) {
	mock := quartz.NewMock(t)
	cb := NewCircuitBreaker("chat-api", BreakerConfig{
		FailureThreshold: 2,
		ResetTimeout:     time.Minute,
		Clock:            mock,
	})

	ctx := context.Background()
	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		_ = cb.Execute(ctx, func(ctx context.Context) error { return boom })
	}
	mock.Advance(2 * time.Minute)

	// Lazy reset admits the call; its failure starts a fresh count
	// rather than re-opening immediately.
	_ = cb.Execute(ctx, func(ctx context.Context) error { return boom })

	if got := cb.Status(); got.State != StateClosed || got.Failures != 1 {
		t.Errorf("status = %+v, want closed with 1 failure", got)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	mock := quartz.NewMock(t)
	cb := NewCircuitBreaker("chat-api", BreakerConfig{
		FailureThreshold: 2,
		ResetTimeout:     time.Minute,
		Clock:            mock,
	})

	ctx := context.Background()
	boom := errors.New("boom")

	_ = cb.Execute(ctx, func(ctx context.Context) error { return boom })
	_ = cb.Execute(ctx, func(ctx context.Context) error { return nil })
	_ = cb.Execute(ctx, func(ctx context.Context) error { return boom })

	if cb.State() != StateClosed {
		t.Errorf("state = %v, want closed: success resets the failure run", cb.State())
	}
	if got := cb.Status().Failures; got != 1 {
		t.Errorf("failures = %d, want 1", got)
	}
}

func TestCircuitBreaker_AbortDoesNotCount(t *testing.T) {
	mock := quartz.NewMock(t)
	cb := NewCircuitBreaker("chat-api", BreakerConfig{
		FailureThreshold: 1,
		ResetTimeout:     time.Minute,
		Clock:            mock,
	})

	ctx := context.Background()
	_ = cb.Execute(ctx, func(ctx context.Context) error {
		return &AbortedError{Attempt: 1, Cause: context.Canceled}
	})

	if cb.State() != StateClosed {
		t.Error("a caller-side abort must not trip the breaker")
	}
}

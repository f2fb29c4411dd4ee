package resilience

import (
	"testing"
	"time"
)

func TestNewBackoff(t *testing.T) {
	b := NewBackoff(BackoffConfig{})

	if b.initial != time.Second {
		t.Errorf("initial = %v, want 1s", b.initial)
	}
	if b.max != 30*time.Second {
		t.Errorf("max = %v, want 30s", b.max)
	}
	if b.multiplier != 2.0 {
		t.Errorf("multiplier = %f, want 2.0", b.multiplier)
	}
}

func TestNewBackoff_MaxBelowInitial(t *testing.T) {
	b := NewBackoff(BackoffConfig{
		InitialDelay: time.Second,
		MaxDelay:     100 * time.Millisecond,
	})

	if b.max != time.Second {
		t.Errorf("max = %v, want raised to 1s", b.max)
	}
}

func TestBackoff_Delay_NoJitter(t *testing.T) {
	// Rand 0.5 maps to zero jitter, so delays are the exact capped
	// exponential values.
	b := NewBackoff(BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		Rand:         func() float64 { return 0.5 },
	})

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second}, // capped
		{9, time.Second}, // still capped
	}

	for _, tt := range tests {
		if got := b.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoff_Delay_JitterBounds(t *testing.T) {
	b := NewBackoff(BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	})

	for attempt := 1; attempt <= 6; attempt++ {
		capped := 100 * time.Millisecond << (attempt - 1)
		if capped > time.Second {
			capped = time.Second
		}
		lo := time.Duration(float64(capped) * 0.75)
		hi := time.Duration(float64(capped) * 1.25)

		for i := 0; i < 200; i++ {
			d := b.Delay(attempt)
			if d < lo || d > hi {
				t.Fatalf("Delay(%d) = %v, want within [%v, %v]", attempt, d, lo, hi)
			}
		}
	}
}

func TestBackoff_Delay_JitterExtremes(t *testing.T) {
	config := BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	}

	config.Rand = func() float64 { return 0 }
	low := NewBackoff(config).Delay(1)
	if low != 75*time.Millisecond {
		t.Errorf("Delay at minimum jitter = %v, want 75ms", low)
	}

	config.Rand = func() float64 { return 1 }
	high := NewBackoff(config).Delay(1)
	if high != 125*time.Millisecond {
		t.Errorf("Delay at maximum jitter = %v, want 125ms", high)
	}
}

func TestBackoff_Delay_AttemptFloor(t *testing.T) {
	b := NewBackoff(BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		Rand:         func() float64 { return 0.5 },
	})

	// Out-of-range attempts clamp to the first retry delay.
	if got := b.Delay(0); got != 100*time.Millisecond {
		t.Errorf("Delay(0) = %v, want 100ms", got)
	}
	if got := b.Delay(-3); got != 100*time.Millisecond {
		t.Errorf("Delay(-3) = %v, want 100ms", got)
	}
}

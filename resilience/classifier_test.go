package resilience

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestClassifier_DefaultMatchers(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"errno spelling", errors.New("ECONNRESET"), true},
		{"timeout", errors.New("request timed out"), true},
		{"etimedout", errors.New("ETIMEDOUT"), true},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"dns not found", errors.New("lookup api.example.com: no such host"), true},
		{"dns retry", errors.New("getaddrinfo EAI_AGAIN api.example.com"), true},
		{"network unreachable", errors.New("connect: network is unreachable"), true},
		{"overloaded", errors.New("Overloaded"), true},
		{"rate limit", errors.New("rate_limit_error: too many requests"), true},
		{"status 503 in message", errors.New("upstream returned 503"), true},
		{"status 529 in message", errors.New("upstream returned 529"), true},
		{"auth failure", errors.New("invalid api key"), false},
		{"malformed request", errors.New("bad request: missing field"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifier_HTTPStatus(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		status int
		want   bool
	}{
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{529, true},
		{400, false},
		{401, false},
		{404, false},
	}

	for _, tt := range tests {
		err := &HTTPError{Status: tt.status, Message: "x"}
		if got := c.Retryable(err); got != tt.want {
			t.Errorf("Retryable(http %d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestClassifier_WrappedHTTPError(t *testing.T) {
	c := NewClassifier()

	err := fmt.Errorf("chat completion: %w", &HTTPError{Status: 429})
	if !c.Retryable(err) {
		t.Error("Retryable(wrapped http 429) = false, want true")
	}
}

func TestClassifier_RetryableFlag(t *testing.T) {
	c := NewClassifier("nothing matches this")

	if !c.Retryable(&NetworkError{Op: "vision", Err: errors.New("weird failure")}) {
		t.Error("NetworkError should be retryable regardless of matchers")
	}
	if !c.Retryable(&TimeoutError{Op: "chat", Limit: time.Second}) {
		t.Error("TimeoutError should be retryable regardless of matchers")
	}
}

func TestClassifier_CustomMatchers(t *testing.T) {
	c := NewClassifier("FLAKY")

	if !c.Retryable(errors.New("backend is flaky today")) {
		t.Error("custom matcher should be case-insensitive")
	}
	if c.Retryable(errors.New("connection reset by peer")) {
		t.Error("custom matchers replace the defaults")
	}
}

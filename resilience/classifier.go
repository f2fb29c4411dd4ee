package resilience

import (
	"errors"
	"strings"
)

// DefaultRetryableMatchers lists the error signatures treated as
// transient by default. Matching is a case-insensitive substring check
// against the full error text, covering both Go net error spellings and
// the raw errno names hosted APIs tend to echo back.
var DefaultRetryableMatchers = []string{
	"econnreset", "connection reset",
	"etimedout", "timeout", "timed out",
	"econnrefused", "connection refused",
	"epipe", "broken pipe",
	"enotfound", "no such host",
	"enetunreach", "network is unreachable",
	"eai_again",
	"overloaded",
	"rate_limit", "rate limit",
	"503", "529",
}

// Classifier decides whether a failure is transient and worth another
// attempt. It never caps attempts; that is the retry loop's job.
type Classifier struct {
	matchers []string
}

// NewClassifier creates a classifier with the given matchers, falling
// back to DefaultRetryableMatchers when none are given.
func NewClassifier(matchers ...string) *Classifier {
	if len(matchers) == 0 {
		matchers = DefaultRetryableMatchers
	}

	lowered := make([]string, len(matchers))
	for i, m := range matchers {
		lowered[i] = strings.ToLower(m)
	}
	return &Classifier{matchers: lowered}
}

// Retryable reports whether err is transient. An error is retryable
// when it declares itself so via a Retryable() bool method, carries an
// HTTP 429 or 5xx status, or its text matches one of the configured
// signatures.
func (c *Classifier) Retryable(err error) bool {
	if err == nil {
		return false
	}

	var flagged interface{ Retryable() bool }
	if errors.As(err, &flagged) && flagged.Retryable() {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Status == 429 || httpErr.Status >= 500 {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, m := range c.matchers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

package observe

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lumenhq/callguard/resilience"
)

// CallMetrics records executor telemetry with OpenTelemetry
// instruments. It implements resilience.Monitor.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: recording is best-effort and must not panic.
type CallMetrics struct {
	callCount    metric.Int64Counter
	errorCount   metric.Int64Counter
	retryCount   metric.Int64Counter
	breakerCount metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewCallMetrics creates the executor instruments on the given meter.
func NewCallMetrics(meter metric.Meter) (*CallMetrics, error) {
	callCount, err := meter.Int64Counter(
		"call.total",
		metric.WithDescription("Total number of guarded outbound calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"call.errors",
		metric.WithDescription("Total number of failed outbound calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"call.retries",
		metric.WithDescription("Total number of retried attempts"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	breakerCount, err := meter.Int64Counter(
		"breaker.transitions",
		metric.WithDescription("Total number of circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"call.duration_ms",
		metric.WithDescription("Guarded call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &CallMetrics{
		callCount:    callCount,
		errorCount:   errorCount,
		retryCount:   retryCount,
		breakerCount: breakerCount,
		durationHist: durationHist,
	}, nil
}

// RecordCall records one completed Execute call.
func (m *CallMetrics) RecordCall(ctx context.Context, op string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{attribute.String("call.op", op)}
	opt := metric.WithAttributes(attrs...)

	m.callCount.Add(ctx, 1, opt)
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)

	if err != nil {
		m.errorCount.Add(ctx, 1, metric.WithAttributes(append(attrs,
			attribute.String("error.category", ErrorCategory(err)))...))
	}
}

// RecordRetry records a failed attempt that will be retried.
func (m *CallMetrics) RecordRetry(ctx context.Context, op string, attempt int, err error, delay time.Duration) {
	m.retryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("call.op", op),
		attribute.Int("call.attempt", attempt),
		attribute.String("error.category", ErrorCategory(err)),
	))
}

// RecordStateChange records a circuit breaker transition.
func (m *CallMetrics) RecordStateChange(ctx context.Context, key string, from, to resilience.State) {
	m.breakerCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("breaker.key", key),
		attribute.String("breaker.from", from.String()),
		attribute.String("breaker.to", to.String()),
	))
}

var _ resilience.Monitor = (*CallMetrics)(nil)

// ErrorCategory maps an executor failure onto the error taxonomy used
// in metric attributes and log fields.
func ErrorCategory(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, resilience.ErrAborted):
		return "aborted"
	case errors.Is(err, resilience.ErrTimeout):
		return "timeout"
	case errors.Is(err, resilience.ErrRateLimitExceeded):
		return "rate_limited"
	case errors.Is(err, resilience.ErrBulkheadFull):
		return "bulkhead_full"
	default:
		return "upstream"
	}
}

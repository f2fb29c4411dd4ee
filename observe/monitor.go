package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/lumenhq/callguard/resilience"
)

// Monitor combines metrics and logging into a single resilience.Monitor
// for wiring into an executor:
//
//	monitor, _ := observe.NewMonitor(obs.Meter(), obs.Logger())
//	executor := resilience.NewExecutor(resilience.WithMonitor(monitor))
type Monitor struct {
	metrics *CallMetrics
	logger  Logger
}

// NewMonitor creates a monitor recording to the given meter and logger.
func NewMonitor(meter metric.Meter, logger Logger) (*Monitor, error) {
	metrics, err := NewCallMetrics(meter)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Monitor{metrics: metrics, logger: logger}, nil
}

// RecordCall implements resilience.Monitor.
func (m *Monitor) RecordCall(ctx context.Context, op string, duration time.Duration, err error) {
	m.metrics.RecordCall(ctx, op, duration, err)

	if err == nil {
		m.logger.Debug(ctx, "call completed",
			Field{Key: "op", Value: op},
			Field{Key: "duration_ms", Value: duration.Milliseconds()},
		)
		return
	}
	m.logger.Error(ctx, "call failed",
		Field{Key: "op", Value: op},
		Field{Key: "duration_ms", Value: duration.Milliseconds()},
		Field{Key: "error", Value: err.Error()},
		Field{Key: "category", Value: ErrorCategory(err)},
	)
}

// RecordRetry implements resilience.Monitor.
func (m *Monitor) RecordRetry(ctx context.Context, op string, attempt int, err error, delay time.Duration) {
	m.metrics.RecordRetry(ctx, op, attempt, err, delay)
	m.logger.Warn(ctx, "attempt failed, retrying",
		Field{Key: "op", Value: op},
		Field{Key: "attempt", Value: attempt},
		Field{Key: "error", Value: err.Error()},
		Field{Key: "delay_ms", Value: delay.Milliseconds()},
	)
}

// RecordStateChange implements resilience.Monitor.
func (m *Monitor) RecordStateChange(ctx context.Context, key string, from, to resilience.State) {
	m.metrics.RecordStateChange(ctx, key, from, to)

	msg := "circuit breaker closed"
	log := m.logger.Info
	if to == resilience.StateOpen {
		msg = "circuit breaker opened"
		log = m.logger.Error
	}
	log(ctx, msg,
		Field{Key: "breaker_key", Value: key},
		Field{Key: "from", Value: from.String()},
		Field{Key: "to", Value: to.String()},
	)
}

var _ resilience.Monitor = (*Monitor)(nil)

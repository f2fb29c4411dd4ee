// Package health exposes the state of guarded upstream dependencies
// as liveness and readiness probes.
//
// The central piece is BreakerChecker, which maps a circuit breaker
// registry snapshot onto a health status without touching the breakers
// themselves. Checkers are combined by an Aggregator and served over
// HTTP:
//
//	agg := health.NewAggregator()
//	agg.Register("upstreams", health.NewBreakerChecker("upstreams", executor.Registry()))
//	health.RegisterHandlers(mux, agg)
package health

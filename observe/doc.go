// Package observe provides telemetry for guarded outbound calls:
// OpenTelemetry tracing and metrics, and a structured JSON logger.
//
// An Observer bundles the three primitives behind one configuration:
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "companion-host",
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//
// NewMonitor adapts an Observer's meter and logger into a
// resilience.Monitor, so executor activity (calls, retries, breaker
// transitions) lands in metrics and logs without call-site plumbing.
//
// Log fields carrying prompts or credentials are redacted before
// serialization.
package observe

package observe

import (
	"context"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid minimal",
			cfg:     Config{ServiceName: "companion-host"},
			wantErr: false,
		},
		{
			name:    "missing service name",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "valid full",
			cfg: Config{
				ServiceName: "companion-host",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 0.5},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
				Logging:     LoggingConfig{Enabled: true, Level: "debug"},
			},
			wantErr: false,
		},
		{
			name: "unknown tracing exporter",
			cfg: Config{
				ServiceName: "companion-host",
				Tracing:     TracingConfig{Enabled: true, Exporter: "jaeger"},
			},
			wantErr: true,
		},
		{
			name: "sample percentage out of range",
			cfg: Config{
				ServiceName: "companion-host",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5},
			},
			wantErr: true,
		},
		{
			name: "unknown metrics exporter",
			cfg: Config{
				ServiceName: "companion-host",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "statsd"},
			},
			wantErr: true,
		},
		{
			name: "unknown log level",
			cfg: Config{
				ServiceName: "companion-host",
				Logging:     LoggingConfig{Enabled: true, Level: "verbose"},
			},
			wantErr: true,
		},
		{
			name: "disabled subsystems skip exporter validation",
			cfg: Config{
				ServiceName: "companion-host",
				Tracing:     TracingConfig{Enabled: false, Exporter: "jaeger"},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_Disabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "companion-host"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer obs.Shutdown(context.Background())

	if obs.Tracer() == nil {
		t.Error("Tracer() returned nil for disabled tracing")
	}
	if obs.Meter() == nil {
		t.Error("Meter() returned nil for disabled metrics")
	}
	if obs.Logger() == nil {
		t.Error("Logger() returned nil for disabled logging")
	}

	// Noop primitives must be usable without panics.
	_, span := obs.Tracer().Start(context.Background(), "test")
	span.End()
	obs.Logger().Info(context.Background(), "dropped")
}

func TestNewObserver_NoneExporters(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "companion-host",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	_, span := obs.Tracer().Start(context.Background(), "guarded call")
	span.End()

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_InvalidConfig(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if err == nil {
		t.Error("NewObserver() with empty config should fail validation")
	}
}

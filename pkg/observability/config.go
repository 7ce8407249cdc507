// Package observability wires Prometheus metrics and OpenTelemetry spans
// around a deliberation run's phases, instrumenting the "<phase>_start" /
// "<phase>_complete" events the mode runners emit rather than threading a
// metrics collaborator through each of the fifteen packages individually.
// Phases for which a runner emits no "_start" event are not recorded (see
// StageSink).
package observability

import "fmt"

// Config configures the observability system.
type Config struct {
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Tracing TracingConfig `yaml:"tracing,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns on metrics collection.
	Enabled bool `yaml:"enabled,omitempty"`

	// Namespace prefixes every metric name.
	// Default: "deliberate"
	Namespace string `yaml:"namespace,omitempty"`

	// Endpoint names the metrics path. It is only defaulted and validated:
	// Handler does not read it and serves whatever path it is mounted on.
	// Default: "/metrics"
	Endpoint string `yaml:"endpoint,omitempty"`
}

// TracingConfig configures OpenTelemetry tracing. Only a stdout exporter is
// wired: this module has no collector to export OTLP/Jaeger/Zipkin spans to,
// so a stdout trace of phase spans is what "enabled" means here.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled,omitempty"`
	ServiceName  string  `yaml:"service_name,omitempty"`
	SamplingRate float64 `yaml:"sampling_rate,omitempty"`
}

func (c *Config) SetDefaults() {
	c.Metrics.SetDefaults()
	c.Tracing.SetDefaults()
}

func (c *Config) Validate() error {
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.Tracing.Validate(); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

func (c *MetricsConfig) SetDefaults() {
	if c.Namespace == "" {
		c.Namespace = "deliberate"
	}
	if c.Endpoint == "" {
		c.Endpoint = "/metrics"
	}
}

func (c *MetricsConfig) Validate() error {
	if c.Enabled && c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when metrics are enabled")
	}
	return nil
}

func (c *TracingConfig) SetDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "deliberate"
	}
	if c.SamplingRate == 0 {
		c.SamplingRate = 1.0
	}
}

func (c *TracingConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return fmt.Errorf("sampling_rate must be between 0 and 1, got %f", c.SamplingRate)
	}
	return nil
}

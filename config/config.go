// Package config provides configuration types and utilities for the deliberation engine.
// This file contains the main unified configuration entry point.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// MAIN UNIFIED CONFIGURATION
// ============================================================================

// Config represents the complete process configuration for the deliberation
// engine: the ambient concerns (logging, observability, transport) plus the
// defaults every mode falls back to when a request's mode_config is silent
// on a key.
type Config struct {
	Global  GlobalSettings  `yaml:"global,omitempty"`
	Gateway GatewaySettings `yaml:"gateway,omitempty"`
	Modes   ModeDefaults    `yaml:"modes,omitempty"`
	Server  ServerSettings  `yaml:"server,omitempty"`
}

// GlobalSettings controls logging and observability.
type GlobalSettings struct {
	LogLevel  string `yaml:"log_level,omitempty"`  // debug|info|warn|error
	LogFormat string `yaml:"log_format,omitempty"` // simple|verbose
	Tracing   bool   `yaml:"tracing,omitempty"`
}

// GatewaySettings names the credential the model gateway collaborator reads
// and the default per-call timeout used when a mode doesn't override it.
type GatewaySettings struct {
	CredentialEnvVar string        `yaml:"credential_env_var,omitempty"`
	DefaultTimeout   time.Duration `yaml:"default_timeout,omitempty"`
	TitleModel       string        `yaml:"title_model,omitempty"`
}

// ModeDefaults are process-wide fallbacks consulted when a request's
// mode_config bag omits a recognized key.
type ModeDefaults struct {
	MaxDelphiRounds      int     `yaml:"max_delphi_rounds,omitempty"`
	MaxRedTeamCycles     int     `yaml:"max_red_team_cycles,omitempty"`
	NumericConvergenceCV float64 `yaml:"numeric_convergence_cv,omitempty"`
	QualitativeAgreement float64 `yaml:"qualitative_agreement_pct,omitempty"`
	SoftmaxTemperature   float64 `yaml:"softmax_temperature,omitempty"`
}

// ServerSettings binds the thin HTTP transport and metrics endpoints.
type ServerSettings struct {
	Addr        string `yaml:"addr,omitempty"`
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// Default returns the built-in defaults used when no config file is supplied.
func Default() *Config {
	return &Config{
		Global: GlobalSettings{
			LogLevel:  "info",
			LogFormat: "simple",
		},
		Gateway: GatewaySettings{
			CredentialEnvVar: "MODEL_GATEWAY_API_KEY",
			DefaultTimeout:   90 * time.Second,
			TitleModel:       "titler-small",
		},
		Modes: ModeDefaults{
			MaxDelphiRounds:      4,
			MaxRedTeamCycles:     2,
			NumericConvergenceCV: 0.15,
			QualitativeAgreement: 75,
			SoftmaxTemperature:   1.0,
		},
		Server: ServerSettings{
			Addr:        ":8088",
			MetricsAddr: ":9090",
		},
	}
}

// Load reads a YAML config file, expands environment variables in its raw
// scalars, and overlays it on top of Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	var generic map[string]interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	expanded := ExpandEnvVarsInData(generic)

	reencoded, err := yaml.Marshal(expanded)
	if err != nil {
		return nil, fmt.Errorf("re-encode config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(reencoded, cfg); err != nil {
		return nil, fmt.Errorf("decode config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q validation failed: %w", path, err)
	}
	return cfg, nil
}

// Validate checks internal consistency of the loaded configuration.
func (c *Config) Validate() error {
	if c.Gateway.CredentialEnvVar == "" {
		return fmt.Errorf("gateway.credential_env_var must not be empty")
	}
	if c.Gateway.DefaultTimeout <= 0 {
		return fmt.Errorf("gateway.default_timeout must be positive")
	}
	if c.Modes.MaxDelphiRounds < 1 {
		return fmt.Errorf("modes.max_delphi_rounds must be >= 1")
	}
	if c.Modes.QualitativeAgreement <= 0 || c.Modes.QualitativeAgreement > 100 {
		return fmt.Errorf("modes.qualitative_agreement_pct must be in (0, 100]")
	}
	return nil
}

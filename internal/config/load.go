package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"go.yaml.in/yaml/v4"
)

// Load reads a YAML configuration file, applies defaults and environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Origin == "" {
		cfg.Origin = DefaultOrigin
	}

	if cfg.App.Port == 0 {
		cfg.App.Port = DefaultAppPort
	}

	if prom := cfg.Export.Prometheus; prom != nil {
		if prom.Port == 0 {
			prom.Port = DefaultPrometheusPort
		}
		if prom.Path == "" {
			prom.Path = DefaultPrometheusPath
		}
		if prom.Handler == "" {
			prom.Handler = HandlerNative
		}
	}

	if otel := cfg.Export.OTEL; otel != nil {
		if otel.Protocol == "" {
			otel.Protocol = DefaultOTELProtocol
		}
		if otel.Interval == 0 {
			otel.Interval = DefaultOTELPushInterval
		}
	}

	if cfg.Monitor.Interval == 0 {
		cfg.Monitor.Interval = DefaultMonitorInterval
	}
}

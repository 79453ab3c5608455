package config

import "fmt"

// Validate checks a resolved configuration for consistency.
func Validate(cfg *Config) error {
	if cfg.Origin == "" {
		return fmt.Errorf("origin cannot be empty")
	}

	prom := cfg.Export.Prometheus
	otel := cfg.Export.OTEL

	promEnabled := prom != nil && prom.Enabled
	otelEnabled := otel != nil && otel.Enabled

	if !promEnabled && !otelEnabled {
		return fmt.Errorf("at least one exporter must be enabled")
	}

	if promEnabled {
		if prom.Port <= 0 || prom.Port > 65535 {
			return fmt.Errorf("prometheus port %d out of range", prom.Port)
		}
		if prom.Path == "" || prom.Path[0] != '/' {
			return fmt.Errorf("prometheus path %q must start with /", prom.Path)
		}
		switch prom.Handler {
		case HandlerNative, HandlerPromHTTP:
		default:
			return fmt.Errorf("unknown prometheus handler %q", prom.Handler)
		}
	}

	if otelEnabled {
		if otel.Endpoint == "" {
			return fmt.Errorf("otel endpoint cannot be empty")
		}
		switch otel.Protocol {
		case ProtocolGRPC, ProtocolHTTP:
		default:
			return fmt.Errorf("unknown otel protocol %q", otel.Protocol)
		}
		if otel.Interval <= 0 {
			return fmt.Errorf("otel interval must be positive")
		}
	}

	if cfg.App.Enabled {
		if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
			return fmt.Errorf("app port %d out of range", cfg.App.Port)
		}
		if promEnabled && cfg.App.Port == prom.Port {
			return fmt.Errorf("app and prometheus exporter cannot share port %d", cfg.App.Port)
		}
	}

	if cfg.Monitor.Enabled && cfg.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor interval must be positive")
	}

	return nil
}

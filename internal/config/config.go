package config

import "time"

const (
	DefaultOrigin = "dev"

	DefaultAppPort = 8080

	// Prometheus defaults
	DefaultPrometheusPort = 9090
	DefaultPrometheusPath = "/metrics"

	// OTEL defaults
	DefaultOTELPushInterval = 10 * time.Second
	DefaultOTELProtocol     = ProtocolGRPC

	DefaultMonitorInterval = 5 * time.Second
)

// HandlerKind selects how the Prometheus endpoint renders metrics.
type HandlerKind string

const (
	// HandlerNative serves the registry's own text rendering.
	HandlerNative HandlerKind = "native"
	// HandlerPromHTTP serves via the prometheus client handler.
	HandlerPromHTTP HandlerKind = "promhttp"
)

// Protocol selects the OTLP transport.
type Protocol string

const (
	ProtocolGRPC Protocol = "grpc"
	ProtocolHTTP Protocol = "http"
)

// Config holds the complete application configuration.
type Config struct {
	// Origin is the label value stamped on every recorded series,
	// identifying the environment this process runs in.
	Origin string `yaml:"origin" env:"SIGNALBOX_ORIGIN"`

	App     AppConfig     `yaml:"app"`
	Export  ExportConfig  `yaml:"export"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// AppConfig defines the demo application server.
type AppConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// ExportConfig defines how metrics leave the process.
type ExportConfig struct {
	Prometheus *PrometheusExportConfig `yaml:"prometheus,omitempty"`
	OTEL       *OTELExportConfig       `yaml:"otel,omitempty"`
}

// PrometheusExportConfig defines the pull endpoint settings.
type PrometheusExportConfig struct {
	Enabled         bool        `yaml:"enabled"`
	Port            int         `yaml:"port"`
	Path            string      `yaml:"path"`
	Handler         HandlerKind `yaml:"handler"`
	InternalMetrics bool        `yaml:"internal_metrics"`
}

// OTELExportConfig defines OTLP push settings.
type OTELExportConfig struct {
	Enabled  bool              `yaml:"enabled"`
	Endpoint string            `yaml:"endpoint"`
	Protocol Protocol          `yaml:"protocol"`
	Interval time.Duration     `yaml:"interval"`
	Resource map[string]string `yaml:"resource,omitempty"`
	Headers  map[string]string `yaml:"headers,omitempty"`
}

// MonitorConfig defines process resource monitoring.
type MonitorConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

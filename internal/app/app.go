package app

import (
	"fmt"
	"log/slog"

	"github.com/neox5/signalbox/internal/config"
	"github.com/neox5/signalbox/internal/exporter"
	"github.com/neox5/signalbox/internal/golden"
	"github.com/neox5/signalbox/internal/metric"
	"github.com/neox5/signalbox/internal/monitor"
	"github.com/neox5/signalbox/internal/server"
)

// App holds initialized application components.
type App struct {
	Config             *config.Config
	Metrics            *metric.Registry
	Signals            *golden.Signals
	AppServer          *server.Server
	Monitor            *monitor.Monitor
	PrometheusExporter *exporter.PrometheusExporter
	OTELExporter       *exporter.OTELExporter
}

// New initializes the application from a loaded configuration. The metric
// registry is created here and handed by reference to every component that
// records or exposes metrics.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	metrics := metric.NewRegistry()

	signals, err := golden.New(metrics, cfg.Origin)
	if err != nil {
		return nil, fmt.Errorf("failed to define golden signals: %w", err)
	}

	var appServer *server.Server
	if cfg.App.Enabled {
		appServer = server.New(cfg.App.Port, signals)
	}

	var mon *monitor.Monitor
	if cfg.Monitor.Enabled {
		mon, err = monitor.New(cfg.Monitor.Interval, logger, metrics, cfg.Origin)
		if err != nil {
			return nil, fmt.Errorf("failed to create monitor: %w", err)
		}
	}

	// Exporters are created last so every metric family, including the
	// exporter's own scrape metrics and the monitor gauges, exists before
	// the OTEL exporter registers its instruments.
	var promExporter *exporter.PrometheusExporter
	if cfg.Export.Prometheus != nil && cfg.Export.Prometheus.Enabled {
		promExporter, err = exporter.NewPrometheusExporter(cfg.Export.Prometheus, metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
	}

	var otelExporter *exporter.OTELExporter
	if cfg.Export.OTEL != nil && cfg.Export.OTEL.Enabled {
		otelExporter, err = exporter.NewOTELExporter(cfg.Export.OTEL, metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTEL exporter: %w", err)
		}
	}

	return &App{
		Config:             cfg,
		Metrics:            metrics,
		Signals:            signals,
		AppServer:          appServer,
		Monitor:            mon,
		PrometheusExporter: promExporter,
		OTELExporter:       otelExporter,
	}, nil
}

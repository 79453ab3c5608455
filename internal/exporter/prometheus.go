package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neox5/signalbox/internal/config"
	"github.com/neox5/signalbox/internal/metric"
)

// Internal metric name definitions
const (
	scrapeCountName     = "scrape_count"
	scrapeDurationName  = "scrape_duration_ms"
	textContentType     = "text/plain; version=0.0.4; charset=utf-8"
	shutdownGracePeriod = 5 * time.Second
)

// PrometheusExporter provides the HTTP pull endpoint for metrics. Depending
// on configuration it serves either the registry's own text rendering or the
// prometheus client handler backed by a bridge collector.
type PrometheusExporter struct {
	addr         string
	path         string
	server       *http.Server
	promRegistry *prometheus.Registry

	// Internal metrics, recorded into the application registry so they
	// appear in scrapes regardless of handler kind.
	scrapeCount    *metric.Counter
	scrapeDuration *metric.Gauge
}

// NewPrometheusExporter creates the pull endpoint from configuration.
func NewPrometheusExporter(cfg *config.PrometheusExportConfig, metrics *metric.Registry) (*PrometheusExporter, error) {
	mux := http.NewServeMux()
	addr := fmt.Sprintf(":%d", cfg.Port)

	e := &PrometheusExporter{
		addr: addr,
		path: cfg.Path,
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}

	var handler http.Handler
	switch cfg.Handler {
	case config.HandlerPromHTTP:
		promRegistry := prometheus.NewRegistry()
		promRegistry.MustRegister(newCollector(metrics))
		e.promRegistry = promRegistry

		handler = promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		})
	default:
		handler = renderHandler(metrics)
	}

	if cfg.InternalMetrics {
		scrapeCount, err := metrics.DefineCounter(scrapeCountName,
			"Total number of scrape requests", nil)
		if err != nil {
			return nil, fmt.Errorf("failed to define %s: %w", scrapeCountName, err)
		}

		scrapeDuration, err := metrics.DefineGauge(scrapeDurationName,
			"Duration of the last scrape request in milliseconds", nil)
		if err != nil {
			return nil, fmt.Errorf("failed to define %s: %w", scrapeDurationName, err)
		}

		e.scrapeCount = scrapeCount
		e.scrapeDuration = scrapeDuration
		handler = e.instrumentedHandler(handler)

		slog.Info("registered prometheus internal metrics",
			"scrape_count", scrapeCountName,
			"scrape_duration", scrapeDurationName)
	}

	mux.Handle(cfg.Path, handler)

	slog.Info("created prometheus exporter",
		"addr", addr, "path", cfg.Path, "handler", cfg.Handler)

	return e, nil
}

// renderHandler serves the registry's native text rendering.
func renderHandler(metrics *metric.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("prometheus scrape")
		w.Header().Set("Content-Type", textContentType)
		io.WriteString(w, metrics.Render())
	})
}

// instrumentedHandler counts scrapes and records the duration of the last
// one. Recording happens after the response completes so the scrape that is
// being served does not observe its own duration.
func (e *PrometheusExporter) instrumentedHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		if err := e.scrapeCount.Add(metric.LabelSet{}, 1); err != nil {
			slog.Warn("failed to record scrape count", "error", err)
		}
		elapsed := float64(time.Since(start)) / float64(time.Millisecond)
		if err := e.scrapeDuration.Set(metric.LabelSet{}, elapsed); err != nil {
			slog.Warn("failed to record scrape duration", "error", err)
		}
	})
}

// Start begins serving HTTP requests. Blocks until the context is cancelled
// or the server fails.
func (e *PrometheusExporter) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		slog.Info("starting prometheus exporter", "addr", e.addr, "path", e.path)
		if err := e.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return e.Stop()
	}
}

// Stop gracefully stops the exporter.
func (e *PrometheusExporter) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	slog.Info("shutting down prometheus exporter")
	return e.server.Shutdown(ctx)
}

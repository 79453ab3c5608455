package app

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neox5/signalbox/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Origin: "prod",
		App:    config.AppConfig{Enabled: true, Port: 8080},
		Export: config.ExportConfig{
			Prometheus: &config.PrometheusExportConfig{
				Enabled: true,
				Port:    9090,
				Path:    "/metrics",
				Handler: config.HandlerNative,
			},
		},
		Monitor: config.MonitorConfig{Enabled: true, Interval: config.DefaultMonitorInterval},
	}
}

func TestNew_WiresComponents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	application, err := New(testConfig(), logger)
	require.NoError(t, err)

	assert.NotNil(t, application.Metrics)
	assert.NotNil(t, application.Signals)
	assert.NotNil(t, application.AppServer)
	assert.NotNil(t, application.Monitor)
	assert.NotNil(t, application.PrometheusExporter)
	assert.Nil(t, application.OTELExporter)

	// All golden-signal families exist up front, along with the monitor
	// gauges; series appear lazily on first record.
	out := application.Metrics.Render()
	assert.Contains(t, out, "# TYPE request_count counter")
	assert.Contains(t, out, "# TYPE error_count counter")
	assert.Contains(t, out, "# TYPE response_latency gauge")
	assert.Contains(t, out, "# TYPE process_goroutines gauge")
}

func TestNew_DisabledComponents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig()
	cfg.App.Enabled = false
	cfg.Monitor.Enabled = false

	application, err := New(cfg, logger)
	require.NoError(t, err)

	assert.Nil(t, application.AppServer)
	assert.Nil(t, application.Monitor)
	assert.NotNil(t, application.PrometheusExporter)
}

package exporter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neox5/signalbox/internal/config"
	"github.com/neox5/signalbox/internal/metric"
)

func testRegistry(t *testing.T) *metric.Registry {
	t.Helper()
	reg := metric.NewRegistry()

	c, err := reg.DefineCounter("request_count", "Total number of requests", []string{"origin"})
	require.NoError(t, err)
	g, err := reg.DefineGauge("response_latency", "Request latency in ms", []string{"origin"})
	require.NoError(t, err)

	require.NoError(t, c.Add(metric.LabelSet{"origin": "prod"}, 3))
	require.NoError(t, g.Set(metric.LabelSet{"origin": "prod"}, 45))

	return reg
}

func scrape(t *testing.T, e *PrometheusExporter, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPrometheusExporter_NativeHandler(t *testing.T) {
	reg := testRegistry(t)
	e, err := NewPrometheusExporter(&config.PrometheusExportConfig{
		Enabled: true,
		Port:    9090,
		Path:    "/metrics",
		Handler: config.HandlerNative,
	}, reg)
	require.NoError(t, err)

	rec := scrape(t, e, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, textContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, reg.Render(), rec.Body.String())
	assert.Contains(t, rec.Body.String(), `request_count{origin="prod"} 3`)
	assert.Contains(t, rec.Body.String(), `response_latency{origin="prod"} 45`)
}

func TestPrometheusExporter_PromHTTPHandler(t *testing.T) {
	reg := testRegistry(t)
	e, err := NewPrometheusExporter(&config.PrometheusExportConfig{
		Enabled: true,
		Port:    9090,
		Path:    "/metrics",
		Handler: config.HandlerPromHTTP,
	}, reg)
	require.NoError(t, err)

	rec := scrape(t, e, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "# TYPE request_count counter")
	assert.Contains(t, body, `request_count{origin="prod"} 3`)
	assert.Contains(t, body, `response_latency{origin="prod"} 45`)
}

func TestPrometheusExporter_InternalMetrics(t *testing.T) {
	reg := testRegistry(t)
	e, err := NewPrometheusExporter(&config.PrometheusExportConfig{
		Enabled:         true,
		Port:            9090,
		Path:            "/metrics",
		Handler:         config.HandlerNative,
		InternalMetrics: true,
	}, reg)
	require.NoError(t, err)

	// First scrape happens before its own count is recorded.
	rec := scrape(t, e, "/metrics")
	assert.NotContains(t, rec.Body.String(), "scrape_count 1")

	rec = scrape(t, e, "/metrics")
	assert.Contains(t, rec.Body.String(), "scrape_count 1")
	assert.Contains(t, rec.Body.String(), "scrape_duration_ms ")
}

func TestCollector_SkipsEmptyFamilies(t *testing.T) {
	reg := metric.NewRegistry()
	_, err := reg.DefineCounter("request_count", "Total number of requests", []string{"origin"})
	require.NoError(t, err)

	e, err := NewPrometheusExporter(&config.PrometheusExportConfig{
		Enabled: true,
		Port:    9090,
		Path:    "/metrics",
		Handler: config.HandlerPromHTTP,
	}, reg)
	require.NoError(t, err)

	rec := scrape(t, e, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "request_count{")
}

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neox5/signalbox/internal/golden"
	"github.com/neox5/signalbox/internal/metric"
)

func TestServer_InstrumentedRoot(t *testing.T) {
	reg := metric.NewRegistry()
	signals, err := golden.New(reg, "prod")
	require.NoError(t, err)

	s := New(8080, signals)

	for range 3 {
		rec := httptest.NewRecorder()
		s.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "hello from signalbox")
	}

	out := reg.Render()
	assert.Contains(t, out, `request_count{origin="prod"} 3`)
	assert.Contains(t, out, `response_latency{origin="prod"} `)
	assert.NotContains(t, out, `error_count{origin="prod"}`)
}

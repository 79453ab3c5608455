package metric

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Empty(t *testing.T) {
	reg := NewRegistry()
	assert.Empty(t, reg.Render())
}

func TestRender_ConcurrentCounterAdds(t *testing.T) {
	reg := NewRegistry()
	c, err := reg.DefineCounter("request_count", "Total number of requests", []string{"origin"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 3 {
		wg.Go(func() {
			assert.NoError(t, c.Add(LabelSet{"origin": "prod"}, 1))
		})
	}
	wg.Wait()

	assert.Contains(t, reg.Render(), `request_count{origin="prod"} 3`)
}

func TestRender_GaugeLastValue(t *testing.T) {
	reg := NewRegistry()
	g, err := reg.DefineGauge("response_latency", "Request latency in ms", []string{"origin"})
	require.NoError(t, err)

	require.NoError(t, g.Set(LabelSet{"origin": "prod"}, 120))
	require.NoError(t, g.Set(LabelSet{"origin": "prod"}, 45))

	assert.Contains(t, reg.Render(), `response_latency{origin="prod"} 45`)
}

func TestRender_Format(t *testing.T) {
	reg := NewRegistry()

	c, err := reg.DefineCounter("request_count", "Total number of requests", []string{"origin"})
	require.NoError(t, err)
	g, err := reg.DefineGauge("response_latency", "Request latency in ms", []string{"origin"})
	require.NoError(t, err)

	require.NoError(t, c.Add(LabelSet{"origin": "staging"}, 2))
	require.NoError(t, c.Add(LabelSet{"origin": "prod"}, 1))
	require.NoError(t, g.Set(LabelSet{"origin": "prod"}, 12.5))

	want := strings.Join([]string{
		"# HELP request_count Total number of requests",
		"# TYPE request_count counter",
		`request_count{origin="prod"} 1`,
		`request_count{origin="staging"} 2`,
		"# HELP response_latency Request latency in ms",
		"# TYPE response_latency gauge",
		`response_latency{origin="prod"} 12.5`,
		"",
	}, "\n")

	assert.Equal(t, want, reg.Render())
}

func TestRender_DeclaredLabelKeyOrder(t *testing.T) {
	reg := NewRegistry()

	// Declared order is not alphabetical; rendered pairs must follow it.
	c, err := reg.DefineCounter("request_count", "Total number of requests", []string{"origin", "method"})
	require.NoError(t, err)

	require.NoError(t, c.Add(LabelSet{"method": "GET", "origin": "prod"}, 1))

	assert.Contains(t, reg.Render(), `request_count{origin="prod",method="GET"} 1`)
}

func TestRender_NoLabels(t *testing.T) {
	reg := NewRegistry()
	g, err := reg.DefineGauge("up", "Process liveness", nil)
	require.NoError(t, err)

	require.NoError(t, g.Set(LabelSet{}, 1))

	assert.Contains(t, reg.Render(), "up 1\n")
}

func TestRender_Escaping(t *testing.T) {
	reg := NewRegistry()
	c, err := reg.DefineCounter("request_count", `Requests with "quotes" and \slashes`, []string{"origin"})
	require.NoError(t, err)

	require.NoError(t, c.Add(LabelSet{"origin": `pr"od\1`}, 1))

	out := reg.Render()
	assert.Contains(t, out, `# HELP request_count Requests with "quotes" and \\slashes`)
	assert.Contains(t, out, `request_count{origin="pr\"od\\1"} 1`)
}

func TestRender_RejectedCallCreatesNoSeries(t *testing.T) {
	reg := NewRegistry()
	c, err := reg.DefineCounter("request_count", "Total number of requests", []string{"origin"})
	require.NoError(t, err)

	require.ErrorIs(t, c.Add(LabelSet{"region": "us"}, 1), ErrInvalidLabels)

	want := strings.Join([]string{
		"# HELP request_count Total number of requests",
		"# TYPE request_count counter",
		"",
	}, "\n")
	assert.Equal(t, want, reg.Render())
}

package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/neox5/signalbox/internal/metric"
)

// Monitor tracks process resource usage, records it as gauges, and logs
// saturation indicators.
type Monitor struct {
	interval time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
	proc     *process.Process

	labels     metric.LabelSet
	cpuPercent *metric.Gauge
	goroutines *metric.Gauge
	heapAlloc  *metric.Gauge
}

// New creates a monitor that records process gauges into reg with the given
// origin label.
func New(interval time.Duration, logger *slog.Logger, reg *metric.Registry, origin string) (*Monitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process handle: %w", err)
	}

	cpuPercent, err := reg.DefineGauge("process_cpu_percent",
		"Process CPU usage in percent", []string{"origin"})
	if err != nil {
		return nil, err
	}

	goroutines, err := reg.DefineGauge("process_goroutines",
		"Number of live goroutines", []string{"origin"})
	if err != nil {
		return nil, err
	}

	heapAlloc, err := reg.DefineGauge("process_heap_alloc_bytes",
		"Heap bytes allocated and in use", []string{"origin"})
	if err != nil {
		return nil, err
	}

	return &Monitor{
		interval:   interval,
		logger:     logger,
		proc:       proc,
		labels:     metric.LabelSet{"origin": origin},
		cpuPercent: cpuPercent,
		goroutines: goroutines,
		heapAlloc:  heapAlloc,
	}, nil
}

// Run starts the monitoring loop in a background goroutine.
func (m *Monitor) Run(ctx context.Context) {
	m.wg.Go(func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		// Immediate first collection
		m.collect()

		for {
			select {
			case <-ctx.Done():
				m.logger.Info("monitor shutdown complete")
				return
			case <-ticker.C:
				m.collect()
			}
		}
	})
}

// Wait blocks until the monitor goroutine exits.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// collect samples resource usage, updates the gauges, and logs a compact
// resource line.
func (m *Monitor) collect() {
	// ---- CPU ----
	processCPU, err := m.proc.CPUPercent()
	if err != nil {
		m.logger.Warn("failed to get CPU percent", "error", err)
		processCPU = 0
	}

	cores := runtime.GOMAXPROCS(-1)
	maxCPU := float64(cores * 100)

	utilization := 0.0
	if maxCPU > 0 {
		utilization = processCPU / maxCPU
	}

	// ---- Runtime / Memory ----
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	goroutines := runtime.NumGoroutine()

	// ---- Gauges ----
	if err := m.cpuPercent.Set(m.labels, processCPU); err != nil {
		m.logger.Warn("failed to record cpu gauge", "error", err)
	}
	if err := m.goroutines.Set(m.labels, float64(goroutines)); err != nil {
		m.logger.Warn("failed to record goroutine gauge", "error", err)
	}
	if err := m.heapAlloc.Set(m.labels, float64(ms.HeapAlloc)); err != nil {
		m.logger.Warn("failed to record heap gauge", "error", err)
	}

	// ---- Saturation ----
	saturation := "normal"
	if utilization > 0.95 {
		saturation = "saturated"
	} else if utilization > 0.80 {
		saturation = "high"
	}

	mb := func(b uint64) float64 {
		return float64(b) / (1024 * 1024)
	}

	m.logger.LogAttrs(
		context.Background(),
		slog.LevelInfo,
		"resource",
		slog.String("cpu", fmt.Sprintf("%.4f%%", processCPU)),
		slog.String("util", fmt.Sprintf("%.4f%%", utilization*100)),
		slog.Int("cores", cores),
		slog.Int("gor", goroutines),
		slog.String("mem", fmt.Sprintf("alloc:%.2fMB sys:%.2fMB", mb(ms.HeapAlloc), mb(ms.HeapSys))),
		slog.Uint64("gc", uint64(ms.NumGC)),
		slog.String("sat", saturation),
	)

	if saturation == "saturated" {
		m.logger.Warn(
			"cpu saturation detected",
			"cpu", processCPU,
			"util_pct", utilization*100,
			"action", "reduce load or increase GOMAXPROCS",
		)
	}
}

package exporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/neox5/signalbox/internal/metric"
)

// collector bridges the metric registry into a prometheus.Registry. Series
// appear and change between scrapes, so descriptors are built per collection
// from a registry snapshot.
type collector struct {
	metrics *metric.Registry
}

// newCollector creates a bridge collector over a metric registry.
func newCollector(metrics *metric.Registry) *collector {
	return &collector{metrics: metrics}
}

// Describe sends nothing: the metric set is dynamic, so the collector is
// registered as unchecked.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {}

// Collect reads a registry snapshot and emits one const metric per series.
// This is called on each Prometheus scrape.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	for _, fam := range c.metrics.Snapshot() {
		var valueType prometheus.ValueType
		switch fam.Kind {
		case metric.KindCounter:
			valueType = prometheus.CounterValue
		case metric.KindGauge:
			valueType = prometheus.GaugeValue
		default:
			continue
		}

		desc := prometheus.NewDesc(fam.Name, fam.Description, fam.LabelKeys, nil)

		for _, s := range fam.Series {
			m, err := prometheus.NewConstMetric(desc, valueType, s.Value, s.LabelValues...)
			if err != nil {
				continue
			}
			ch <- m
		}
	}
}

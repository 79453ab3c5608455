// Package golden defines the request-path instruments recorded by the
// application: request volume, error volume, and last observed latency, all
// labeled with the process origin.
package golden

import (
	"fmt"
	"time"

	"github.com/neox5/signalbox/internal/metric"
)

const (
	requestCountName    = "request_count"
	errorCountName      = "error_count"
	responseLatencyName = "response_latency"

	originLabel = "origin"
)

// Signals records the golden-signal metrics for one origin.
type Signals struct {
	labels   metric.LabelSet
	requests *metric.Counter
	errors   *metric.Counter
	latency  *metric.Gauge
}

// New defines the golden-signal metrics on reg. Safe to call more than once
// with the same registry; definitions are idempotent.
func New(reg *metric.Registry, origin string) (*Signals, error) {
	requests, err := reg.DefineCounter(requestCountName,
		"Total number of requests", []string{originLabel})
	if err != nil {
		return nil, fmt.Errorf("failed to define %s: %w", requestCountName, err)
	}

	errors, err := reg.DefineCounter(errorCountName,
		"Total number of failed requests", []string{originLabel})
	if err != nil {
		return nil, fmt.Errorf("failed to define %s: %w", errorCountName, err)
	}

	latency, err := reg.DefineGauge(responseLatencyName,
		"Latency of the last successful request in milliseconds", []string{originLabel})
	if err != nil {
		return nil, fmt.Errorf("failed to define %s: %w", responseLatencyName, err)
	}

	return &Signals{
		labels:   metric.LabelSet{originLabel: origin},
		requests: requests,
		errors:   errors,
		latency:  latency,
	}, nil
}

// RecordRequest counts one inbound request.
func (s *Signals) RecordRequest() error {
	return s.requests.Add(s.labels, 1)
}

// RecordError counts one failed request.
func (s *Signals) RecordError() error {
	return s.errors.Add(s.labels, 1)
}

// RecordLatency stores the elapsed time of the last successful request in
// milliseconds.
func (s *Signals) RecordLatency(elapsed time.Duration) error {
	return s.latency.Set(s.labels, float64(elapsed)/float64(time.Millisecond))
}

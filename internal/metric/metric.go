package metric

import "errors"

// Kind defines the semantic type of a metric.
type Kind string

const (
	KindCounter Kind = "counter"
	KindGauge   Kind = "gauge"
)

// LabelSet maps declared label keys to concrete values. It identifies one
// time series within a metric; two sets that agree on every declared key
// address the same series.
type LabelSet map[string]string

// Descriptor holds the metadata of one registered metric.
type Descriptor struct {
	Name        string
	Kind        Kind
	Description string
	LabelKeys   []string
}

var (
	// ErrDuplicateMetric is returned when a name is re-registered with a
	// different kind or label schema.
	ErrDuplicateMetric = errors.New("metric already registered with different schema")

	// ErrInvalidLabels is returned when a LabelSet's keys do not exactly
	// match the metric's declared label keys.
	ErrInvalidLabels = errors.New("label keys do not match declared schema")

	// ErrInvalidDelta is returned for counter increments that are negative
	// or NaN.
	ErrInvalidDelta = errors.New("counter delta must be a non-negative number")

	// ErrInvalidValue is returned for gauge values that are NaN or infinite.
	ErrInvalidValue = errors.New("gauge value must be finite")
)

package metric

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// Registry owns metric definitions and their time series. It is created once
// at process start and shared by reference between recording callers and the
// exposition endpoint; all operations are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*family
}

// family is one registered metric with its live series.
type family struct {
	desc Descriptor

	mu     sync.RWMutex
	series map[string]*series
}

// series holds one (metric, LabelSet) value. The float64 value is stored as
// its IEEE 754 bit pattern so updates and reads are single atomic operations.
type series struct {
	labelValues []string
	bits        atomic.Uint64
}

// Counter is a handle to a monotonically non-decreasing metric.
type Counter struct {
	fam *family
}

// Gauge is a handle to a last-value-wins metric.
type Gauge struct {
	fam *family
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		families: make(map[string]*family),
	}
}

// DefineCounter registers a monotonic counter. Re-registering an identical
// definition returns a handle to the existing metric; a name collision with a
// different kind or label schema fails with ErrDuplicateMetric.
func (r *Registry) DefineCounter(name, description string, labelKeys []string) (*Counter, error) {
	fam, err := r.define(name, KindCounter, description, labelKeys)
	if err != nil {
		return nil, err
	}
	return &Counter{fam: fam}, nil
}

// DefineGauge registers a gauge. Same contract as DefineCounter.
func (r *Registry) DefineGauge(name, description string, labelKeys []string) (*Gauge, error) {
	fam, err := r.define(name, KindGauge, description, labelKeys)
	if err != nil {
		return nil, err
	}
	return &Gauge{fam: fam}, nil
}

func (r *Registry) define(name string, kind Kind, description string, labelKeys []string) (*family, error) {
	if name == "" {
		return nil, fmt.Errorf("metric name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.families[name]; ok {
		if existing.desc.Kind != kind || !slices.Equal(existing.desc.LabelKeys, labelKeys) {
			return nil, fmt.Errorf("%w: %q is a %s with labels %v",
				ErrDuplicateMetric, name, existing.desc.Kind, existing.desc.LabelKeys)
		}
		return existing, nil
	}

	fam := &family{
		desc: Descriptor{
			Name:        name,
			Kind:        kind,
			Description: description,
			LabelKeys:   slices.Clone(labelKeys),
		},
		series: make(map[string]*series),
	}
	r.families[name] = fam

	return fam, nil
}

// Add increments the series identified by labels. The delta must be a
// non-negative number; the series is created at zero on first use.
func (c *Counter) Add(labels LabelSet, delta float64) error {
	if delta < 0 || math.IsNaN(delta) {
		return fmt.Errorf("%w: %q got %v", ErrInvalidDelta, c.fam.desc.Name, delta)
	}

	s, err := c.fam.lookup(labels)
	if err != nil {
		return err
	}

	for {
		old := s.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if s.bits.CompareAndSwap(old, next) {
			return nil
		}
	}
}

// Set overwrites the series identified by labels with value. The value must
// be finite; only the most recent completed Set is retained.
func (g *Gauge) Set(labels LabelSet, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %q got %v", ErrInvalidValue, g.fam.desc.Name, value)
	}

	s, err := g.fam.lookup(labels)
	if err != nil {
		return err
	}

	s.bits.Store(math.Float64bits(value))
	return nil
}

// Descriptor returns the counter's metric metadata.
func (c *Counter) Descriptor() Descriptor { return c.fam.desc }

// Descriptor returns the gauge's metric metadata.
func (g *Gauge) Descriptor() Descriptor { return g.fam.desc }

// lookup resolves labels to their series, creating it lazily. Labels are
// validated before any series state is touched so a bad call never mutates.
func (f *family) lookup(labels LabelSet) (*series, error) {
	values, err := f.labelValues(labels)
	if err != nil {
		return nil, err
	}

	// Label values joined with a separator that cannot appear in a valid
	// UTF-8 label value, so distinct value tuples never collide.
	key := strings.Join(values, "\xff")

	f.mu.RLock()
	s, ok := f.series[key]
	f.mu.RUnlock()
	if ok {
		return s, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.series[key]; ok {
		return s, nil
	}
	s = &series{labelValues: values}
	f.series[key] = s
	return s, nil
}

// labelValues orders the set's values by declared key order, rejecting any
// set whose keys do not exactly match the schema.
func (f *family) labelValues(labels LabelSet) ([]string, error) {
	if len(labels) != len(f.desc.LabelKeys) {
		return nil, fmt.Errorf("%w: %q expects %v, got %d labels",
			ErrInvalidLabels, f.desc.Name, f.desc.LabelKeys, len(labels))
	}

	values := make([]string, len(f.desc.LabelKeys))
	for i, key := range f.desc.LabelKeys {
		v, ok := labels[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q expects %v, missing %q",
				ErrInvalidLabels, f.desc.Name, f.desc.LabelKeys, key)
		}
		values[i] = v
	}
	return values, nil
}

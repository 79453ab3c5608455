package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/neox5/signalbox/internal/config"
	"github.com/neox5/signalbox/internal/metric"
)

// OTELExporter pushes registry metrics to an OTLP collector.
type OTELExporter struct {
	config        *config.OTELExportConfig
	metrics       *metric.Registry
	meterProvider *sdkmetric.MeterProvider
	meter         otelmetric.Meter
	instruments   map[string]instrument
}

// instrument holds the observable registered for one metric family.
type instrument struct {
	counter otelmetric.Float64ObservableCounter
	gauge   otelmetric.Float64ObservableGauge
}

// NewOTELExporter creates a push exporter over the metric families defined
// on the registry at construction time.
func NewOTELExporter(cfg *config.OTELExportConfig, metrics *metric.Registry) (*OTELExporter, error) {
	res, err := createOTELResource(cfg.Resource)
	if err != nil {
		return nil, err
	}

	meterProvider, err := createMeterProvider(cfg, res)
	if err != nil {
		return nil, err
	}

	e := &OTELExporter{
		config:        cfg,
		metrics:       metrics,
		meterProvider: meterProvider,
		meter:         meterProvider.Meter("signalbox"),
	}

	if err := e.registerInstruments(); err != nil {
		_ = meterProvider.Shutdown(context.Background())
		return nil, err
	}

	return e, nil
}

// registerInstruments creates one observable per family and a callback that
// observes every live series with its label attributes on each push.
func (e *OTELExporter) registerInstruments() error {
	instruments := make(map[string]instrument)
	var observables []otelmetric.Observable

	for _, fam := range e.metrics.Snapshot() {
		var inst instrument

		switch fam.Kind {
		case metric.KindCounter:
			counter, err := e.meter.Float64ObservableCounter(
				fam.Name,
				otelmetric.WithDescription(fam.Description),
			)
			if err != nil {
				return fmt.Errorf("failed to create counter %q: %w", fam.Name, err)
			}
			inst.counter = counter
			observables = append(observables, counter)

		case metric.KindGauge:
			gauge, err := e.meter.Float64ObservableGauge(
				fam.Name,
				otelmetric.WithDescription(fam.Description),
			)
			if err != nil {
				return fmt.Errorf("failed to create gauge %q: %w", fam.Name, err)
			}
			inst.gauge = gauge
			observables = append(observables, gauge)
		}

		instruments[fam.Name] = inst

		slog.Info("registered otel metric",
			"name", fam.Name,
			"type", fam.Kind,
			"labels", fam.LabelKeys)
	}

	e.instruments = instruments

	_, err := e.meter.RegisterCallback(
		func(ctx context.Context, observer otelmetric.Observer) error {
			slog.Debug("otel push", "families", len(e.instruments))

			for _, fam := range e.metrics.Snapshot() {
				inst, ok := e.instruments[fam.Name]
				if !ok {
					continue
				}

				for _, s := range fam.Series {
					attrs := make([]attribute.KeyValue, len(fam.LabelKeys))
					for i, key := range fam.LabelKeys {
						attrs[i] = attribute.String(key, s.LabelValues[i])
					}
					opt := otelmetric.WithAttributes(attrs...)

					if inst.counter != nil {
						observer.ObserveFloat64(inst.counter, s.Value, opt)
					}
					if inst.gauge != nil {
						observer.ObserveFloat64(inst.gauge, s.Value, opt)
					}
				}
			}
			return nil
		},
		observables...,
	)
	if err != nil {
		return fmt.Errorf("failed to register callback: %w", err)
	}

	return nil
}

// Start blocks until the context is cancelled; the periodic reader handles
// pushing in the background.
func (e *OTELExporter) Start(ctx context.Context) error {
	slog.Info("starting otel exporter",
		"endpoint", e.config.Endpoint,
		"protocol", e.config.Protocol,
		"push_interval", e.config.Interval,
	)

	<-ctx.Done()
	return e.Stop()
}

// Stop flushes pending metrics and shuts down the meter provider.
func (e *OTELExporter) Stop() error {
	slog.Info("shutting down otel exporter")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return e.meterProvider.Shutdown(ctx)
}

package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/neox5/tlbreport/internal/metric"
)

// registerOTELInstruments creates one observable gauge per descriptor and
// a callback that observes every point.
func registerOTELInstruments(meter otelmetric.Meter, metrics *metric.Registry) error {
	gauges := make(map[string]otelmetric.Float64ObservableGauge)
	var observables []otelmetric.Observable

	for _, d := range metric.Descriptors() {
		gauge, err := meter.Float64ObservableGauge(
			d.OTELName,
			otelmetric.WithDescription(d.Description),
		)
		if err != nil {
			return fmt.Errorf("failed to create gauge %q: %w", d.OTELName, err)
		}
		gauges[d.OTELName] = gauge
		observables = append(observables, gauge)
	}

	points := metrics.Points()

	_, err := meter.RegisterCallback(
		func(ctx context.Context, observer otelmetric.Observer) error {
			slog.Debug("otel push", "points", len(points))

			for _, p := range points {
				observer.ObserveFloat64(gauges[p.Descriptor.OTELName], p.Value,
					otelmetric.WithAttributes(attribute.String(metric.LabelCounter, p.Counter)))
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

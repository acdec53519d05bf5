package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/neox5/tlbreport/internal/config"
	"github.com/neox5/tlbreport/internal/metric"
)

const meterName = "github.com/neox5/tlbreport"

// OTELExporter pushes the report to an OTEL collector once.
type OTELExporter struct {
	config        *config.OTELExportConfig
	meterProvider *sdkmetric.MeterProvider
}

// NewOTELExporter creates a new OTEL exporter. Nothing is pushed until
// Export.
func NewOTELExporter(ctx context.Context, cfg *config.OTELExportConfig) (*OTELExporter, error) {
	exp, err := createMetricExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	// The report is pushed by ForceFlush, so the periodic interval only has
	// to outlast the process.
	reader := sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(24*time.Hour))

	return NewOTELExporterWithReader(ctx, cfg, reader)
}

// NewOTELExporterWithReader creates an OTEL exporter that collects through
// reader instead of an OTLP connection.
func NewOTELExporterWithReader(ctx context.Context, cfg *config.OTELExportConfig, reader sdkmetric.Reader) (*OTELExporter, error) {
	res, err := createOTELResource(ctx, cfg.Resource)
	if err != nil {
		return nil, err
	}

	return &OTELExporter{
		config:        cfg,
		meterProvider: createMeterProvider(res, reader),
	}, nil
}

// Export observes all points and flushes them to the collector.
func (e *OTELExporter) Export(ctx context.Context, metrics *metric.Registry) error {
	if err := registerOTELInstruments(e.meterProvider.Meter(meterName), metrics); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	if err := e.meterProvider.ForceFlush(ctx); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}

	slog.Info("pushed otel metrics",
		"endpoint", e.config.GetEndpoint(),
		"transport", e.config.Transport,
		"points", metrics.Len(),
	)
	return nil
}

// Shutdown gracefully stops the exporter.
func (e *OTELExporter) Shutdown(ctx context.Context) error {
	slog.Debug("shutting down otel exporter")

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	return e.meterProvider.Shutdown(ctx)
}

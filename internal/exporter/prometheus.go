package exporter

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/neox5/tlbreport/internal/config"
	"github.com/neox5/tlbreport/internal/metric"
)

// PrometheusExporter writes the report in the Prometheus text format, for
// pickup by the node exporter textfile collector.
type PrometheusExporter struct {
	config *config.PrometheusExportConfig
}

// NewPrometheusExporter creates a new Prometheus textfile exporter.
func NewPrometheusExporter(cfg *config.PrometheusExportConfig) *PrometheusExporter {
	return &PrometheusExporter{config: cfg}
}

// Export writes all points to the configured textfile. The file is
// replaced atomically.
func (e *PrometheusExporter) Export(metrics *metric.Registry) error {
	promRegistry, err := createPrometheusRegistry(metrics)
	if err != nil {
		return fmt.Errorf("failed to register collector: %w", err)
	}

	if err := prometheus.WriteToTextfile(e.config.Textfile, promRegistry); err != nil {
		return fmt.Errorf("failed to write textfile: %w", err)
	}

	slog.Info("wrote prometheus textfile", "path", e.config.Textfile, "points", metrics.Len())
	return nil
}

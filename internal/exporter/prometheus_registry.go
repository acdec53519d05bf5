package exporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/neox5/tlbreport/internal/metric"
)

// createPrometheusRegistry creates and populates a Prometheus registry.
func createPrometheusRegistry(metrics *metric.Registry) (*prometheus.Registry, error) {
	promRegistry := prometheus.NewRegistry()

	if err := promRegistry.Register(newCollector(metrics)); err != nil {
		return nil, err
	}

	return promRegistry, nil
}

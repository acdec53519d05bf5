package exporter

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/neox5/tlbreport/internal/metric"
)

// collector implements prometheus.Collector over a fixed set of points.
type collector struct {
	descs  map[string]*prometheus.Desc
	points []metric.Point
}

// newCollector creates a collector from a metric registry.
func newCollector(metrics *metric.Registry) *collector {
	descs := make(map[string]*prometheus.Desc)
	for _, d := range metric.Descriptors() {
		descs[d.PrometheusName] = prometheus.NewDesc(
			d.PrometheusName,
			d.Description,
			[]string{metric.LabelCounter},
			nil, // No constant labels
		)
	}

	slog.Debug("registered prometheus collector", "points", metrics.Len())

	return &collector{
		descs:  descs,
		points: metrics.Points(),
	}
}

// Describe sends metric descriptors to the channel.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range metric.Descriptors() {
		ch <- c.descs[d.PrometheusName]
	}
}

// Collect sends one gauge per point.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	for _, p := range c.points {
		m, err := prometheus.NewConstMetric(
			c.descs[p.Descriptor.PrometheusName],
			prometheus.GaugeValue,
			p.Value,
			p.Counter,
		)
		if err != nil {
			continue
		}

		ch <- m
	}
}

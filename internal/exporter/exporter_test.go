package exporter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/neox5/tlbreport/internal/config"
	"github.com/neox5/tlbreport/internal/metric"
	"github.com/neox5/tlbreport/internal/perf"
)

func testRegistry() *metric.Registry {
	return metric.New(&perf.Report{
		Results: []perf.Result{
			{
				Name:    "tlb_data_read_miss",
				Outcome: perf.OutcomeSampled,
				Sample:  perf.Sample{Value: 300, TimeEnabled: 1000, TimeRunning: 250},
				Scaled:  1200,
				Running: 25,
			},
			{Name: "tlb_data_write_miss", Outcome: perf.OutcomeNotRun},
		},
	})
}

const expectedProm = `
# HELP tlbreport_counter_active Whether the counter was active when the window closed
# TYPE tlbreport_counter_active gauge
tlbreport_counter_active{counter="tlb_data_read_miss"} 1
tlbreport_counter_active{counter="tlb_data_write_miss"} 0
# HELP tlbreport_counter_raw Counter value as read from the kernel
# TYPE tlbreport_counter_raw gauge
tlbreport_counter_raw{counter="tlb_data_read_miss"} 300
# HELP tlbreport_counter_running_ratio Fraction of the enabled window the counter was scheduled
# TYPE tlbreport_counter_running_ratio gauge
tlbreport_counter_running_ratio{counter="tlb_data_read_miss"} 0.25
# HELP tlbreport_counter_scaled Counter value extrapolated to the full enabled window
# TYPE tlbreport_counter_scaled gauge
tlbreport_counter_scaled{counter="tlb_data_read_miss"} 1200
`

func TestPrometheusCollector(t *testing.T) {
	c := newCollector(testRegistry())
	err := testutil.CollectAndCompare(c, strings.NewReader(expectedProm))
	assert.NoError(t, err)
}

func TestPrometheusExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tlbreport.prom")
	e := NewPrometheusExporter(&config.PrometheusExportConfig{Enabled: true, Textfile: path})

	require.NoError(t, e.Export(testRegistry()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tlbreport_counter_scaled{counter="tlb_data_read_miss"} 1200`)
	assert.Contains(t, string(data), `tlbreport_counter_active{counter="tlb_data_write_miss"} 0`)
}

func TestPrometheusExportBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "tlbreport.prom")
	e := NewPrometheusExporter(&config.PrometheusExportConfig{Enabled: true, Textfile: path})
	assert.Error(t, e.Export(testRegistry()))
}

func otelTestConfig() *config.OTELExportConfig {
	cfg := &config.OTELExportConfig{Enabled: true}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

func gaugePoints(t *testing.T, rm metricdata.ResourceMetrics, name string) map[string]float64 {
	t.Helper()
	out := make(map[string]float64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			gauge, ok := m.Data.(metricdata.Gauge[float64])
			require.True(t, ok, "metric %s is %T", name, m.Data)
			for _, dp := range gauge.DataPoints {
				v, ok := dp.Attributes.Value(attribute.Key(metric.LabelCounter))
				require.True(t, ok)
				out[v.AsString()] = dp.Value
			}
		}
	}
	return out
}

func TestOTELExport(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()

	e, err := NewOTELExporterWithReader(ctx, otelTestConfig(), reader)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Shutdown(context.Background()) })

	require.NoError(t, e.Export(ctx, testRegistry()))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	name, ok := rm.Resource.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, config.DefaultServiceName, name.AsString())

	assert.Equal(t, map[string]float64{"tlb_data_read_miss": 1200},
		gaugePoints(t, rm, metric.Scaled.OTELName))
	assert.Equal(t, map[string]float64{"tlb_data_read_miss": 0.25},
		gaugePoints(t, rm, metric.RunningRatio.OTELName))
	assert.Equal(t, map[string]float64{"tlb_data_read_miss": 1, "tlb_data_write_miss": 0},
		gaugePoints(t, rm, metric.Active.OTELName))
}

func TestOTELConstructor(t *testing.T) {
	for _, transport := range []string{"grpc", "http"} {
		t.Run(transport, func(t *testing.T) {
			cfg := &config.OTELExportConfig{Enabled: true, Transport: transport, Timeout: time.Second}
			require.NoError(t, cfg.Validate())

			e, err := NewOTELExporter(context.Background(), cfg)
			require.NoError(t, err)
			assert.Equal(t, "localhost", cfg.Host)

			// No collector is listening; only the shutdown path is exercised.
			_ = e.Shutdown(context.Background())
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neox5/tlbreport/internal/catalog"
	"github.com/neox5/tlbreport/internal/perf"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tlbreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, perf.DefaultMode, cfg.Mode)
	assert.Equal(t, catalog.Default(), cfg.Counters)
	assert.Equal(t, WorkloadConfig{
		SizeMB:      DefaultWorkloadSizeMB,
		Stride:      DefaultWorkloadStride,
		WindowPages: DefaultWorkloadWindowPages,
		Duration:    DefaultWorkloadDuration,
		Interval:    DefaultWorkloadInterval,
	}, cfg.Workload)
	assert.True(t, cfg.Monitor.Enabled)
	assert.Equal(t, DefaultMonitorInterval, cfg.Monitor.Interval)
	assert.False(t, cfg.Export.PrometheusEnabled())
	assert.False(t, cfg.Export.OTELEnabled())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
mode: grouped
counters:
  - tlb_data_read_miss
  - name: itlb_miss
    type: hw_cache
    cache: itlb
    op: read
    result: miss
  - name: cycles
    type: hardware
    config: 0
workload:
  size_mb: 64
  stride: 8192
  duration: 500ms
  seed: 7
monitor:
  enabled: false
export:
  prometheus:
    enabled: true
  otel:
    enabled: true
    transport: http
    headers:
      x-token: abc
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, perf.ModeGrouped, cfg.Mode)
	require.Len(t, cfg.Counters, 3)

	builtin, ok := catalog.Lookup("tlb_data_read_miss")
	require.True(t, ok)
	assert.Equal(t, builtin, cfg.Counters[0])

	assert.Equal(t, catalog.Event{
		Name:   "itlb_miss",
		Type:   catalog.TypeHWCache,
		Config: catalog.HWCacheConfig(catalog.CacheITLB, catalog.OpRead, catalog.ResultMiss),
	}, cfg.Counters[1])

	assert.Equal(t, catalog.TypeHardware, cfg.Counters[2].Type)
	assert.Zero(t, cfg.Counters[2].Config)

	assert.Equal(t, 64, cfg.Workload.SizeMB)
	assert.Equal(t, 8192, cfg.Workload.Stride)
	assert.Equal(t, DefaultWorkloadWindowPages, cfg.Workload.WindowPages)
	assert.Equal(t, 500*time.Millisecond, cfg.Workload.Duration)
	require.NotNil(t, cfg.Workload.Seed)
	assert.Equal(t, uint64(7), *cfg.Workload.Seed)

	assert.False(t, cfg.Monitor.Enabled)

	require.True(t, cfg.Export.PrometheusEnabled())
	assert.Equal(t, DefaultPrometheusTextfile, cfg.Export.Prometheus.Textfile)

	require.True(t, cfg.Export.OTELEnabled())
	otel := cfg.Export.OTEL
	assert.Equal(t, "http", otel.Transport)
	assert.Equal(t, "localhost:4318", otel.GetEndpoint())
	assert.Equal(t, DefaultOTELTimeout, otel.Timeout)
	assert.Equal(t, DefaultServiceName, otel.Resource["service.name"])
	assert.Equal(t, "abc", otel.Headers["x-token"])
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "bad mode",
			body: "mode: sideways\n",
			want: "sideways",
		},
		{
			name: "unknown builtin",
			body: "counters:\n  - no_such_event\n",
			want: "unknown built-in event",
		},
		{
			name: "duplicate counter",
			body: "counters:\n  - tlb_data_read_miss\n  - tlb_data_read_miss\n",
			want: "duplicate name",
		},
		{
			name: "missing type",
			body: "counters:\n  - name: x\n",
			want: "type cannot be empty",
		},
		{
			name: "unknown cache",
			body: "counters:\n  - name: x\n    type: hw_cache\n    cache: l9\n    op: read\n    result: miss\n",
			want: "unknown cache",
		},
		{
			name: "missing config",
			body: "counters:\n  - name: x\n    type: raw\n",
			want: "config is required",
		},
		{
			name: "bad transport",
			body: "export:\n  otel:\n    enabled: true\n    transport: udp\n",
			want: "invalid transport",
		},
		{
			name: "negative stride",
			body: "workload:\n  stride: -1\n",
			want: "stride cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDisabledExportersSkipDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "export:\n  otel:\n    transport: udp\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Export.OTELEnabled())
	assert.Equal(t, "udp", cfg.Export.OTEL.Transport)
}

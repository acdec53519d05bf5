package config

import (
	"log/slog"
	"time"

	"github.com/neox5/tlbreport/internal/catalog"
	"github.com/neox5/tlbreport/internal/perf"
)

const (
	// Workload defaults
	DefaultWorkloadSizeMB      = 256
	DefaultWorkloadStride      = 4096
	DefaultWorkloadWindowPages = 512
	DefaultWorkloadDuration    = 2 * time.Second
	DefaultWorkloadInterval    = 50 * time.Millisecond

	// Monitor defaults
	DefaultMonitorInterval = 1 * time.Second
)

// Config holds the complete resolved application configuration.
type Config struct {
	Mode     perf.Mode
	Counters []catalog.Event
	Workload WorkloadConfig
	Monitor  MonitorConfig
	Export   ExportConfig
}

// WorkloadConfig defines the synthetic page walk run inside the window.
type WorkloadConfig struct {
	SizeMB      int
	Stride      int
	WindowPages int
	Duration    time.Duration
	Interval    time.Duration
	// Seed fixes the hot-window sequence; nil means time-based.
	Seed *uint64
}

// LogValue implements slog.LogValuer for structured logging
func (c WorkloadConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("size_mb", c.SizeMB),
		slog.Int("stride", c.Stride),
		slog.Int("window_pages", c.WindowPages),
		slog.Duration("duration", c.Duration),
		slog.Duration("interval", c.Interval),
	)
}

// MonitorConfig controls process resource logging.
type MonitorConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Default returns the configuration used when no file is given: the data
// TLB catalog, the build's default mode and no exporters.
func Default() *Config {
	cfg, err := Resolve(&RawConfig{})
	if err != nil {
		// The empty raw config always resolves.
		panic(err)
	}
	return cfg
}

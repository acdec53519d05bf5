package config

import (
	"errors"
	"fmt"
	"maps"

	"github.com/neox5/tlbreport/internal/catalog"
	"github.com/neox5/tlbreport/internal/perf"
)

// Resolve turns a raw config into the final config, applying defaults.
func Resolve(raw *RawConfig) (*Config, error) {
	mode, err := perf.ParseMode(raw.Mode)
	if err != nil {
		return nil, err
	}

	counters, err := resolveCounters(raw.Counters)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Mode:     mode,
		Counters: counters,
		Workload: resolveWorkload(raw.Workload),
		Monitor:  resolveMonitor(raw.Monitor),
		Export:   resolveExport(raw.Export),
	}

	if err := cfg.Export.Validate(); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	return cfg, nil
}

// resolveCounters maps raw counters onto catalog events. No counters means
// the default data TLB set.
func resolveCounters(raw []RawCounterConfig) ([]catalog.Event, error) {
	if len(raw) == 0 {
		return catalog.Default(), nil
	}

	events := make([]catalog.Event, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, rc := range raw {
		if _, exists := seen[rc.Name]; exists {
			return nil, fmt.Errorf("counter %q: duplicate name", rc.Name)
		}
		seen[rc.Name] = struct{}{}

		ev, err := resolveCounter(rc)
		if err != nil {
			return nil, fmt.Errorf("counter %q: %w", rc.Name, err)
		}
		events = append(events, ev)
	}

	return events, nil
}

func resolveCounter(rc RawCounterConfig) (catalog.Event, error) {
	if rc.Builtin {
		ev, ok := catalog.Lookup(rc.Name)
		if !ok {
			return catalog.Event{}, errors.New("unknown built-in event")
		}
		return ev, nil
	}

	typ, err := catalog.ParseType(rc.Type)
	if err != nil {
		return catalog.Event{}, err
	}

	ev := catalog.Event{
		Name:        rc.Name,
		Type:        typ,
		Description: rc.Description,
	}

	switch {
	case typ == catalog.TypeHWCache && rc.Config == nil:
		cfg, err := catalog.ParseHWCache(rc.Cache, rc.Op, rc.Result)
		if err != nil {
			return catalog.Event{}, err
		}
		ev.Config = cfg
	case rc.Config != nil:
		ev.Config = *rc.Config
	default:
		return catalog.Event{}, fmt.Errorf("config is required for type %s", rc.Type)
	}

	return ev, nil
}

func resolveWorkload(raw RawWorkloadConfig) WorkloadConfig {
	w := WorkloadConfig{
		SizeMB:      raw.SizeMB,
		Stride:      raw.Stride,
		WindowPages: raw.WindowPages,
		Duration:    raw.Duration,
		Interval:    raw.Interval,
		Seed:        raw.Seed,
	}

	if w.SizeMB == 0 {
		w.SizeMB = DefaultWorkloadSizeMB
	}
	if w.Stride == 0 {
		w.Stride = DefaultWorkloadStride
	}
	if w.WindowPages == 0 {
		w.WindowPages = DefaultWorkloadWindowPages
	}
	if w.Duration == 0 {
		w.Duration = DefaultWorkloadDuration
	}
	if w.Interval == 0 {
		w.Interval = DefaultWorkloadInterval
	}

	return w
}

func resolveMonitor(raw RawMonitorConfig) MonitorConfig {
	m := MonitorConfig{
		Enabled:  true,
		Interval: raw.Interval,
	}
	if raw.Enabled != nil {
		m.Enabled = *raw.Enabled
	}
	if m.Interval == 0 {
		m.Interval = DefaultMonitorInterval
	}
	return m
}

func resolveExport(raw RawExportConfig) ExportConfig {
	var e ExportConfig

	if raw.Prometheus != nil {
		e.Prometheus = &PrometheusExportConfig{
			Enabled:  raw.Prometheus.Enabled,
			Textfile: raw.Prometheus.Textfile,
		}
	}

	if raw.OTEL != nil {
		e.OTEL = &OTELExportConfig{
			Enabled:   raw.OTEL.Enabled,
			Transport: raw.OTEL.Transport,
			Host:      raw.OTEL.Host,
			Port:      raw.OTEL.Port,
			Timeout:   raw.OTEL.Timeout,
			Resource:  cloneMap(raw.OTEL.Resource),
			Headers:   cloneMap(raw.OTEL.Headers),
		}
	}

	return e
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	maps.Copy(out, m)
	return out
}

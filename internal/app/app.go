package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/neox5/tlbreport/internal/catalog"
	"github.com/neox5/tlbreport/internal/config"
	"github.com/neox5/tlbreport/internal/exporter"
	"github.com/neox5/tlbreport/internal/metric"
	"github.com/neox5/tlbreport/internal/monitor"
	"github.com/neox5/tlbreport/internal/perf"
	"github.com/neox5/tlbreport/internal/workload"
)

// Runner is the code measured between Initialize and Finalize.
type Runner interface {
	Run(ctx context.Context) (workload.Stats, error)
}

// App holds initialized application components.
type App struct {
	Config             *config.Config
	Registry           *perf.Registry
	Session            *perf.Session
	Workload           Runner
	Monitor            *monitor.Monitor
	PrometheusExporter *exporter.PrometheusExporter
	OTELExporter       *exporter.OTELExporter

	logger *slog.Logger
}

// Option configures an App.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	session []perf.Option
	runner  Runner
}

// WithLogger sets the logger used by the app and its session.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithSessionOptions passes options through to the perf session.
func WithSessionOptions(opts ...perf.Option) Option {
	return func(o *options) { o.session = append(o.session, opts...) }
}

// WithRunner replaces the synthetic workload.
func WithRunner(r Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithOutput sets where the human report is written.
func WithOutput(w io.Writer) Option {
	return WithSessionOptions(perf.WithOutput(w))
}

// New initializes the application from a resolved configuration.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	// Register counters
	reg := perf.NewRegistry()
	if err := catalog.RegisterAll(reg, cfg.Counters); err != nil {
		return nil, fmt.Errorf("failed to register counters: %w", err)
	}

	sessionOpts := append([]perf.Option{
		perf.WithMode(cfg.Mode),
		perf.WithLogger(o.logger),
	}, o.session...)
	session := perf.NewSession(reg, sessionOpts...)
	o.logger.Debug("performance event mode", "mode", session.Mode())

	// Create workload
	runner := o.runner
	if runner == nil {
		w, err := workload.New(cfg.Workload)
		if err != nil {
			return nil, fmt.Errorf("failed to create workload: %w", err)
		}
		o.logger.Info("workload created", "seed", w.Seed(), "workload", cfg.Workload)
		runner = w
	}

	a := &App{
		Config:   cfg,
		Registry: reg,
		Session:  session,
		Workload: runner,
		logger:   o.logger,
	}

	if cfg.Monitor.Enabled {
		mon, err := monitor.New(cfg.Monitor.Interval, o.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create monitor: %w", err)
		}
		a.Monitor = mon
	}

	// Create Prometheus exporter if enabled
	if cfg.Export.PrometheusEnabled() {
		a.PrometheusExporter = exporter.NewPrometheusExporter(cfg.Export.Prometheus)
	}

	// Create OTEL exporter if enabled
	if cfg.Export.OTELEnabled() {
		otelExporter, err := exporter.NewOTELExporter(ctx, cfg.Export.OTEL)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTEL exporter: %w", err)
		}
		a.OTELExporter = otelExporter
	}

	return a, nil
}

// Run measures one workload pass and exports the report. The counters
// count the calling thread only, so the goroutine is pinned to its thread
// for the whole window.
func (a *App) Run(ctx context.Context) (*perf.Report, error) {
	var before monitor.Snapshot
	if a.Monitor != nil {
		snap, err := a.Monitor.Snapshot()
		if err != nil {
			a.logger.Warn("failed to snapshot process", "error", err)
		}
		before = snap

		monCtx, cancel := context.WithCancel(ctx)
		a.Monitor.Run(monCtx)
		defer func() {
			cancel()
			a.Monitor.Wait()
		}()
	}

	rep, stats, runErr := a.measure(ctx)

	a.logger.Info("workload complete", "stats", stats)

	if a.Monitor != nil {
		if after, err := a.Monitor.Snapshot(); err == nil {
			a.Monitor.LogDelta("window", before, after)
		}
	}

	// Export even when the run was interrupted.
	if err := a.export(context.WithoutCancel(ctx), rep); err != nil {
		return rep, errors.Join(runErr, err)
	}

	return rep, runErr
}

func (a *App) measure(ctx context.Context) (*perf.Report, workload.Stats, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	active := a.Session.Initialize()
	if active == 0 {
		a.logger.Warn("no performance events active; is perf_event_paranoid too strict?")
	}

	stats, err := a.Workload.Run(ctx)
	if err != nil {
		err = fmt.Errorf("workload: %w", err)
	}

	return a.Session.Finalize(), stats, err
}

func (a *App) export(ctx context.Context, rep *perf.Report) error {
	if a.PrometheusExporter == nil && a.OTELExporter == nil {
		return nil
	}

	metrics := metric.New(rep)
	var errs []error

	if a.PrometheusExporter != nil {
		if err := a.PrometheusExporter.Export(metrics); err != nil {
			errs = append(errs, fmt.Errorf("prometheus exporter: %w", err))
		}
	}

	if a.OTELExporter != nil {
		if err := a.OTELExporter.Export(ctx, metrics); err != nil {
			errs = append(errs, fmt.Errorf("otel exporter: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Shutdown releases exporter resources.
func (a *App) Shutdown(ctx context.Context) error {
	if a.OTELExporter != nil {
		return a.OTELExporter.Shutdown(ctx)
	}
	return nil
}

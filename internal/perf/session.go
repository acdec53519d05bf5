package perf

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Session drives the registered counters through one measurement window at
// a time: Initialize opens and starts them, Finalize stops, reads, reports
// and closes them. A Session is not safe for concurrent use.
type Session struct {
	reg    *Registry
	fac    Facility
	mode   Mode
	strat  strategy
	out    io.Writer
	logger *slog.Logger

	leader *Descriptor
	opened bool
	active int
}

// Option configures a Session.
type Option func(*Session)

// WithFacility replaces the kernel facility.
func WithFacility(fac Facility) Option {
	return func(s *Session) { s.fac = fac }
}

// WithMode selects the acquisition mode instead of DefaultMode.
func WithMode(m Mode) Option {
	return func(s *Session) { s.mode = m }
}

// WithOutput sets where the report is written. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(s *Session) { s.out = w }
}

// WithLogger sets the logger for per-counter diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// NewSession creates a session over reg.
func NewSession(reg *Registry, opts ...Option) *Session {
	s := &Session{
		reg:  reg,
		fac:  Kernel(),
		mode: DefaultMode,
		out:  os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.strat = newStrategy(s.mode)
	return s
}

// Mode returns the acquisition mode in use.
func (s *Session) Mode() Mode { return s.mode }

// Active returns the number of counters currently counting.
func (s *Session) Active() int { return s.active }

// Initialize opens, resets and enables every registered counter. Failures
// stay on the individual descriptors; the return value is the number of
// counters that started, possibly zero.
func (s *Session) Initialize() int {
	if s.opened {
		s.logger.Warn("performance events already initialized", "active", s.active)
		return s.active
	}
	s.reg.seal()

	s.logger.Debug("initializing performance events",
		"mode", s.mode,
		"counters", s.reg.Len())

	for d := range s.reg.All() {
		d.rearm()
		s.open(d)
	}

	for d := range s.reg.All() {
		if d.status == StatusOpened {
			s.enable(d)
		}
	}

	s.logger.Info("performance events initialized",
		"mode", s.mode,
		"active", s.active,
		"registered", s.reg.Len())

	return s.active
}

func (s *Session) open(d *Descriptor) {
	attr := d.attr
	attr.ReadFormat = s.strat.readFormat()

	fd, err := s.fac.Open(attr, s.strat.group(s.leader))
	if err != nil {
		d.fail(fmt.Errorf("%w: %w", ErrOpen, err))
		s.logger.Debug("failed to open performance event", "counter", d.name, "error", err)
		return
	}
	h := newHandle(fd, s.fac)

	id, err := s.fac.ID(fd)
	if err != nil {
		_ = h.Close()
		d.fail(fmt.Errorf("%w: %w", ErrIDQuery, err))
		s.logger.Debug("failed to get performance event id", "counter", d.name, "fd", fd, "error", err)
		return
	}

	d.handle = h
	d.id = id
	d.status = StatusOpened
	s.opened = true
	if s.mode == ModeGrouped && s.leader == nil {
		s.leader = d
	}

	s.logger.Debug("performance event opened", "counter", d.name, "fd", fd, "id", id)
}

func (s *Session) enable(d *Descriptor) {
	if err := s.fac.Reset(d.handle.fd); err != nil {
		d.fail(fmt.Errorf("%w: %w", ErrReset, err))
		s.logger.Debug("failed to reset performance event", "counter", d.name, "error", err)
		return
	}
	if err := s.fac.Enable(d.handle.fd); err != nil {
		d.fail(fmt.Errorf("%w: %w", ErrEnable, err))
		s.logger.Debug("failed to enable performance event", "counter", d.name, "error", err)
		return
	}

	d.status = StatusActive
	s.active++
	s.logger.Debug("performance event enabled", "counter", d.name)
}

// Finalize stops every active counter, reads and reports it, then closes
// all handles. It is safe to call when nothing was opened and when called
// twice; the second call only reports that there is nothing to report.
func (s *Session) Finalize() *Report {
	report := &Report{Mode: s.mode}

	if !s.opened {
		report.Empty = true
		s.write(report)
		return report
	}

	var active []*Descriptor
	for d := range s.reg.All() {
		if d.status == StatusActive {
			active = append(active, d)
		}
	}

	// Best effort: sampling goes ahead even if a disable fails.
	for _, d := range active {
		if err := s.fac.Disable(d.handle.fd); err != nil {
			s.logger.Debug("failed to disable performance event", "counter", d.name, "error", err)
		}
	}

	var (
		outcomes []sampled
		err      error
	)
	if len(active) > 0 {
		outcomes, err = s.strat.acquire(s.fac, s.leader, active)
	}
	if err != nil {
		report.Err = err
		s.logger.Debug("group read failed", "error", err)
		for _, d := range active {
			d.status = StatusSampleFailed
			d.err = err
			report.Results = append(report.Results, Result{
				Name:    d.name,
				Outcome: OutcomeSampleFailed,
				Err:     err,
			})
		}
	}
	for _, o := range outcomes {
		if o.err != nil {
			o.d.status = StatusSampleFailed
			o.d.err = o.err
			s.logger.Debug("failed to read performance event", "counter", o.d.name, "error", o.err)
			report.Results = append(report.Results, Result{
				Name:    o.d.name,
				Outcome: OutcomeSampleFailed,
				Err:     o.err,
			})
			continue
		}
		o.d.status = StatusSampled
		if o.sample.TimeRunning == 0 {
			s.logger.Debug("performance event never ran", "counter", o.d.name,
				"time_enabled", o.sample.TimeEnabled)
		}
		report.Results = append(report.Results, newSampledResult(o.d, o.sample))
	}

	for d := range s.reg.All() {
		switch d.status {
		case StatusSampled, StatusSampleFailed:
		default:
			report.Results = append(report.Results, Result{
				Name:    d.name,
				Outcome: OutcomeNotRun,
				Err:     d.err,
			})
		}
	}

	s.write(report)
	s.release()

	return report
}

// release closes every handle still held and resets the window state.
func (s *Session) release() {
	for d := range s.reg.All() {
		if d.handle == nil {
			continue
		}
		if err := d.release(); err != nil {
			s.logger.Debug("failed to close performance event", "counter", d.name, "error", err)
		}
	}
	s.leader = nil
	s.opened = false
	s.active = 0
}

func (s *Session) write(report *Report) {
	if _, err := report.WriteTo(s.out); err != nil {
		s.logger.Warn("failed to write performance report", "error", err)
	}
}

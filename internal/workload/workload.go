// Package workload generates the memory traffic measured between
// Initialize and Finalize. It walks a buffer in a hot window of pages
// whose position is re-drawn on every simv clock tick, so TLB reach is
// exceeded without the access pattern becoming a plain linear scan.
package workload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/neox5/simv/clock"
	"github.com/neox5/simv/source"
	"github.com/neox5/simv/value"

	"github.com/neox5/tlbreport/internal/config"
)

// ErrAlreadyRun is returned by a second Run; the simv clock cannot restart.
var ErrAlreadyRun = errors.New("workload already run")

// Stats summarizes one workload run.
type Stats struct {
	Touches  uint64
	Windows  uint64
	Updates  uint64
	Elapsed  time.Duration
	Checksum uint64
}

// LogValue implements slog.LogValuer for structured logging
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("touches", s.Touches),
		slog.Uint64("windows", s.Windows),
		slog.Uint64("updates", s.Updates),
		slog.Duration("elapsed", s.Elapsed),
	)
}

// Workload manages the simv components and the backing buffer.
type Workload struct {
	cfg      config.WorkloadConfig
	pageSize int
	pages    int
	buf      []byte
	seed     uint64
	ran      bool

	clock clock.Clock
	base  *value.Value[int]
}

// New creates a workload from configuration. The buffer is allocated and
// pre-faulted here so page faults stay out of the measured window.
func New(cfg config.WorkloadConfig) (*Workload, error) {
	pageSize := os.Getpagesize()

	if cfg.SizeMB <= 0 {
		return nil, fmt.Errorf("invalid workload size: %d MB", cfg.SizeMB)
	}
	if cfg.Stride <= 0 {
		return nil, fmt.Errorf("invalid workload stride: %d", cfg.Stride)
	}
	if cfg.Duration <= 0 || cfg.Interval <= 0 {
		return nil, fmt.Errorf("invalid workload timing: duration %s interval %s", cfg.Duration, cfg.Interval)
	}

	size := cfg.SizeMB << 20
	pages := size / pageSize
	if cfg.WindowPages <= 0 || cfg.WindowPages > pages {
		return nil, fmt.Errorf("invalid window: %d pages (buffer has %d)", cfg.WindowPages, pages)
	}

	buf := make([]byte, size)
	for off := 0; off < size; off += pageSize {
		buf[off] = 1
	}

	master := InitSeed(cfg.Seed)

	clk := clock.NewPeriodicClock(cfg.Interval)
	src := source.NewRandomIntSource(clk, 0, pages-cfg.WindowPages)

	return &Workload{
		cfg:      cfg,
		pageSize: pageSize,
		pages:    pages,
		buf:      buf,
		seed:     master,
		clock:    clk,
		base:     value.New(src),
	}, nil
}

// Seed returns the simv master seed the window sequence is drawn from.
func (w *Workload) Seed() uint64 {
	return w.seed
}

// Run walks the hot window until the configured duration elapses or ctx is
// done. It runs on the calling goroutine, which must be the thread the
// counters were opened on. A workload runs once.
func (w *Workload) Run(ctx context.Context) (Stats, error) {
	if w.ran {
		return Stats{}, ErrAlreadyRun
	}
	w.ran = true

	// Subscribe before the first tick. Stopping the clock closes the
	// source and value channels, so value Stop returns once it drains.
	w.base.Start()
	w.clock.Start()
	defer func() {
		w.clock.Stop()
		w.base.Stop()
	}()

	var stats Stats
	start := time.Now()
	deadline := start.Add(w.cfg.Duration)
	last := -1

	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			stats.Elapsed = time.Since(start)
			stats.Updates = w.base.Stats().UpdateCount
			return stats, err
		}

		first := w.windowStart()
		if first != last {
			stats.Windows++
			last = first
		}

		touches, sum := w.walk(first)
		stats.Touches += touches
		stats.Checksum += sum
	}

	stats.Elapsed = time.Since(start)
	stats.Updates = w.base.Stats().UpdateCount
	return stats, nil
}

// windowStart returns the first page of the current hot window.
func (w *Workload) windowStart() int {
	limit := w.pages - w.cfg.WindowPages + 1
	first := w.base.Value() % limit
	if first < 0 {
		first += limit
	}
	return first
}

// walk touches the window once at the configured stride.
func (w *Workload) walk(first int) (uint64, uint64) {
	lo := first * w.pageSize
	hi := lo + w.cfg.WindowPages*w.pageSize

	var touches, sum uint64
	for off := lo; off < hi; off += w.cfg.Stride {
		w.buf[off]++
		sum += uint64(w.buf[off])
		touches++
	}
	return touches, sum
}

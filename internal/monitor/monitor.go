package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Snapshot is a point-in-time view of process memory behavior.
type Snapshot struct {
	MinorFaults uint64
	MajorFaults uint64
	HeapAlloc   uint64
	HeapSys     uint64
	NumGC       uint32
}

// Sub returns the change from prev to s. Heap figures are absolute.
func (s Snapshot) Sub(prev Snapshot) Snapshot {
	return Snapshot{
		MinorFaults: s.MinorFaults - prev.MinorFaults,
		MajorFaults: s.MajorFaults - prev.MajorFaults,
		HeapAlloc:   s.HeapAlloc,
		HeapSys:     s.HeapSys,
		NumGC:       s.NumGC - prev.NumGC,
	}
}

// Monitor tracks page faults and resource usage around the counting window.
type Monitor struct {
	interval time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
	faults   func() (*process.PageFaultsStat, error)
	cpu      func() (float64, error)
}

// New creates a new monitor for the current process.
func New(interval time.Duration, logger *slog.Logger) (*Monitor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process handle: %w", err)
	}

	return &Monitor{
		interval: interval,
		logger:   logger,
		faults:   proc.PageFaults,
		cpu:      proc.CPUPercent,
	}, nil
}

// Snapshot reads current fault counters and heap statistics.
func (m *Monitor) Snapshot() (Snapshot, error) {
	pf, err := m.faults()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read page faults: %w", err)
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return Snapshot{
		MinorFaults: pf.MinorFaults,
		MajorFaults: pf.MajorFaults,
		HeapAlloc:   ms.HeapAlloc,
		HeapSys:     ms.HeapSys,
		NumGC:       ms.NumGC,
	}, nil
}

// LogDelta logs the difference between two snapshots.
func (m *Monitor) LogDelta(msg string, before, after Snapshot) {
	d := after.Sub(before)
	m.logger.LogAttrs(
		context.Background(),
		slog.LevelInfo,
		msg,
		slog.Uint64("minflt", d.MinorFaults),
		slog.Uint64("majflt", d.MajorFaults),
		slog.String("mem", fmt.Sprintf("alloc:%.2fMB sys:%.2fMB", mb(d.HeapAlloc), mb(d.HeapSys))),
		slog.Uint64("gc", uint64(d.NumGC)),
	)
}

// Run starts the monitoring loop in a background goroutine.
// The loop exits when ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.wg.Go(func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		// Immediate first collection
		m.collect()

		for {
			select {
			case <-ctx.Done():
				m.logger.Debug("monitor shutdown complete")
				return
			case <-ticker.C:
				m.collect()
			}
		}
	})
}

// Wait blocks until the monitor goroutine exits.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// collect reads current metrics and logs resource usage.
func (m *Monitor) collect() {
	processCPU, err := m.cpu()
	if err != nil {
		m.logger.Warn("failed to get CPU percent", "error", err)
		processCPU = 0
	}

	snap, err := m.Snapshot()
	if err != nil {
		m.logger.Warn("failed to collect snapshot", "error", err)
		return
	}

	m.logger.LogAttrs(
		context.Background(),
		slog.LevelInfo,
		"resource",
		slog.String("cpu", fmt.Sprintf("%.4f%%", processCPU)),
		slog.Int("gor", runtime.NumGoroutine()),
		slog.Uint64("minflt", snap.MinorFaults),
		slog.Uint64("majflt", snap.MajorFaults),
		slog.String("mem", fmt.Sprintf("alloc:%.2fMB sys:%.2fMB", mb(snap.HeapAlloc), mb(snap.HeapSys))),
		slog.Uint64("gc", uint64(snap.NumGC)),
	)
}

func mb(b uint64) float64 {
	return float64(b) / (1024 * 1024)
}

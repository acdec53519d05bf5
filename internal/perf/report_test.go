package perf_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/neox5/tlbreport/internal/perf"
	"github.com/stretchr/testify/assert"
)

func TestScale(t *testing.T) {
	tests := []struct {
		name                  string
		raw, enabled, running uint64
		want                  uint64
		ok                    bool
	}{
		{"full window", 500, 1_000_000, 1_000_000, 500, true},
		{"quarter window", 300, 1_000, 250, 1200, true},
		{"truncates", 10, 3, 2, 15, true},
		{"truncates down", 7, 3, 2, 10, true},
		{"never ran", 123, 1_000, 0, 0, false},
		{"empty window", 0, 0, 0, 0, false},
		{"wide product", math.MaxUint64 / 2, 4, 4, math.MaxUint64 / 2, true},
		{"saturates", math.MaxUint64, 10, 1, math.MaxUint64, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := perf.Scale(tt.raw, tt.enabled, tt.running)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunningPercent(t *testing.T) {
	assert.InDelta(t, 100.0, perf.RunningPercent(10, 10), 1e-9)
	assert.InDelta(t, 50.0, perf.RunningPercent(10, 5), 1e-9)
	assert.Zero(t, perf.RunningPercent(0, 0))
}

func TestReportWriteToEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := &perf.Report{Empty: true}
	n, err := r.WriteTo(&buf)
	assert.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "No performance events to report!\n", buf.String())
}

func TestReportWriteToTruncatesPercent(t *testing.T) {
	var buf bytes.Buffer
	r := &perf.Report{Results: []perf.Result{{
		Name:    "dtlb",
		Outcome: perf.OutcomeSampled,
		Sample:  perf.Sample{Value: 2, TimeEnabled: 3, TimeRunning: 2},
		Scaled:  3,
		Running: perf.RunningPercent(3, 2),
	}}}
	_, err := r.WriteTo(&buf)
	assert.NoError(t, err)
	assert.Equal(t,
		"\n[Performance events]\ndtlb = 3\n\t(raw count: 2, running 66%: 2 / 3 enabled)\n",
		buf.String())
}

package perf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
)

// Outcome classifies a counter in the final report.
type Outcome int

const (
	OutcomeNotRun Outcome = iota
	OutcomeSampled
	OutcomeSampleFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSampled:
		return "sampled"
	case OutcomeSampleFailed:
		return "sample_failed"
	default:
		return "not_run"
	}
}

// Result is the finalize outcome of one counter.
type Result struct {
	Name    string
	Outcome Outcome
	Sample  Sample
	// Scaled is the raw value extrapolated to the full enabled window.
	Scaled uint64
	// Running is time_running/time_enabled as a percentage.
	Running float64
	Err     error
}

// Ran reports whether the result carries a usable measurement.
func (r Result) Ran() bool {
	return r.Outcome == OutcomeSampled && r.Sample.TimeRunning > 0
}

// Report is everything a finalize call observed.
type Report struct {
	Mode Mode
	// Empty is set when no counter was ever opened.
	Empty bool
	// Err is a batch read failure; only grouped reads produce one.
	Err     error
	Results []Result
}

// Result returns the result for the named counter.
func (r *Report) Result(name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return Result{}, false
}

// Scale extrapolates raw to the full enabled window:
// raw * enabled / running, truncated. ok is false when the counter never
// ran, in which case no division happens and 0 is returned. Results that
// overflow uint64 saturate.
func Scale(raw, enabled, running uint64) (scaled uint64, ok bool) {
	if running == 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(raw, enabled)
	if hi >= running {
		return math.MaxUint64, true
	}
	q, _ := bits.Div64(hi, lo, running)
	return q, true
}

// RunningPercent returns running/enabled*100, or 0 for an empty window.
func RunningPercent(enabled, running uint64) float64 {
	if enabled == 0 {
		return 0
	}
	return float64(running) / float64(enabled) * 100
}

func newSampledResult(d *Descriptor, s Sample) Result {
	scaled, _ := Scale(s.Value, s.TimeEnabled, s.TimeRunning)
	return Result{
		Name:    d.name,
		Outcome: OutcomeSampled,
		Sample:  s,
		Scaled:  scaled,
		Running: RunningPercent(s.TimeEnabled, s.TimeRunning),
	}
}

// WriteTo renders the human-readable report.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	if r.Empty {
		buf.WriteString("No performance events to report!\n")
		return buf.WriteTo(w)
	}

	buf.WriteString("\n[Performance events]\n")

	if r.Err != nil {
		if errors.Is(r.Err, ErrReadEOF) {
			buf.WriteString("Error: read EOF\n")
		} else {
			fmt.Fprintf(&buf, "Read error: %v\n", r.Err)
		}
	}

	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeSampled:
			writeSampled(&buf, res)
		case OutcomeSampleFailed:
			if r.Err != nil {
				// already reported once for the whole group
				continue
			}
			switch {
			case errors.Is(res.Err, ErrReadEOF):
				fmt.Fprintf(&buf, "%s: EOF read\n", res.Name)
			case errors.Is(res.Err, ErrMissingSample):
				fmt.Fprintf(&buf, "%s: missing from group read\n", res.Name)
			default:
				fmt.Fprintf(&buf, "%s: read error: %v\n", res.Name, res.Err)
			}
		case OutcomeNotRun:
			fmt.Fprintf(&buf, "%s: not run\n", res.Name)
		}
	}

	return buf.WriteTo(w)
}

func writeSampled(buf *bytes.Buffer, res Result) {
	s := res.Sample
	if s.TimeRunning == 0 {
		fmt.Fprintf(buf, "%s = 0\n", res.Name)
		fmt.Fprintf(buf, "\t(raw count: %d, never running: 0 / %d enabled)\n",
			s.Value, s.TimeEnabled)
		return
	}
	fmt.Fprintf(buf, "%s = %d\n", res.Name, res.Scaled)
	fmt.Fprintf(buf, "\t(raw count: %d, running %d%%: %d / %d enabled)\n",
		s.Value, uint64(res.Running), s.TimeRunning, s.TimeEnabled)
}

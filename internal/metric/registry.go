package metric

import (
	"github.com/neox5/tlbreport/internal/perf"
)

// Registry holds the points derived from one report.
type Registry struct {
	points []Point
}

// New derives points from rep. Every counter gets an active point; only
// sampled counters get value points.
func New(rep *perf.Report) *Registry {
	var points []Point

	for _, res := range rep.Results {
		active := 0.0
		if res.Outcome != perf.OutcomeNotRun {
			active = 1
		}

		if res.Outcome == perf.OutcomeSampled {
			points = append(points,
				Point{Descriptor: Scaled, Counter: res.Name, Value: float64(res.Scaled)},
				Point{Descriptor: Raw, Counter: res.Name, Value: float64(res.Sample.Value)},
				Point{Descriptor: RunningRatio, Counter: res.Name, Value: res.Running / 100},
			)
		}

		points = append(points, Point{Descriptor: Active, Counter: res.Name, Value: active})
	}

	return &Registry{points: points}
}

// Points returns all points in report order.
func (r *Registry) Points() []Point {
	return r.points
}

// Len returns the number of points.
func (r *Registry) Len() int {
	return len(r.points)
}

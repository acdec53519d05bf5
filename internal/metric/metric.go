// Package metric flattens a finalize report into protocol-agnostic points
// that the exporters publish.
package metric

// Descriptor holds protocol-agnostic metric metadata.
type Descriptor struct {
	PrometheusName string
	OTELName       string
	Description    string
}

// LabelCounter is the label carrying the counter name.
const LabelCounter = "counter"

var (
	Scaled = Descriptor{
		PrometheusName: "tlbreport_counter_scaled",
		OTELName:       "tlbreport.counter.scaled",
		Description:    "Counter value extrapolated to the full enabled window",
	}
	Raw = Descriptor{
		PrometheusName: "tlbreport_counter_raw",
		OTELName:       "tlbreport.counter.raw",
		Description:    "Counter value as read from the kernel",
	}
	RunningRatio = Descriptor{
		PrometheusName: "tlbreport_counter_running_ratio",
		OTELName:       "tlbreport.counter.running.ratio",
		Description:    "Fraction of the enabled window the counter was scheduled",
	}
	Active = Descriptor{
		PrometheusName: "tlbreport_counter_active",
		OTELName:       "tlbreport.counter.active",
		Description:    "Whether the counter was active when the window closed",
	}
)

// Descriptors returns every metric the registry can emit, in export order.
func Descriptors() []Descriptor {
	return []Descriptor{Scaled, Raw, RunningRatio, Active}
}

// Point is one observation of a descriptor for one counter.
type Point struct {
	Descriptor Descriptor
	Counter    string
	Value      float64
}

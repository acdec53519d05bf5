package perf

// Read format bits, as defined by the perf_event_open ABI.
const (
	FormatTotalTimeEnabled uint64 = 1 << 0
	FormatTotalTimeRunning uint64 = 1 << 1
	FormatID               uint64 = 1 << 2
	FormatGroup            uint64 = 1 << 3
)

// EventAttr is the platform-neutral subset of perf_event_attr a counter
// needs. The facility translates it into the kernel structure.
type EventAttr struct {
	Type       uint32
	Config     uint64
	ReadFormat uint64

	ExcludeKernel bool
	ExcludeUser   bool
	ExcludeHV     bool
}

// ConfigFunc fills the event type/config pair of an attribute set.
type ConfigFunc func(attr *EventAttr)

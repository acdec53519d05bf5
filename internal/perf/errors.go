package perf

import "errors"

// Counter lifecycle failures. They are recorded on the descriptor that hit
// them and never returned from Initialize or Finalize.
var (
	ErrOpen    = errors.New("perf: open counter")
	ErrIDQuery = errors.New("perf: query counter id")
	ErrReset   = errors.New("perf: reset counter")
	ErrEnable  = errors.New("perf: enable counter")

	ErrRead          = errors.New("perf: read counter")
	ErrReadEOF       = errors.New("perf: read EOF")
	ErrShortRead     = errors.New("perf: short read")
	ErrMissingSample = errors.New("perf: counter missing from group read")

	// ErrGroupInvariant means a group read did not match the active counter
	// count. The whole read is discarded.
	ErrGroupInvariant = errors.New("perf: group read does not match active counters")

	ErrUnsupportedPlatform = errors.New("perf: perf_event is only supported on linux")
)

// Registration errors.
var (
	ErrInvalidDescriptor = errors.New("perf: descriptor needs a name and a config func")
	ErrDuplicateName     = errors.New("perf: duplicate counter name")
	ErrRegistrySealed    = errors.New("perf: registry sealed by initialize")
)

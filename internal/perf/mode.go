package perf

import "fmt"

// Mode selects how counters are acquired at finalize.
type Mode int

const (
	// ModeIndependent reads every counter on its own fd.
	ModeIndependent Mode = iota
	// ModeGrouped opens every counter in the leader's group and reads them
	// in one call. All members share one measurement window, but in
	// practice grouped events often fail to get scheduled at all.
	ModeGrouped
)

func (m Mode) String() string {
	switch m {
	case ModeIndependent:
		return "independent"
	case ModeGrouped:
		return "grouped"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a mode name. An empty name yields DefaultMode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "":
		return DefaultMode, nil
	case "independent":
		return ModeIndependent, nil
	case "grouped", "group":
		return ModeGrouped, nil
	default:
		return 0, fmt.Errorf("invalid mode: %s (must be independent or grouped)", name)
	}
}

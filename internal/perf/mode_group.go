//go:build perfgroup

package perf

// DefaultMode is the acquisition mode used when none is configured.
const DefaultMode = ModeGrouped

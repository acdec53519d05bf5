//go:build !perfgroup

package perf

// DefaultMode is the acquisition mode used when none is configured.
// Build with -tags perfgroup to default to grouped reads.
const DefaultMode = ModeIndependent

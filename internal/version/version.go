// Package version reports the build version.
package version

import "runtime/debug"

// Set via -ldflags "-X github.com/neox5/tlbreport/internal/version.Version=...".
var Version = ""

// String returns the version, falling back to the module build info.
func String() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

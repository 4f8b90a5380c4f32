// Package version holds build information for inboxkit.
package version

import "runtime"

// Version is the release version. Overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash. Overridden at build time using ldflags.
var Commit = "unknown"

// Info is the build information printed by the version command.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"goVersion"`
}

// String returns the full version string including the commit hash if available.
func String() string {
	if Commit != "unknown" && Commit != "" {
		return Version + "+" + Commit
	}
	return Version
}

// Current returns the build information of the running binary.
func Current() Info {
	info := Info{Version: Version, GoVersion: runtime.Version()}
	if Commit != "unknown" {
		info.Commit = Commit
	}
	return info
}

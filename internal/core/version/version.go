// Package version provides information about the build version of the finder.
package version

import "fmt"

// BuildInfo holds version information about the build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'rfinder/internal/core/version.version=v0.1.0'
	// -X 'rfinder/internal/core/version.commit=abcd' -X 'rfinder/internal/core/version.date=2025-09-02'"
	return BuildInfo{
		Service: "rfinder",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String renders "rfinder dev (none, unknown)"
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (%s, %s)", b.Service, b.Version, b.Commit, b.Date)
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

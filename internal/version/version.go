// Package version exposes build-time version information.
// Values are overridden at build time via -ldflags.
package version

import "fmt"

var (
	// Version is the semantic version of the binary (e.g. "0.3.1").
	Version = "dev"
	// Commit is the short git commit hash the binary was built from.
	Commit = "unknown"
	// Date is the build timestamp in RFC 3339 format.
	Date = "unknown"
)

// Short returns just the version string.
func Short() string {
	return Version
}

// Info returns a human-readable version line.
func Info() string {
	return fmt.Sprintf("millwright %s (commit %s, built %s)", Version, Commit, Date)
}

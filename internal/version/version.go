// Package version holds build-time fingerprints for the urdc binary.
// The defaults below are placeholders; release builds overwrite them
// via -ldflags -X.
package version

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

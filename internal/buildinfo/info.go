// Package buildinfo holds version information set at build time via ldflags.
package buildinfo

// Set via -ldflags "-X github.com/flowcast-dev/flowcast/internal/buildinfo.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

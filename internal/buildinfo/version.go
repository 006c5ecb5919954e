// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/ironsheep/color-adjacency-mcp/internal/buildinfo.Version=v1.0.0 \
//	    -X github.com/ironsheep/color-adjacency-mcp/internal/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/ironsheep/color-adjacency-mcp/internal/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("color-adjacency-mcp %s\n  Build time: %s\n  Git commit: %s", Version, Date, Commit)
}

// Template returns the version template string for cobra.
func Template() string {
	return String() + "\n"
}

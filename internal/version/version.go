// Package version provides build-time version information for skillsctl.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables set via ldflags.
// Example: go build -ldflags="-X github.com/andywolf/skillsctl/internal/version.Version=v1.0.0"
var (
	// Version is the semantic version (e.g., "v1.2.3"). Set via ldflags.
	Version = "dev"

	// Commit is the git commit SHA. Set via ldflags.
	Commit = "unknown"

	// BuildDate is the RFC3339 timestamp of the build. Set via ldflags.
	BuildDate = "unknown"
)

// BuildInfo is the machine-readable form of the version output.
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Short returns the version string (e.g., "v1.2.3" or "dev").
func Short() string {
	return Version
}

// Get returns the build information.
func Get() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Info returns a single-line version string.
// Format: "skillsctl v1.2.3 (commit: abc1234, built: 2024-01-15T10:30:00Z, go: go1.24.x)"
func Info() string {
	return fmt.Sprintf("skillsctl %s (commit: %s, built: %s, go: %s)",
		Version, shortCommit(Commit), BuildDate, runtime.Version())
}

// Full returns a multi-line verbose version output.
func Full() string {
	b := Get()
	return fmt.Sprintf(`skillsctl %s
  Commit:     %s
  Built:      %s
  Go version: %s
  OS/Arch:    %s`,
		b.Version, b.Commit, b.BuildDate, b.GoVersion, b.Platform)
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}

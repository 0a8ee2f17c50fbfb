// Package version carries build metadata injected via -ldflags.
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// Short returns a compact build identifier for window titles and logs.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if GitSHA != "" && GitSHA != "unknown" {
		if len(GitSHA) > 7 {
			return GitSHA[:7]
		}
		return GitSHA
	}
	return "dev"
}

// String formats the full build identity for -version output.
func String() string {
	return fmt.Sprintf("ledviz %s (commit %s, built %s)", Version, GitSHA, BuildTime)
}

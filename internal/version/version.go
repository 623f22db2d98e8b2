// Package version holds build information injected via ldflags.
package version

var (
	// Version is the release version, set at build time.
	Version = "dev"
	// Commit is the git commit hash, set at build time.
	Commit = "unknown"
	// BuildTime is the build timestamp, set at build time.
	BuildTime = "unknown"
)

// String returns a human-readable version line.
func String() string {
	return Version + " (" + Commit + ", built " + BuildTime + ")"
}

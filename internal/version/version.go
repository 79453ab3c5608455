// Package version exposes build information injected at link time.
package version

// Set via -ldflags "-X github.com/neox5/signalbox/internal/version.version=..."
var (
	version = "dev"
	commit  = "none"
)

// String returns the human-readable version.
func String() string {
	if commit == "none" {
		return version
	}
	return version + " (" + commit + ")"
}

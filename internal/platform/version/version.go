package version

import "runtime"

// Build information, injected via ldflags at build time
var (
	// Version is reported by the health endpoint
	Version = "4.16.1"
	// Commit is the git commit SHA
	Commit = "unknown"
)

// Info holds build information
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

// Get returns the current build information
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
	}
}

// Package version reports what build of the gateway is running
package version

// Stamped at build time:
//
//	go build -ldflags "-X 'coedit/internal/core/version.version=v0.1.0' \
//	  -X 'coedit/internal/core/version.commit=abc123' \
//	  -X 'coedit/internal/core/version.date=2026-08-29'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// BuildInfo is the payload the meta version endpoint returns
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info snapshots the stamped build identity
func Info() BuildInfo {
	return BuildInfo{
		Service: "coedit-gateway",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

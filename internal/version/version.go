// Package version exposes build metadata set via ldflags.
package version

// Set at build time:
//
//	go build -ldflags "-X github.com/kailas-cloud/chromactl/internal/version.Version=v0.2.0 ..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

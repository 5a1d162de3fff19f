// internal/version/version.go

// Package version holds the build version, set at link time with
// -ldflags "-X fastadiff/internal/version.Version=...".
package version

// Version is the release string reported by --version.
var Version = "dev"

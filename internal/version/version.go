// Package version holds the release string; release builds override it with
// -ldflags "-X ava/internal/version.Version=...".
package version

var Version = "0.4.0-dev"

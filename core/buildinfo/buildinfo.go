// Package buildinfo carries version metadata stamped into the binary.
package buildinfo

// Set via -ldflags at build time:
//
//	-X 'github.com/m3rciful/potzbot/core/buildinfo.Version=v0.4.0'
//	-X 'github.com/m3rciful/potzbot/core/buildinfo.Commit=1f2e3d4'
//	-X 'github.com/m3rciful/potzbot/core/buildinfo.Date=2026-10-01T18:00:00Z'
var (
	// Version reports the release tag of the build.
	Version = "dev"
	// Commit reports the source commit used for the build.
	Commit = "local"
	// Date reports the build timestamp in RFC3339 format.
	Date = ""
)

// String renders version and commit for startup banners and /help footers.
func String() string {
	if Commit == "" || Commit == "local" {
		return Version
	}
	return Version + "+" + Commit
}

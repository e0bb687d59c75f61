// Package buildinfo reports which tubetrend build is running.
//
// Release builds stamp the variables through ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/tubetrend/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/tubetrend/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/tubetrend/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with `go install github.com/matzehuels/tubetrend/cmd/tubetrend@v1.0.0`
// carry no ldflags; for those the module version and VCS stamp embedded by
// the toolchain fill in whatever was left at its default.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Defaults for builds without ldflags.
const (
	defaultVersion = "dev"
	defaultCommit  = "none"
	defaultDate    = "unknown"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = defaultVersion

	// Commit is the git commit SHA.
	Commit = defaultCommit

	// Date is the build timestamp.
	Date = defaultDate
)

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		fill(bi)
	}
}

// fill copies what bi knows into the variables still at their defaults.
func fill(bi *debug.BuildInfo) {
	if Version == defaultVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == defaultCommit {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == defaultDate {
				Date = s.Value
			}
		}
	}
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

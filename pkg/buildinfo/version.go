// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/cubicleview/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/cubicleview/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the git revision.
	Commit = "none"
	// Date is the build time in RFC 3339.
	Date = "unknown"
)

// Revision returns Commit, falling back to the VCS revision recorded by the
// Go toolchain when the binary was built without ldflags.
func Revision() string {
	if Commit != "none" {
		return Commit
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return Commit
}

// String returns a multi-line description of the build.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\ngo: %s", Version, Revision(), Date, runtime.Version())
}

// UserAgent identifies cubicleview in outgoing requests and server headers.
func UserAgent() string {
	return "cubicleview/" + Version
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, Revision(), Date)
}

// Package version carries the build metadata stamped into the sigil
// binary via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the release tag, or "dev" for local builds.
	Version = "dev"

	// Commit is the git revision the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Info formats the version line printed by "sigil version".
func Info() string {
	return fmt.Sprintf("sigil %s (commit %s, built %s with %s %s/%s)",
		Version, shortCommit(), Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func shortCommit() string {
	if len(Commit) > 8 {
		return Commit[:8]
	}
	return Commit
}

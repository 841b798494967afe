// Package version holds build information set with -ldflags.
package version

import (
	"fmt"
	"runtime"
	"time"
)

var (
	Version   = "dev"                           // ex: v0.1.0
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version()               // go version
)

// String renders every field on one line, prefixed by the binary name.
func String(binary string) string {
	return fmt.Sprintf("%s %s (commit=%s, built=%s, go=%s)",
		binary, Version, Commit, BuildDate, GoVersion)
}

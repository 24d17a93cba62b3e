package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via -ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders build metadata for `gavpi version`.
func String() string {
	return fmt.Sprintf("gavpi %s (commit=%s, date=%s, go=%s)", resolved(), Commit, Date, runtime.Version())
}

// resolved falls back to the module version recorded by `go install`.
func resolved() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

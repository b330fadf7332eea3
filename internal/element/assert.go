package element

import "fmt"

// Assert checks an internal invariant when enabled is true (wired to
// Config.ValidateRuntime) and panics with a descriptive message if cond is
// false; when enabled is false it does nothing.
// Disabled by default so a release build pays nothing for these checks, per
// spec §7's "internal invariants... debug-only assertions."
func Assert(enabled, cond bool, format string, args ...any) {
	if enabled && !cond {
		panic(fmt.Sprintf("reactorx: assertion failed: "+format, args...))
	}
}

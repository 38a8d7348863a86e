package ai

import "sync/atomic"

// debugLoggingEnabled gates per-decision trace logging of the scripted
// policy. Simulations run thousands of turns, so the level check alone is
// not free enough.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables decision tracing.
// Called once from main after the log level is known.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled reports whether decision tracing is on.
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}

//go:build !tinygo

package dmx

// intState is a placeholder for interrupt state on regular Go
type intState uintptr

// disableInterrupts is a no-op on regular Go (for testing)
func disableInterrupts() intState {
	return 0
}

// restoreInterrupts is a no-op on regular Go (for testing)
func restoreInterrupts(state intState) {
	// No-op
}

// Package dmx implements a DMX512 frame receiver as a byte-at-a-time state
// machine, suitable for driving from a UART receive interrupt. The decoder
// captures a configurable window of consecutive channel slots out of the
// universe and hands completed frames to a cooperative consumer through an
// atomic snapshot, so the consumer never observes a partially written frame.
package dmx

// DMX512-A line parameters. The physical layer is assumed demodulated into
// byte-level UART reception; a frame break surfaces as a framing error on the
// byte that follows it.
const (
	// BaudRate is the DMX512 bit rate (8 data bits, no parity, 2 stop bits).
	BaudRate = 250000

	// StartCode is the null start code that precedes dimmer channel data.
	StartCode = 0x00

	// MaxChannels is the number of channel slots in one universe.
	MaxChannels = 512

	// MaxValue is the full-scale channel level.
	MaxValue = 255
)

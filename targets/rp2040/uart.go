//go:build rp2040

package main

// UART0 receives the DMX stream at 250000 baud, 8N2. TinyGo's machine.UART
// discards per-byte error flags, so the receive path programs the PL011
// directly: each read of the data register carries the error bits for that
// byte, which is how a DMX break surfaces.

import (
	"device/rp"
	"machine"
	"runtime/interrupt"

	"dmxservo/dmx"
)

const (
	// UARTDR error flags (bits 8-11 of a 32-bit read)
	uartDRFramingError = 1 << 8
	uartDRBreakError   = 1 << 10

	// UARTLCR_H
	uartLCRStopBits2 = 1 << 3
	uartLCRFIFOEn    = 1 << 4
	uartLCRWordLen8  = 3 << 5

	// UARTCR
	uartCREnable   = 1 << 0
	uartCRRXEnable = 1 << 9

	// UARTIMSC / UARTICR
	uartIntRX        = 1 << 4
	uartIntRXTimeout = 1 << 6

	// UARTFR
	uartFRRXEmpty = 1 << 4
)

// dmxReceiver is the decoder fed from the interrupt handler. Set once before
// the interrupt is enabled, never reassigned afterwards.
var dmxReceiver *dmx.Receiver

// initDMXUART configures UART0 for DMX reception and enables the RX interrupt.
func initDMXUART(rx *dmx.Receiver) {
	dmxReceiver = rx

	dmxRXPin.Configure(machine.PinConfig{Mode: machine.PinUART})

	u := rp.UART0
	u.UARTCR.Set(0) // disable while configuring

	// 250000 baud from the 125MHz peripheral clock:
	// divider = 125e6 / (16 * 250000) = 31.25, so IBRD=31, FBRD=0.25*64=16
	u.UARTIBRD.Set(31)
	u.UARTFBRD.Set(16)

	// 8 data bits, no parity, 2 stop bits, FIFOs enabled
	u.UARTLCR_H.Set(uartLCRWordLen8 | uartLCRStopBits2 | uartLCRFIFOEn)

	// Interrupt on RX FIFO level and on receive timeout; the timeout case
	// delivers trailing bytes that never reach the FIFO threshold
	u.UARTIMSC.Set(uartIntRX | uartIntRXTimeout)

	u.UARTCR.Set(uartCREnable | uartCRRXEnable)

	intr := interrupt.New(rp.IRQ_UART0_IRQ, handleDMXIRQ)
	intr.Enable()
}

// drBoundary reports whether a UARTDR read marks a frame boundary for the
// decoder. The PL011 reports a line held low past a full word time through the
// break-error bit, loading a single zero character; a break straddling a
// character in flight shows up as a framing error instead. Overrun and parity
// errors are not boundaries.
func drBoundary(dr uint32) bool {
	return dr&(uartDRBreakError|uartDRFramingError) != 0
}

// handleDMXIRQ drains the RX FIFO into the decoder. One Feed per byte; the
// decoder runs to completion and never blocks.
func handleDMXIRQ(interrupt.Interrupt) {
	u := rp.UART0
	for u.UARTFR.Get()&uartFRRXEmpty == 0 {
		dr := u.UARTDR.Get()
		dmxReceiver.Feed(byte(dr), drBoundary(dr))
	}
	u.UARTICR.Set(uartIntRX | uartIntRXTimeout)
}

//go:build rp2040

package main

// DMX servo node configuration
// All build-time parameters and hardware mappings

import (
	"machine"

	"dmxservo/core"
)

const (
	// NumChannels is the count of consecutive DMX channels mapped to servos
	NumChannels = 12

	// Servo calibration in degrees. DMX level 0 maps to ServoMinDegrees,
	// level 255 to ServoMaxDegrees.
	ServoMinDegrees = 23
	ServoMaxDegrees = 158

	// NoiseFloor: channel levels above this count as activity
	NoiseFloor = 10

	// DumpInterval: every Nth consumed frame is echoed to the console when
	// debug output is enabled
	DumpInterval = 50

	// StatusInterval: loop ticks between receiver statistics reports
	StatusInterval = 5000

	// LinkTimeoutTicks: loop ticks without a consumed frame before the
	// status LED falls back to the no-signal pattern
	LinkTimeoutTicks = 1000
)

// --- Hardware Mappings ---
const (
	dmxRXPin = machine.GPIO1 // UART0 RX behind the RS-485 transceiver

	statusLEDPin   = core.GPIOPin(25) // onboard LED: link status
	activityLEDPin = core.GPIOPin(11) // channel activity

	testTXJumperPin = core.GPIOPin(12) // ground to enable the bench transmitter
	testTXPin       = machine.GPIO0    // UART-shaped DMX test pattern output
)

// Base-address DIP switches, LSB first. Switches pull to ground when on.
var addressPins = []core.GPIOPin{2, 3, 4, 5, 6, 7, 8, 9, 10}

// Servo outputs. Adjacent pins share a PWM slice on the RP2040; that is fine
// here because every slice runs the same 20ms servo period.
var servoPins = [NumChannels]machine.Pin{
	machine.GPIO13, machine.GPIO14, machine.GPIO15, machine.GPIO16,
	machine.GPIO17, machine.GPIO18, machine.GPIO19, machine.GPIO20,
	machine.GPIO21, machine.GPIO22, machine.GPIO23, machine.GPIO24,
}

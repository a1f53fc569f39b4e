//go:build rp2040

package main

import (
	"machine"
)

// InitConsole initializes the diagnostic console
// TinyGo routes machine.Serial to USB CDC-ACM on the RP2040
func InitConsole() {
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

// consoleWriteLine writes one diagnostic line to the console
// Registered as the core debug writer; never called from interrupt context
func consoleWriteLine(s string) {
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte("\r\n"))
}

package core

import "errors"

// BaseAddressBits is the switch count needed to cover the full universe.
const BaseAddressBits = 9

var ErrSwitchCount = errors.New("core: need between 1 and 9 address switch pins")

// ReadBaseAddress decodes the base-address DIP switches through the GPIO
// driver. Pins are ordered LSB first. Inputs are configured with pull-ups and
// a switch ties its pin to ground when on, so a low reading is a 1 bit.
//
// The address is read once at startup and fixed for the process lifetime;
// changing the switches afterwards has no effect until the next power cycle.
func ReadBaseAddress(gpio GPIODriver, pins []GPIOPin) (uint16, error) {
	if len(pins) == 0 || len(pins) > BaseAddressBits {
		return 0, ErrSwitchCount
	}

	var addr uint16
	for i, pin := range pins {
		if err := gpio.ConfigureInputPullUp(pin); err != nil {
			return 0, err
		}
		high, err := gpio.GetPin(pin)
		if err != nil {
			return 0, err
		}
		if !high {
			addr |= 1 << i
		}
	}
	return addr, nil
}

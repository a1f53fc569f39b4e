//go:build rp2040

package main

import (
	"errors"

	"machine"
	"tinygo.org/x/drivers/servo"
)

// Servo pulse calibration: 0 degrees = 1000us, 180 degrees = 2000us.
const (
	servoMinPulseUS = 1000
	servoMaxPulseUS = 2000
	servoRangeDeg   = 180
)

var (
	errTooManyChannels = errors.New("more channels than servo pins")
	errBadChannel      = errors.New("servo channel out of range")
)

// ServoActuatorDriver implements core.ActuatorDriver on the RP2040 hardware
// PWM slices through the servo driver. Positions are degrees.
type ServoActuatorDriver struct {
	servos []servo.Servo
}

// NewServoActuatorDriver creates an unconfigured servo driver.
func NewServoActuatorDriver() *ServoActuatorDriver {
	return &ServoActuatorDriver{}
}

// Configure attaches one servo per channel to its assigned pin.
func (d *ServoActuatorDriver) Configure(numChannels int) error {
	if numChannels > len(servoPins) {
		return errTooManyChannels
	}

	d.servos = make([]servo.Servo, numChannels)
	for i := 0; i < numChannels; i++ {
		s, err := servo.New(pwmForPin(servoPins[i]), servoPins[i])
		if err != nil {
			return err
		}
		d.servos[i] = s
	}
	return nil
}

// SetPosition drives one servo to the given angle in degrees.
func (d *ServoActuatorDriver) SetPosition(channel int, position uint8) error {
	if channel < 0 || channel >= len(d.servos) {
		return errBadChannel
	}

	us := servoMinPulseUS + int(position)*(servoMaxPulseUS-servoMinPulseUS)/servoRangeDeg
	d.servos[channel].SetMicroseconds(int16(us))
	return nil
}

// pwmForPin returns the PWM slice that serves a GPIO pin.
// RP2040: GPIO pin N belongs to slice (N >> 1) & 0x7.
func pwmForPin(pin machine.Pin) servo.PWM {
	switch (uint32(pin) >> 1) & 0x7 {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

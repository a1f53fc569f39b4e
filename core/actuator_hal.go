package core

// ActuatorDriver is the abstract positional-output interface the update loop
// drives. Platform-specific implementations convert a position into the
// physical signal (servo pulse, DAC level, ...); core code only computes the
// target value.
type ActuatorDriver interface {
	// Configure prepares numChannels independently addressable outputs.
	// Returns error if the hardware cannot provide that many outputs.
	Configure(numChannels int) error

	// SetPosition drives output channel to the given target position. The
	// position is already calibrated into the actuator's working range.
	SetPosition(channel int, position uint8) error
}

// Global singleton used by core code.
var actuatorDriver ActuatorDriver

// SetActuatorDriver is called by target-specific code to register its driver.
func SetActuatorDriver(d ActuatorDriver) {
	actuatorDriver = d
}

// MustActuator returns the configured driver or panics if missing.
func MustActuator() ActuatorDriver {
	if actuatorDriver == nil {
		panic("actuator driver not configured")
	}
	return actuatorDriver
}

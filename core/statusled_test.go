package core

import "testing"

func TestStatusLEDSteadyPatterns(t *testing.T) {
	gpio := NewMockGPIODriver()
	led, err := NewStatusLED(gpio, 25)
	if err != nil {
		t.Fatalf("NewStatusLED failed: %v", err)
	}

	led.SetPattern(LEDOn)
	led.Tick()
	if !gpio.outputs[25] {
		t.Error("expected LED on after LEDOn tick")
	}

	led.SetPattern(LEDOff)
	led.Tick()
	if gpio.outputs[25] {
		t.Error("expected LED off after LEDOff tick")
	}
}

func TestStatusLEDSlowBlink(t *testing.T) {
	gpio := NewMockGPIODriver()
	led, err := NewStatusLED(gpio, 25)
	if err != nil {
		t.Fatalf("NewStatusLED failed: %v", err)
	}

	led.SetPattern(LEDSlowBlink)
	for i := uint32(0); i < slowBlinkTicks-1; i++ {
		led.Tick()
	}
	if gpio.outputs[25] {
		t.Error("LED toggled before the slow blink period elapsed")
	}
	led.Tick()
	if !gpio.outputs[25] {
		t.Error("LED did not toggle at the slow blink period")
	}

	for i := uint32(0); i < slowBlinkTicks; i++ {
		led.Tick()
	}
	if gpio.outputs[25] {
		t.Error("LED did not toggle back after a full period")
	}
}

func TestStatusLEDPatternChangeResetsPhase(t *testing.T) {
	gpio := NewMockGPIODriver()
	led, err := NewStatusLED(gpio, 25)
	if err != nil {
		t.Fatalf("NewStatusLED failed: %v", err)
	}

	led.SetPattern(LEDSlowBlink)
	for i := 0; i < 100; i++ {
		led.Tick()
	}
	led.SetPattern(LEDFastBlink)
	for i := uint32(0); i < fastBlinkTicks-1; i++ {
		led.Tick()
	}
	if gpio.outputs[25] {
		t.Error("pattern change did not reset the blink phase")
	}
	led.Tick()
	if !gpio.outputs[25] {
		t.Error("fast blink did not toggle at its period")
	}
}

package core

// Status LED patterns. The LED is advanced from the cooperative loop; Tick is
// expected roughly once per millisecond but nothing breaks at other rates,
// the blink periods just scale with the loop cadence.
type LEDPattern uint8

const (
	LEDOff LEDPattern = iota
	LEDOn
	LEDSlowBlink // no DMX signal
	LEDFastBlink // fault indication
)

const (
	slowBlinkTicks = 250
	fastBlinkTicks = 50
)

// StatusLED drives one indicator pin through the GPIO driver.
type StatusLED struct {
	gpio    GPIODriver
	pin     GPIOPin
	pattern LEDPattern
	ticks   uint32
	lit     bool
}

// NewStatusLED configures the pin as an output, initially off.
func NewStatusLED(gpio GPIODriver, pin GPIOPin) (*StatusLED, error) {
	if err := gpio.ConfigureOutput(pin); err != nil {
		return nil, err
	}
	if err := gpio.SetPin(pin, false); err != nil {
		return nil, err
	}
	return &StatusLED{gpio: gpio, pin: pin}, nil
}

// SetPattern switches the blink pattern. Steady patterns take effect on the
// next Tick.
func (l *StatusLED) SetPattern(p LEDPattern) {
	if l.pattern == p {
		return
	}
	l.pattern = p
	l.ticks = 0
}

// Tick advances the pattern by one loop iteration.
func (l *StatusLED) Tick() {
	switch l.pattern {
	case LEDOff:
		l.set(false)
	case LEDOn:
		l.set(true)
	case LEDSlowBlink:
		l.blink(slowBlinkTicks)
	case LEDFastBlink:
		l.blink(fastBlinkTicks)
	}
}

func (l *StatusLED) blink(period uint32) {
	l.ticks++
	if l.ticks >= period {
		l.ticks = 0
		l.set(!l.lit)
	}
}

func (l *StatusLED) set(lit bool) {
	if lit == l.lit {
		return
	}
	if err := l.gpio.SetPin(l.pin, lit); err != nil {
		return
	}
	l.lit = lit
}

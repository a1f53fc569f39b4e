//go:build rp2040

package main

import (
	"sync/atomic"
	"time"

	"dmxservo/core"
	"dmxservo/dmx"
)

// breakSeen is set from the receive interrupt on every DMX break and drained
// by the main loop for link supervision.
var breakSeen uint32

// ledIndicator drives the channel-activity LED from the update loop.
type ledIndicator struct {
	gpio core.GPIODriver
	pin  core.GPIOPin
}

func (l *ledIndicator) ChannelActivity(active bool) {
	l.gpio.SetPin(l.pin, active)
}

func main() {
	InitConsole()
	core.SetDebugWriter(consoleWriteLine)
	core.SetDebugEnabled(true)

	gpio := NewRPGPIODriver()
	core.SetGPIODriver(gpio)

	statusLED, err := core.NewStatusLED(gpio, statusLEDPin)
	if err != nil {
		return
	}

	// The base address is read once at boot; changing the switches requires
	// a power cycle.
	baseAddr, err := core.ReadBaseAddress(gpio, addressPins)
	if err != nil {
		fail(statusLED, "address switches: "+err.Error())
	}

	rx, err := dmx.New(dmx.Config{BaseAddress: baseAddr, NumChannels: NumChannels})
	if err != nil {
		fail(statusLED, "receiver: "+err.Error())
	}
	rx.SetBreakFunc(func() {
		atomic.StoreUint32(&breakSeen, 1)
	})

	servos := NewServoActuatorDriver()
	if err := servos.Configure(NumChannels); err != nil {
		fail(statusLED, "servos: "+err.Error())
	}
	core.SetActuatorDriver(servos)

	if err := gpio.ConfigureOutput(activityLEDPin); err != nil {
		fail(statusLED, "activity led: "+err.Error())
	}
	core.SetIndicator(&ledIndicator{gpio: gpio, pin: activityLEDPin})

	mapper, err := core.NewMapper(core.MapperConfig{
		NumChannels:  NumChannels,
		PositionMin:  ServoMinDegrees,
		PositionMax:  ServoMaxDegrees,
		NoiseFloor:   NoiseFloor,
		DumpInterval: DumpInterval,
	}, rx)
	if err != nil {
		fail(statusLED, "mapper: "+err.Error())
	}

	initDMXUART(rx)

	// Bench transmitter when the jumper grounds its pin.
	gpio.ConfigureInputPullUp(testTXJumperPin)
	if jumper, err := gpio.GetPin(testTXJumperPin); err == nil && !jumper {
		if tx, err := newDMXTestTransmitter(testTXPin); err == nil {
			core.DebugPrintln("[BOOT] bench transmitter enabled")
			go runTestPattern(tx, NumChannels)
		}
	}

	core.DebugPrintln("[BOOT] dmxservo base=" + utoa(uint32(baseAddr)) +
		" start=" + utoa(uint32(rx.Config().StartAddress())) +
		" channels=" + utoa(NumChannels))

	var (
		lastFrames uint32
		staleTicks uint32
		breakTicks uint32
		ticks      uint32
	)

	// Cooperative loop: poll the mapper, supervise the link, tick the LEDs.
	for {
		// Recover from panics to keep the node driving its outputs
		func() {
			defer func() {
				if r := recover(); r != nil {
					statusLED.SetPattern(core.LEDFastBlink)
				}
			}()

			mapper.RunOnce()

			if atomic.SwapUint32(&breakSeen, 0) != 0 {
				breakTicks = 0
			} else if breakTicks < LinkTimeoutTicks {
				breakTicks++
			}

			if f := mapper.FramesConsumed(); f != lastFrames {
				lastFrames = f
				staleTicks = 0
				statusLED.SetPattern(core.LEDOn)
			} else if staleTicks < LinkTimeoutTicks {
				staleTicks++
			} else if breakTicks < LinkTimeoutTicks {
				// Breaks arrive but the window never fills: the console is
				// sending fewer channels than this node is addressed for.
				statusLED.SetPattern(core.LEDFastBlink)
			} else {
				statusLED.SetPattern(core.LEDSlowBlink)
			}

			statusLED.Tick()

			ticks++
			if ticks%StatusInterval == 0 {
				reportStats(rx, mapper)
			}
		}()

		time.Sleep(time.Millisecond)
	}
}

// fail reports an unrecoverable setup error and parks with the fault pattern.
// Decode errors never land here; everything after boot self-heals.
func fail(led *core.StatusLED, msg string) {
	core.DebugPrintln("[FAIL] " + msg)
	led.SetPattern(core.LEDFastBlink)
	for {
		led.Tick()
		time.Sleep(time.Millisecond)
	}
}

// reportStats emits one receiver statistics line to the console.
func reportStats(rx *dmx.Receiver, mapper *core.Mapper) {
	stats := rx.Stats()
	core.DebugPrintln("[STAT] breaks=" + utoa(stats.Breaks) +
		" frames=" + utoa(stats.Frames) +
		" badstart=" + utoa(stats.BadStartCodes) +
		" resets=" + utoa(stats.FramingResets) +
		" consumed=" + utoa(mapper.FramesConsumed()) +
		" driveerrs=" + utoa(mapper.DriveErrors()))
}

// utoa converts an unsigned integer to a string without importing strconv
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[pos:])
}

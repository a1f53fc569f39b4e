//go:build rp2040

package main

// Bench test transmitter using tinygo-org/pio
// Generates a DMX frame train (break, mark-after-break, start code, ramp
// pattern) on a spare pin, for loopback testing without a lighting console.
// The UART cannot generate the long break condition; the PIO state machine
// paired with software break timing can.

import (
	"machine"
	"time"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"dmxservo/dmx"
)

// PIO serial transmit program, 8 data bits, 2 stop bits, LSB first.
//
// Program flow:
//  1. Pull one byte from the FIFO (stalls with the line idle high)
//  2. Drive the start bit for 8 PIO ticks
//  3. Shift out 8 data bits, 8 ticks each
//  4. Drive two stop bits, then wrap to the next pull
//
// buildDMXTxProgram creates the transmit PIO program using AssemblerV0
func buildDMXTxProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),                    // 0: pull block
		asm.Set(rp2pio.SetDestPins, 0).Delay(7).Encode(),  // 1: start bit [8 ticks]
		asm.Set(rp2pio.SetDestX, 7).Encode(),              // 2: bit counter
		// bitloop:
		asm.Out(rp2pio.OutDestPins, 1).Delay(6).Encode(),  // 3: data bit [7 ticks]
		asm.Jmp(3, rp2pio.JmpXNZeroDec).Encode(),          // 4: jmp x--, 3 [1 tick]
		asm.Set(rp2pio.SetDestPins, 1).Delay(14).Encode(), // 5: stop bits [15 ticks]
		// .wrap
	}
}

const dmxTxPIOOrigin = 0 // Load at offset 0 for correct jump addresses

// dmxTestTransmitter drives the test pattern pin from PIO0.
type dmxTestTransmitter struct {
	pio *rp2pio.PIO
	sm  rp2pio.StateMachine
	pin machine.Pin
}

// newDMXTestTransmitter claims a PIO0 state machine and loads the program.
func newDMXTestTransmitter(pin machine.Pin) (*dmxTestTransmitter, error) {
	tx := &dmxTestTransmitter{
		pio: rp2pio.PIO0,
		pin: pin,
	}
	tx.sm = tx.pio.StateMachine(0)
	tx.sm.TryClaim()

	program := buildDMXTxProgram()
	offset, err := tx.pio.AddProgram(program, dmxTxPIOOrigin)
	if err != nil {
		return nil, err
	}

	tx.pin.Configure(machine.PinConfig{Mode: tx.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(tx.pin, 1)
	cfg.SetOutPins(tx.pin, 1)

	// Shift right, no autopull: UART sends LSB first
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	// 8 PIO ticks per bit at 250kbaud: 125MHz / (250000 * 8) = 62.5
	cfg.SetClkDivIntFrac(62, 128)

	tx.sm.Init(offset, cfg)
	tx.sm.SetPindirsConsecutive(tx.pin, 1, true)
	tx.sm.SetPinsConsecutive(tx.pin, 1, true) // line idles high

	return tx, nil
}

// sendFrame transmits one complete DMX frame: break, mark-after-break, null
// start code, then the channel slots.
func (tx *dmxTestTransmitter) sendFrame(slots []byte) {
	// Break and mark-after-break are software timed; the state machine is
	// parked while the line is held outside its control.
	tx.sm.SetEnabled(false)
	tx.sm.SetPinsConsecutive(tx.pin, 1, false)
	time.Sleep(100 * time.Microsecond) // break, DMX512 requires at least 88us
	tx.sm.SetPinsConsecutive(tx.pin, 1, true)
	time.Sleep(12 * time.Microsecond) // mark after break
	tx.sm.SetEnabled(true)

	tx.put(dmx.StartCode)
	for _, b := range slots {
		tx.put(b)
	}

	// Let the FIFO drain before the caller starts the next break: 11 bit
	// times per slot at 4us per bit.
	time.Sleep(time.Duration(len(slots)+1) * 11 * 4 * time.Microsecond)
}

func (tx *dmxTestTransmitter) put(b byte) {
	for tx.sm.IsTxFIFOFull() {
		// Busy wait - the FIFO drains at wire speed
	}
	tx.sm.TxPut(uint32(b))
}

// runTestPattern transmits a slow ramp on every channel forever. Runs as a
// goroutine when the bench jumper is set.
func runTestPattern(tx *dmxTestTransmitter, numChannels int) {
	slots := make([]byte, numChannels)
	level := uint8(0)
	for {
		for i := range slots {
			slots[i] = level
		}
		tx.sendFrame(slots)
		level += 5
		time.Sleep(25 * time.Millisecond)
	}
}

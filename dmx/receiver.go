package dmx

import (
	"errors"
	"sync/atomic"
)

// receiverState tracks progress through one break-to-break cycle.
type receiverState uint8

const (
	stateIdle receiverState = iota
	stateBreakDetected
	stateFrameStarted
	stateReceiving
)

var (
	ErrBaseAddress   = errors.New("dmx: base address out of range")
	ErrNumChannels   = errors.New("dmx: channel count must be at least 1")
	ErrWindowOverrun = errors.New("dmx: channel window exceeds universe")
)

// Config is resolved once at startup and passed by value into the receiver.
// It is immutable for the process lifetime.
type Config struct {
	// BaseAddress selects the window origin, in [0, 511]. The first captured
	// channel slot is BaseAddress+1 (DMX channels are 1-based).
	BaseAddress uint16

	// NumChannels is the number of consecutive slots captured per frame.
	NumChannels int
}

// StartAddress returns the first 1-based channel slot the receiver captures.
func (c Config) StartAddress() uint16 {
	return c.BaseAddress + 1
}

func (c Config) validate() error {
	if c.BaseAddress >= MaxChannels {
		return ErrBaseAddress
	}
	if c.NumChannels < 1 {
		return ErrNumChannels
	}
	if int(c.BaseAddress)+c.NumChannels > MaxChannels {
		return ErrWindowOverrun
	}
	return nil
}

// Counters holds observational totals maintained by the receiver. They have
// no effect on decoding and are reported through the diagnostic sink only.
type Counters struct {
	Breaks        uint32 // break conditions observed while idle
	Frames        uint32 // complete frames committed
	BadStartCodes uint32 // break cycles discarded for a non-zero start code
	FramingResets uint32 // framing errors outside idle (malformed frames)
}

// Receiver decodes one DMX byte per Feed call. Feed is the interrupt side;
// Snapshot is the cooperative side. No other concurrent use is supported.
type Receiver struct {
	cfg     Config
	onBreak func()

	state receiverState
	slot  uint16 // running 1-based channel slot within the current frame
	count int    // bytes captured into working for the current frame

	// working receives bytes as they arrive; on the final byte of a frame it
	// is committed to ready in one step, so ready always holds a complete
	// frame. pending flags an unconsumed commit.
	working []uint8
	ready   []uint8
	pending uint32

	counters Counters
}

// New allocates a receiver for the given window. This is the only allocation
// the receiver ever performs; Feed and Snapshot are allocation-free.
func New(cfg Config) (*Receiver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Receiver{
		cfg:     cfg,
		working: make([]uint8, cfg.NumChannels),
		ready:   make([]uint8, cfg.NumChannels),
	}, nil
}

// Config returns the window configuration the receiver was built with.
func (r *Receiver) Config() Config {
	return r.cfg
}

// SetBreakFunc installs a notification hook invoked from interrupt context on
// every break detected while idle. Install before reception starts; the hook
// must be interrupt-safe and is fire-and-forget.
func (r *Receiver) SetBreakFunc(fn func()) {
	r.onBreak = fn
}

// Feed advances the decoder by one received byte. framingErr reports the
// hardware framing-error indication for that byte: a DMX break is longer than
// a stop bit, so the byte following a break arrives with a framing error.
//
// Feed runs to completion and must only be called from the interrupt context.
func (r *Receiver) Feed(b byte, framingErr bool) {
	if framingErr {
		if r.state == stateIdle {
			// Frame boundary. Re-arm and wait for the start code.
			r.slot = 0
			r.counters.Breaks++
			if r.onBreak != nil {
				r.onBreak()
			}
			r.state = stateBreakDetected
			return
		}
		// Framing error mid-frame: malformed or interrupted frame. Discard
		// silently; the next break restarts decoding.
		r.counters.FramingResets++
		r.state = stateIdle
		return
	}

	switch r.state {
	case stateIdle:
		// Line noise or channel data outside a tracked frame.

	case stateBreakDetected:
		if b != StartCode {
			// Alternate start code (RDM, text, ...): discard the whole cycle.
			r.counters.BadStartCodes++
			r.state = stateIdle
			return
		}
		r.state = stateFrameStarted

	case stateFrameStarted:
		// Channel slots before the window are consumed to keep protocol
		// position but never buffered.
		r.slot++
		if r.slot == r.cfg.StartAddress() {
			r.count = 0
			r.capture(b)
		}

	case stateReceiving:
		r.capture(b)

	default:
		r.state = stateIdle
	}
}

// capture stores one in-window byte and commits the frame once the window is
// full. DMX has no end-of-frame marker at this layer; completion is inferred
// by counting exactly NumChannels bytes past the start address.
func (r *Receiver) capture(b byte) {
	r.working[r.count] = b
	r.count++
	if r.count < r.cfg.NumChannels {
		r.state = stateReceiving
		return
	}
	copy(r.ready, r.working)
	atomic.StoreUint32(&r.pending, 1)
	r.counters.Frames++
	r.state = stateIdle
}

// Pending reports whether a committed frame is waiting to be consumed.
func (r *Receiver) Pending() bool {
	return atomic.LoadUint32(&r.pending) != 0
}

// Snapshot copies the most recently committed frame into dst and clears the
// pending flag. It returns false without touching dst when nothing new has
// been committed since the last call. The copy runs with interrupts masked so
// a frame committing mid-copy cannot tear the data; with NumChannels bounded
// by the universe size the masked section stays short.
func (r *Receiver) Snapshot(dst []uint8) bool {
	if atomic.LoadUint32(&r.pending) == 0 {
		return false
	}
	mask := disableInterrupts()
	copy(dst, r.ready)
	atomic.StoreUint32(&r.pending, 0)
	restoreInterrupts(mask)
	return true
}

// Stats returns a copy of the observational counters.
func (r *Receiver) Stats() Counters {
	return r.counters
}

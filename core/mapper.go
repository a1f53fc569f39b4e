// Channel mapping and update loop.
// Consumes committed DMX frames and redrives every actuator with a linearly
// remapped target position.
package core

import (
	"errors"

	"dmxservo/dmx"
)

var (
	ErrCalibration     = errors.New("core: calibration minimum not below maximum")
	ErrChannelMismatch = errors.New("core: channel count does not match receiver window")
)

// MapperConfig holds the fixed calibration for the actuator type in use.
// Resolved once at startup, immutable afterwards.
type MapperConfig struct {
	NumChannels int

	// PositionMin and PositionMax bound the actuator working range. A DMX
	// level of 0 maps exactly to PositionMin and 255 exactly to PositionMax.
	PositionMin uint8
	PositionMax uint8

	// NoiseFloor is the level a channel must exceed to count as active for
	// the indicator.
	NoiseFloor uint8

	// DumpInterval emits the full channel buffer through the debug writer
	// every DumpInterval-th consumed frame. 0 disables dumping.
	DumpInterval uint32
}

func (c MapperConfig) validate() error {
	if c.PositionMin >= c.PositionMax {
		return ErrCalibration
	}
	return nil
}

// MapPosition remaps a DMX level into the actuator range using truncating
// integer division. The endpoints map exactly: 0 to min, 255 to max, and the
// result is non-decreasing in v. The clamp cannot trigger with byte-ranged
// input; it guards the contract if the arithmetic ever changes.
func MapPosition(v, min, max uint8) uint8 {
	span := uint32(max) - uint32(min)
	pos := uint32(min) + uint32(v)*span/dmx.MaxValue
	if pos > uint32(max) {
		pos = uint32(max)
	}
	return uint8(pos)
}

// Mapper is the cooperative half of the receiver/consumer pair. RunOnce polls
// the receiver and never blocks; with no committed frame it has no side
// effects at all.
type Mapper struct {
	cfg MapperConfig
	rx  *dmx.Receiver

	snap   []uint8
	frames uint32

	// driveErrors counts actuator driver failures. Driving continues with
	// the remaining channels; there are no fatal errors in this loop.
	driveErrors uint32
}

// NewMapper builds the update loop for a receiver. The mapper owns its
// snapshot buffer; the per-frame drive path is allocation-free.
func NewMapper(cfg MapperConfig, rx *dmx.Receiver) (*Mapper, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.NumChannels != rx.Config().NumChannels {
		return nil, ErrChannelMismatch
	}
	return &Mapper{
		cfg:  cfg,
		rx:   rx,
		snap: make([]uint8, cfg.NumChannels),
	}, nil
}

// RunOnce performs one update cycle. It returns false immediately when no new
// frame is pending; otherwise it consumes the frame, drives every actuator
// with its remapped target and reports channel activity. Unchanged levels are
// redriven like any other: the loop recomputes every channel on every
// consumed frame.
func (m *Mapper) RunOnce() bool {
	if !m.rx.Snapshot(m.snap) {
		return false
	}

	drv := MustActuator()
	active := false
	for i, v := range m.snap {
		if err := drv.SetPosition(i, MapPosition(v, m.cfg.PositionMin, m.cfg.PositionMax)); err != nil {
			m.driveErrors++
		}
		if v > m.cfg.NoiseFloor {
			active = true
		}
	}
	activityIndicator.ChannelActivity(active)

	m.frames++
	if m.cfg.DumpInterval > 0 && m.frames%m.cfg.DumpInterval == 0 {
		m.dumpFrame()
	}
	return true
}

// FramesConsumed returns how many frames the loop has driven so far.
func (m *Mapper) FramesConsumed() uint32 {
	return m.frames
}

// DriveErrors returns how many individual channel drives have failed.
func (m *Mapper) DriveErrors() uint32 {
	return m.driveErrors
}

// dumpFrame emits the consumed channel buffer to the diagnostic sink. Purely
// observational; the line format is parsed by the host monitor.
func (m *Mapper) dumpFrame() {
	msg := "[DMX] frame=" + utoa(m.frames) + " levels="
	for i, v := range m.snap {
		if i > 0 {
			msg += ","
		}
		msg += hex8(v)
	}
	DebugPrintln(msg)
}

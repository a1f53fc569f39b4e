package core

import (
	"strings"
	"testing"

	"dmxservo/dmx"
)

// MockActuatorDriver records every drive call for inspection.
type MockActuatorDriver struct {
	numChannels int
	calls       []driveCall
}

type driveCall struct {
	channel  int
	position uint8
}

func (m *MockActuatorDriver) Configure(numChannels int) error {
	m.numChannels = numChannels
	return nil
}

func (m *MockActuatorDriver) SetPosition(channel int, position uint8) error {
	m.calls = append(m.calls, driveCall{channel, position})
	return nil
}

// MockIndicator records the activity signal per cycle.
type MockIndicator struct {
	history []bool
}

func (m *MockIndicator) ChannelActivity(active bool) {
	m.history = append(m.history, active)
}

func newTestPair(t *testing.T, rxCfg dmx.Config, mCfg MapperConfig) (*dmx.Receiver, *Mapper, *MockActuatorDriver) {
	t.Helper()

	rx, err := dmx.New(rxCfg)
	if err != nil {
		t.Fatalf("dmx.New failed: %v", err)
	}

	drv := &MockActuatorDriver{}
	SetActuatorDriver(drv)

	m, err := NewMapper(mCfg, rx)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	return rx, m, drv
}

// feedFrame pushes one synthetic break cycle into the receiver.
func feedFrame(rx *dmx.Receiver, slots []byte) {
	rx.Feed(0x00, true)
	rx.Feed(dmx.StartCode, false)
	for _, b := range slots {
		rx.Feed(b, false)
	}
}

func TestMapPositionEndpoints(t *testing.T) {
	tests := []struct {
		min, max uint8
	}{
		{0, 255},
		{23, 158},
		{0, 180},
		{90, 91},
	}

	for _, test := range tests {
		if got := MapPosition(0, test.min, test.max); got != test.min {
			t.Errorf("MapPosition(0, %d, %d): expected %d, got %d", test.min, test.max, test.min, got)
		}
		if got := MapPosition(255, test.min, test.max); got != test.max {
			t.Errorf("MapPosition(255, %d, %d): expected %d, got %d", test.min, test.max, test.max, got)
		}
	}
}

func TestMapPositionMonotonic(t *testing.T) {
	prev := MapPosition(0, 23, 158)
	for v := 1; v <= 255; v++ {
		cur := MapPosition(uint8(v), 23, 158)
		if cur < prev {
			t.Fatalf("MapPosition not non-decreasing at v=%d: %d < %d", v, cur, prev)
		}
		prev = cur
	}
}

func TestMapPositionTruncates(t *testing.T) {
	// floor(128/255*135)+23 = 67+23 = 90
	if got := MapPosition(128, 23, 158); got != 90 {
		t.Errorf("MapPosition(128, 23, 158): expected 90, got %d", got)
	}
}

func TestRunOnceWithoutPendingHasNoSideEffects(t *testing.T) {
	rx, m, drv := newTestPair(t,
		dmx.Config{BaseAddress: 0, NumChannels: 4},
		MapperConfig{NumChannels: 4, PositionMin: 23, PositionMax: 158, NoiseFloor: 10})

	if m.RunOnce() {
		t.Error("RunOnce reported work with no frame pending")
	}
	if len(drv.calls) != 0 {
		t.Errorf("expected no drive calls, got %d", len(drv.calls))
	}

	// Consume a frame, then invoke again with the flag clear.
	feedFrame(rx, []byte{0, 0, 0, 0})
	if !m.RunOnce() {
		t.Fatal("expected RunOnce to consume the frame")
	}
	calls := len(drv.calls)
	if m.RunOnce() {
		t.Error("second RunOnce must be a no-op")
	}
	if len(drv.calls) != calls {
		t.Errorf("second RunOnce produced %d extra drive calls", len(drv.calls)-calls)
	}
}

func TestRunOnceDrivesEveryChannel(t *testing.T) {
	rx, m, drv := newTestPair(t,
		dmx.Config{BaseAddress: 0, NumChannels: 12},
		MapperConfig{NumChannels: 12, PositionMin: 23, PositionMax: 158, NoiseFloor: 10})

	slots := make([]byte, 12)
	slots[0] = 128
	slots[11] = 255
	feedFrame(rx, slots)

	if !m.RunOnce() {
		t.Fatal("expected RunOnce to consume the frame")
	}
	if len(drv.calls) != 12 {
		t.Fatalf("expected 12 drive calls, got %d", len(drv.calls))
	}
	if drv.calls[0] != (driveCall{0, 90}) {
		t.Errorf("channel 0: expected position 90, got %+v", drv.calls[0])
	}
	if drv.calls[11] != (driveCall{11, 158}) {
		t.Errorf("channel 11: expected position 158, got %+v", drv.calls[11])
	}
	for i := 1; i < 11; i++ {
		if drv.calls[i] != (driveCall{i, 23}) {
			t.Errorf("channel %d: expected position 23, got %+v", i, drv.calls[i])
		}
	}
}

func TestAlwaysRedrives(t *testing.T) {
	// Two consecutive frames with identical levels produce two identical
	// drive calls; there is no deduplication.
	rx, m, drv := newTestPair(t,
		dmx.Config{BaseAddress: 0, NumChannels: 1},
		MapperConfig{NumChannels: 1, PositionMin: 0, PositionMax: 255, NoiseFloor: 10})

	feedFrame(rx, []byte{200})
	if !m.RunOnce() {
		t.Fatal("first frame not consumed")
	}
	feedFrame(rx, []byte{200})
	if !m.RunOnce() {
		t.Fatal("second frame not consumed")
	}

	if len(drv.calls) != 2 {
		t.Fatalf("expected 2 drive calls, got %d", len(drv.calls))
	}
	if drv.calls[0] != drv.calls[1] {
		t.Errorf("expected identical calls, got %+v and %+v", drv.calls[0], drv.calls[1])
	}
}

func TestActivityIndicator(t *testing.T) {
	rx, m, _ := newTestPair(t,
		dmx.Config{BaseAddress: 0, NumChannels: 3},
		MapperConfig{NumChannels: 3, PositionMin: 0, PositionMax: 180, NoiseFloor: 10})

	ind := &MockIndicator{}
	SetIndicator(ind)
	defer SetIndicator(nil)

	feedFrame(rx, []byte{0, 10, 0}) // at the floor is not above it
	m.RunOnce()
	feedFrame(rx, []byte{0, 11, 0})
	m.RunOnce()
	feedFrame(rx, []byte{0, 0, 0})
	m.RunOnce()

	want := []bool{false, true, false}
	if len(ind.history) != len(want) {
		t.Fatalf("expected %d indicator updates, got %d", len(want), len(ind.history))
	}
	for i, w := range want {
		if ind.history[i] != w {
			t.Errorf("cycle %d: expected activity %v, got %v", i, w, ind.history[i])
		}
	}
}

func TestDiagnosticDumpCadence(t *testing.T) {
	rx, m, _ := newTestPair(t,
		dmx.Config{BaseAddress: 0, NumChannels: 2},
		MapperConfig{NumChannels: 2, PositionMin: 0, PositionMax: 180, NoiseFloor: 10, DumpInterval: 2})

	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	SetDebugEnabled(true)
	defer SetDebugEnabled(false)

	for i := 0; i < 4; i++ {
		feedFrame(rx, []byte{byte(i), 0xFF})
		if !m.RunOnce() {
			t.Fatalf("frame %d not consumed", i)
		}
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 dump lines for 4 frames at interval 2, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "[DMX] frame=2 levels=01,ff") {
		t.Errorf("unexpected dump line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[DMX] frame=4 levels=03,ff") {
		t.Errorf("unexpected dump line: %q", lines[1])
	}
}

func TestNewMapperValidation(t *testing.T) {
	rx, err := dmx.New(dmx.Config{BaseAddress: 0, NumChannels: 4})
	if err != nil {
		t.Fatalf("dmx.New failed: %v", err)
	}

	if _, err := NewMapper(MapperConfig{NumChannels: 4, PositionMin: 100, PositionMax: 100}, rx); err != ErrCalibration {
		t.Errorf("expected ErrCalibration, got %v", err)
	}
	if _, err := NewMapper(MapperConfig{NumChannels: 8, PositionMin: 0, PositionMax: 180}, rx); err != ErrChannelMismatch {
		t.Errorf("expected ErrChannelMismatch, got %v", err)
	}
}

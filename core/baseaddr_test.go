package core

import (
	"testing"
)

// MockGPIODriver is a test implementation of GPIODriver
type MockGPIODriver struct {
	outputs map[GPIOPin]bool
	inputs  map[GPIOPin]bool // pin level as read; missing pins read high (pull-up)
}

func NewMockGPIODriver() *MockGPIODriver {
	return &MockGPIODriver{
		outputs: make(map[GPIOPin]bool),
		inputs:  make(map[GPIOPin]bool),
	}
}

func (m *MockGPIODriver) ConfigureOutput(pin GPIOPin) error {
	m.outputs[pin] = false
	return nil
}

func (m *MockGPIODriver) ConfigureInputPullUp(pin GPIOPin) error {
	if _, ok := m.inputs[pin]; !ok {
		m.inputs[pin] = true
	}
	return nil
}

func (m *MockGPIODriver) ConfigureInputPullDown(pin GPIOPin) error {
	if _, ok := m.inputs[pin]; !ok {
		m.inputs[pin] = false
	}
	return nil
}

func (m *MockGPIODriver) SetPin(pin GPIOPin, value bool) error {
	m.outputs[pin] = value
	return nil
}

func (m *MockGPIODriver) GetPin(pin GPIOPin) (bool, error) {
	if v, ok := m.inputs[pin]; ok {
		return v, nil
	}
	return m.outputs[pin], nil
}

func TestReadBaseAddress(t *testing.T) {
	pins := []GPIOPin{2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		name string
		low  []GPIOPin // switches turned on (pin grounded)
		want uint16
	}{
		{"all off", nil, 0},
		{"address 1", []GPIOPin{2}, 1},
		{"address 5", []GPIOPin{2, 4}, 5},
		{"address 256", []GPIOPin{10}, 256},
		{"address 511", []GPIOPin{2, 3, 4, 5, 6, 7, 8, 9, 10}, 511},
	}

	for _, test := range tests {
		gpio := NewMockGPIODriver()
		for _, pin := range test.low {
			gpio.inputs[pin] = false
		}

		addr, err := ReadBaseAddress(gpio, pins)
		if err != nil {
			t.Errorf("%s: ReadBaseAddress failed: %v", test.name, err)
			continue
		}
		if addr != test.want {
			t.Errorf("%s: expected address %d, got %d", test.name, test.want, addr)
		}
	}
}

func TestReadBaseAddressPinCount(t *testing.T) {
	gpio := NewMockGPIODriver()

	if _, err := ReadBaseAddress(gpio, nil); err != ErrSwitchCount {
		t.Errorf("expected ErrSwitchCount for no pins, got %v", err)
	}

	tooMany := make([]GPIOPin, 10)
	if _, err := ReadBaseAddress(gpio, tooMany); err != ErrSwitchCount {
		t.Errorf("expected ErrSwitchCount for 10 pins, got %v", err)
	}
}

package contracts

import "errors"

// MIDI system realtime messages used to drive an external device from a Clock.
const (
	TimingClock byte = 0xF8
	StartMsg    byte = 0xFA
	ContinueMsg byte = 0xFB
	StopMsg     byte = 0xFC
)

// Errors shared by every ClockOutput backend.
var (
	ErrNoMIDIDevices     = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
	ErrNoDeviceSelected  = errors.New("no MIDI device selected")
	ErrUnavailable       = errors.New("MIDI output is not available on this platform")
)

// ClockOutput defines an interface for sending clock messages to a MIDI destination.
type ClockOutput interface {
	ListDevices() ([]DeviceInfo, error) // Lists all available MIDI destinations.
	SelectDevice(deviceID int) error    // Opens a destination by its ID.
	Send(msg []byte) error              // Sends a raw message to the selected destination.
	Stop() error                        // Closes the destination and releases resources.
}

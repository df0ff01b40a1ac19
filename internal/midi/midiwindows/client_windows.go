//go:build windows
// +build windows

package midiwindows

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/leandrodaf/midiclock/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type HMIDIOUT windows.Handle

// CALLBACK_NULL opens a device without a completion callback.
const CALLBACK_NULL = 0x00000000

// Struct representing MIDI output device capabilities (MIDIOUTCAPSW)
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// ClientOut sends clock messages through winmm on Windows
type ClientOut struct {
	logger   contracts.Logger
	handle   HMIDIOUT
	portConn bool
	mu       sync.Mutex
}

// Load the winmm.dll library and required functions
var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procMidiOutGetNumDevs = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen       = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg   = winmm.NewProc("midiOutShortMsg")
	procMidiOutReset      = winmm.NewProc("midiOutReset")
	procMidiOutClose      = winmm.NewProc("midiOutClose")
)

// NewClockOutput creates a winmm clock output
func NewClockOutput(options *contracts.OutputOptions) (contracts.ClockOutput, error) {
	if err := winmm.Load(); err != nil {
		return nil, fmt.Errorf("loading winmm.dll: %w", err)
	}
	options.Logger.Info("winmm clock output created")

	return &ClientOut{
		logger: options.Logger,
	}, nil
}

// ListDevices lists the available MIDI output devices
func (m *ClientOut) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		m.logger.Warn(contracts.ErrNoMIDIDevices.Error())
		return nil, contracts.ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			m.logger.Warn("Failed to get information for MIDI device", m.logger.Field().Int("deviceID", int(i)))
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		devices = append(devices, contracts.DeviceInfo{
			ID:           int(i),
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	return devices, nil
}

// SelectDevice opens a MIDI output device, closing the previous one
func (m *ClientOut) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r0, _, _ := procMidiOutGetNumDevs.Call()
	if deviceID < 0 || deviceID >= int(uint32(r0)) {
		m.logger.Error(contracts.ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return fmt.Errorf("%w: %d", contracts.ErrInvalidMIDIDevice, deviceID)
	}

	if m.portConn {
		if err := m.closeDevice(); err != nil {
			return fmt.Errorf("failed to close previous MIDI device: %w", err)
		}
	}

	r1, _, err := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&m.handle)),
		uintptr(deviceID),
		0,
		0,
		CALLBACK_NULL,
	)
	if r1 != 0 {
		m.logger.Error("Failed to open MIDI device",
			m.logger.Field().Int("deviceID", deviceID),
			m.logger.Field().Uint64("mmresult", uint64(r1)))
		return fmt.Errorf("failed to open MIDI device %d: %v", deviceID, err)
	}

	m.portConn = true
	m.logger.Info("MIDI device connected", m.logger.Field().Int("deviceID", deviceID))
	return nil
}

// Send packs a message of up to three bytes into a short message
func (m *ClientOut) Send(msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.portConn {
		return contracts.ErrNoDeviceSelected
	}
	if len(msg) == 0 || len(msg) > 3 {
		return fmt.Errorf("short MIDI message must be 1 to 3 bytes, got %d", len(msg))
	}

	var packed uintptr
	for i, b := range msg {
		packed |= uintptr(b) << (8 * i)
	}
	r1, _, err := procMidiOutShortMsg.Call(uintptr(m.handle), packed)
	if r1 != 0 {
		return fmt.Errorf("midiOutShortMsg failed (%d): %v", r1, err)
	}
	return nil
}

// Stop resets and closes the device
func (m *ClientOut) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.portConn {
		return nil
	}

	if err := m.closeDevice(); err != nil {
		return fmt.Errorf("failed to close MIDI device: %w", err)
	}
	m.logger.Info("MIDI device closed")
	return nil
}

// closeDevice releases the handle
func (m *ClientOut) closeDevice() error {
	if m.handle == 0 {
		return fmt.Errorf("invalid MIDI device handle")
	}

	procMidiOutReset.Call(uintptr(m.handle))

	r1, _, err := procMidiOutClose.Call(uintptr(m.handle))
	if r1 != 0 {
		m.logger.Error("Failed to close MIDI device", m.logger.Field().Uint64("mmresult", uint64(r1)))
		return err
	}

	m.portConn = false
	m.handle = 0
	return nil
}

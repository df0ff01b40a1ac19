//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/midiclock/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// ErrCreateOutputPort is returned when CoreMIDI refuses to create the output port.
var ErrCreateOutputPort = errors.New("error creating output port")

// ClientOut sends clock messages to a CoreMIDI destination on Darwin (macOS).
type ClientOut struct {
	logger     contracts.Logger
	client     coremidi.Client     // CoreMIDI client instance for MIDI operations.
	outputPort coremidi.OutputPort // Port every message is sent through.

	mu          sync.Mutex
	destination *coremidi.Destination // Selected destination; nil until SelectDevice succeeds.
}

// NewClockOutput creates a CoreMIDI client and its output port.
func NewClockOutput(options *contracts.OutputOptions) (contracts.ClockOutput, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}

	port, err := coremidi.NewOutputPort(client, "Clock Out")
	if err != nil {
		options.Logger.Error(ErrCreateOutputPort.Error(), options.Logger.Field().Error("error", err))
		return nil, fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
	}
	options.Logger.Info("CoreMIDI clock output created",
		options.Logger.Field().String("clientName", options.CoreMIDIConfig.ClientName))

	return &ClientOut{
		logger:     options.Logger,
		client:     client,
		outputPort: port,
	}, nil
}

// ListDevices retrieves and returns the available MIDI destinations.
func (m *ClientOut) ListDevices() ([]contracts.DeviceInfo, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	if len(destinations) == 0 {
		m.logger.Warn(contracts.ErrNoMIDIDevices.Error())
		return nil, contracts.ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(destinations))
	for i, destination := range destinations {
		entity := destination.Entity()
		devices[i] = contracts.DeviceInfo{
			ID:           i,
			Name:         destination.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice selects the destination with index deviceID.
func (m *ClientOut) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI destinations: %w", err)
	}
	if deviceID < 0 || deviceID >= len(destinations) {
		m.logger.Error(contracts.ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return fmt.Errorf("%w: %d", contracts.ErrInvalidMIDIDevice, deviceID)
	}

	destination := destinations[deviceID]
	m.destination = &destination
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", destination.Name()))
	return nil
}

// Send delivers msg to the selected destination as a single packet.
func (m *ClientOut) Send(msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.destination == nil {
		return contracts.ErrNoDeviceSelected
	}
	packet := coremidi.NewPacket(msg, 0)
	return packet.Send(&m.outputPort, m.destination)
}

// Stop releases the selected destination. It is a soft release: the CoreMIDI
// client and its output port stay registered until the process exits, and a
// later SelectDevice reuses them.
func (m *ClientOut) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.destination != nil {
		m.destination = nil
		m.logger.Info("MIDI destination released")
	}
	return nil
}

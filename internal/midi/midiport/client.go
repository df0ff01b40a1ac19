// Package midiport sends clock messages through whichever gomidi driver the
// program registered, e.g. rtmididrv.
package midiport

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/midiclock/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ClientOut is a ClockOutput backed by a gomidi output port.
type ClientOut struct {
	logger contracts.Logger
	outs   func() []drivers.Out // Enumerates the driver's output ports.

	mu   sync.Mutex
	port drivers.Out
	send func(gomidi.Message) error
}

// NewClockOutput creates an output over the registered gomidi driver. Without a
// registered driver the port list is empty and ListDevices reports ErrNoMIDIDevices.
func NewClockOutput(options *contracts.OutputOptions) (contracts.ClockOutput, error) {
	return newClient(options.Logger, func() []drivers.Out { return gomidi.GetOutPorts() }), nil
}

func newClient(logger contracts.Logger, outs func() []drivers.Out) *ClientOut {
	logger.Info("gomidi clock output created")
	return &ClientOut{logger: logger, outs: outs}
}

// ListDevices returns the driver's output ports.
func (c *ClientOut) ListDevices() ([]contracts.DeviceInfo, error) {
	outs := c.outs()
	if len(outs) == 0 {
		c.logger.Warn(contracts.ErrNoMIDIDevices.Error())
		return nil, contracts.ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(outs))
	for i, out := range outs {
		devices[i] = contracts.DeviceInfo{
			ID:         i,
			Name:       out.String(),
			EntityName: out.String(),
		}
	}
	return devices, nil
}

// SelectDevice opens output port deviceID, closing the previous one.
func (c *ClientOut) SelectDevice(deviceID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	outs := c.outs()
	if deviceID < 0 || deviceID >= len(outs) {
		c.logger.Error(contracts.ErrInvalidMIDIDevice.Error(), c.logger.Field().Int("deviceID", deviceID))
		return fmt.Errorf("%w: %d", contracts.ErrInvalidMIDIDevice, deviceID)
	}

	if err := c.closePort(); err != nil {
		c.logger.Warn("Failed to close previous MIDI port", c.logger.Field().Error("error", err))
	}

	port := outs[deviceID]
	send, err := gomidi.SendTo(port)
	if err != nil {
		c.logger.Error("Failed to open MIDI port",
			c.logger.Field().String("deviceName", port.String()),
			c.logger.Field().Error("error", err))
		return fmt.Errorf("opening %q: %w", port.String(), err)
	}
	c.port, c.send = port, send

	c.logger.Info("MIDI device selected",
		c.logger.Field().Int("deviceID", deviceID),
		c.logger.Field().String("deviceName", port.String()))
	return nil
}

// Send writes msg to the selected port.
func (c *ClientOut) Send(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.send == nil {
		return contracts.ErrNoDeviceSelected
	}
	return c.send(gomidi.Message(msg))
}

// Stop closes the selected port. It is safe to call more than once.
func (c *ClientOut) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port == nil {
		return nil
	}
	name := c.port.String()
	if err := c.closePort(); err != nil {
		c.logger.Error("Failed to close MIDI port", c.logger.Field().Error("error", err))
		return err
	}
	c.logger.Info("MIDI port closed", c.logger.Field().String("deviceName", name))
	return nil
}

func (c *ClientOut) closePort() error {
	if c.port == nil {
		return nil
	}
	port := c.port
	c.port, c.send = nil, nil
	if !port.IsOpen() {
		return nil
	}
	return port.Close()
}

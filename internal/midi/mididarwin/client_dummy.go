//go:build !darwin
// +build !darwin

package mididarwin

import (
	"github.com/leandrodaf/midiclock/sdk/contracts"
)

type DummyClockOutput struct {
	logger contracts.Logger
}

func NewClockOutput(options *contracts.OutputOptions) (contracts.ClockOutput, error) {
	options.Logger.Info("Using dummy CoreMIDI output for non-macOS system")
	return &DummyClockOutput{
		logger: options.Logger,
	}, nil
}

func (m *DummyClockOutput) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy CoreMIDI output")
	return nil, contracts.ErrUnavailable
}

func (m *DummyClockOutput) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy CoreMIDI output")
	return contracts.ErrUnavailable
}

func (m *DummyClockOutput) Send(msg []byte) error {
	return contracts.ErrUnavailable
}

func (m *DummyClockOutput) Stop() error {
	m.logger.Warn("Stop called on dummy CoreMIDI output")
	return nil
}

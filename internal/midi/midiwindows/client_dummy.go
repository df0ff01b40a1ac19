//go:build !windows
// +build !windows

package midiwindows

import (
	"github.com/leandrodaf/midiclock/sdk/contracts"
)

type dummyClockOutput struct {
	logger contracts.Logger
}

// NewClockOutput initializes a dummy winmm output for non-Windows systems.
func NewClockOutput(options *contracts.OutputOptions) (contracts.ClockOutput, error) {
	options.Logger.Info("Using dummy winmm output for non-Windows system")
	return &dummyClockOutput{
		logger: options.Logger,
	}, nil
}

// ListDevices logs a warning and reports that winmm is unavailable on this platform.
func (m *dummyClockOutput) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy winmm output")
	return nil, contracts.ErrUnavailable
}

// SelectDevice logs a warning and reports that winmm is unavailable on this platform.
func (m *dummyClockOutput) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy winmm output")
	return contracts.ErrUnavailable
}

// Send reports that winmm is unavailable on this platform.
func (m *dummyClockOutput) Send(msg []byte) error {
	return contracts.ErrUnavailable
}

// Stop logs a warning indicating that Stop was called on the dummy winmm output.
func (m *dummyClockOutput) Stop() error {
	m.logger.Warn("Stop called on dummy winmm output")
	return nil
}

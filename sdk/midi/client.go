package midi

import (
	"fmt"
	"strings"

	"github.com/leandrodaf/midiclock/sdk/contracts"
)

// NewClockOutput creates a MIDI clock output with the specified options.
// It applies default options, initializes the backend and, when a device name
// is configured, opens the first matching destination.
//
// opts ...contracts.OutputOption: A variadic list of option functions to customize the output configuration.
//
// Returns:
//   - contracts.ClockOutput: An instance of the clock output.
//   - error: An error, if any occurred during the creation of the output.
func NewClockOutput(opts ...contracts.OutputOption) (contracts.ClockOutput, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	output, err := NewOutput(&options)
	if err != nil {
		return nil, err
	}

	if options.DeviceName != "" {
		if err := selectByName(output, options.DeviceName); err != nil {
			return nil, err
		}
	}

	return output, nil
}

func selectByName(output contracts.ClockOutput, name string) error {
	devices, err := output.ListDevices()
	if err != nil {
		return err
	}
	id, ok := FindDevice(devices, name)
	if !ok {
		return fmt.Errorf("%w: no device matches %q", contracts.ErrInvalidMIDIDevice, name)
	}
	return output.SelectDevice(id)
}

// FindDevice returns the ID of the first device whose name contains name,
// ignoring case.
func FindDevice(devices []contracts.DeviceInfo, name string) (int, bool) {
	needle := strings.ToLower(name)
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			return d.ID, true
		}
	}
	return 0, false
}

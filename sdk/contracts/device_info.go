package contracts

// DeviceInfo describes a MIDI destination that can receive clock messages.
type DeviceInfo struct {
	ID           int    // Index accepted by ClockOutput.SelectDevice.
	Name         string // Device name.
	Manufacturer string // Device manufacturer, when the backend reports one.
	EntityName   string // Name of the entity to which the device belongs.
}

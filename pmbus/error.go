package pmbus

// Error reports a PMBus level failure on a specific device, such as an
// unsupported VOUT_MODE data format.
type Error struct {
	// Message describes the failure.
	Message string

	// DeviceID identifies the device within the configuration.
	DeviceID string

	// InventoryPath is the FRU inventory path of the device.
	InventoryPath string
}

func (e *Error) Error() string {
	return "PMBusError: " + e.Message
}

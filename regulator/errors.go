package regulator

import "fmt"

// ActionError reports a failed action execution.  It carries the failing
// action's descriptive text and nests the triggering cause, so the whole
// chain can be flattened into an error log entry.
type ActionError struct {
	// Action is the descriptive text of the failing action.
	Action string

	// Message optionally describes the specific failure.
	Message string

	// Cause is the nested lower level error, if any.
	Cause error
}

// NewActionError returns an ActionError for the specified action.
func NewActionError(action Action, message string, cause error) *ActionError {
	return &ActionError{Action: action.String(), Message: message, Cause: cause}
}

func (e *ActionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ActionError: %s: %s", e.Action, e.Message)
	}
	return "ActionError: " + e.Action
}

func (e *ActionError) Unwrap() error { return e.Cause }

// WriteVerificationError reports that a value read back from a device did
// not match the value just written, meaning the write was rejected or
// silently modified by the hardware.
type WriteVerificationError struct {
	// Message describes the mismatch.
	Message string

	// DeviceID identifies the device within the configuration.
	DeviceID string

	// InventoryPath is the FRU inventory path of the device.
	InventoryPath string
}

func (e *WriteVerificationError) Error() string {
	return "WriteVerificationError: " + e.Message
}

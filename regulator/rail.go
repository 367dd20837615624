package regulator

// Rail is one regulated output voltage of a device, independently
// configurable and monitorable.
type Rail struct {
	// ID uniquely identifies the rail within the configuration.
	ID string

	// Configuration optionally holds the actions that set the rail's
	// output condition.
	Configuration *Configuration

	// SensorMonitoring optionally holds the actions that read the rail's
	// telemetry.
	SensorMonitoring *SensorMonitoring
}

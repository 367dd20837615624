// Package service defines the external collaborators the rule engine depends
// on: VPD lookup, presence sensing, sensor publishing, error logging and
// journal logging.  The engine only ever talks to these interfaces; concrete
// implementations (D-Bus proxies, sysfs readers, in-memory fakes) are wired
// in by the surrounding application.
package service

import "github.com/google/uuid"

// Services aggregates the external collaborators for one engine instance.
type Services interface {
	VPD() VPD
	Presence() Presence
	Sensors() Sensors
	ErrorLogging() ErrorLogging
	Journal() Journal
}

// VPD retrieves Vital Product Data keywords for a field replaceable unit.
type VPD interface {
	// GetValue returns the value of the keyword for the specified FRU.
	GetValue(fru, keyword string) (string, error)

	// ClearCache discards any cached keyword values.
	ClearCache()
}

// Presence reports whether a field replaceable unit is present.
type Presence interface {
	Detected(fru string) (bool, error)
}

// SensorType identifies one kind of rail telemetry reading.
type SensorType uint8

const (
	SensorIout SensorType = iota
	SensorIoutPeak
	SensorIoutValley
	SensorPout
	SensorTemperature
	SensorTemperaturePeak
	SensorVout
	SensorVoutPeak
	SensorVoutValley
)

var sensorTypeNames = map[SensorType]string{
	SensorIout:            "iout",
	SensorIoutPeak:        "iout_peak",
	SensorIoutValley:      "iout_valley",
	SensorPout:            "pout",
	SensorTemperature:     "temperature",
	SensorTemperaturePeak: "temperature_peak",
	SensorVout:            "vout",
	SensorVoutPeak:        "vout_peak",
	SensorVoutValley:      "vout_valley",
}

// String returns the configuration file name of the sensor type.
func (t SensorType) String() string {
	if name, ok := sensorTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseSensorType maps a configuration file sensor type name to its
// SensorType value.
func ParseSensorType(name string) (SensorType, bool) {
	for sensorType, sensorName := range sensorTypeNames {
		if sensorName == name {
			return sensorType, true
		}
	}
	return 0, false
}

// Sensors publishes rail telemetry readings.  Readings are bracketed per
// rail: StartRail, zero or more SetValue calls, EndRail.
type Sensors interface {
	// StartRail begins a monitoring cycle for the specified rail.
	StartRail(rail string)

	// SetValue publishes one reading for the current rail.
	SetValue(sensorType SensorType, value float64) error

	// EndRail finishes the monitoring cycle for the current rail.
	// errorOccurred indicates whether any reading failed this cycle.
	EndRail(errorOccurred bool)
}

// Severity is the severity of an error log entry.
type Severity uint8

const (
	SeverityInformational Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// DataPair is one additional data item of an error log entry.  Pairs keep
// their insertion order so flattened error chains remain readable.
type DataPair struct {
	Key   string
	Value string
}

// Entry is one structured error log record.
type Entry struct {
	ID             uuid.UUID
	Severity       Severity
	Message        string
	AdditionalData []DataPair
}

// NewEntry returns an Entry with a freshly generated ID.
func NewEntry(severity Severity, message string, data []DataPair) Entry {
	return Entry{
		ID:             uuid.New(),
		Severity:       severity,
		Message:        message,
		AdditionalData: data,
	}
}

// ErrorLogging emits structured hardware error log entries.
type ErrorLogging interface {
	Log(entry Entry)
}

// Journal emits free-form log messages to the system journal.
type Journal interface {
	Debug(message string)
	Info(message string)
	Error(message string)

	// Errors logs each message in order, typically a flattened error chain.
	Errors(messages []string)
}

package regulator

import (
	"github.com/powerctl/regulators/errutil"
	"github.com/powerctl/regulators/i2c"
	"github.com/powerctl/regulators/service"
)

// Device is one I2C addressed hardware component declared in the
// configuration file, typically a voltage regulator.
type Device struct {
	// ID uniquely identifies the device within the configuration.
	ID string

	// IsRegulator indicates whether the device is a voltage regulator.
	// Only regulators may declare rails.
	IsRegulator bool

	// FRU is the inventory path of the field replaceable unit containing
	// the device.
	FRU string

	// I2C is the bus handle used by actions targeting this device.
	I2C i2c.Interface

	// PresenceDetection optionally determines whether the device is
	// physically present before it is configured or monitored.
	PresenceDetection *PresenceDetection

	// Configuration optionally holds the actions applied during device
	// configuration.
	Configuration *Configuration

	// Rails are the regulated outputs of the device, in configuration file
	// order.  Empty unless IsRegulator is set.
	Rails []*Rail
}

// AddToIDMap registers the device and its rails.
func (d *Device) AddToIDMap(idMap *IDMap) {
	idMap.AddDevice(d)
	for _, rail := range d.Rails {
		idMap.AddRail(rail)
	}
}

// ClearCache discards cached presence detection results.
func (d *Device) ClearCache() {
	if d.PresenceDetection != nil {
		d.PresenceDetection.ClearCache()
	}
}

// PresenceDetection determines whether a device is physically present by
// running its actions, typically a compare_presence or compare_vpd chain.
// The result is cached until ClearCache.
type PresenceDetection struct {
	Actions []Action

	present *bool
}

// IsPresent returns whether the device is present.  Execution failures are
// journaled and the device is assumed present, so a broken presence check
// never hides a device.
func (p *PresenceDetection) IsPresent(idMap *IDMap, deviceID string, services service.Services) bool {
	if p.present != nil {
		return *p.present
	}
	present := true
	env := NewEnvironment(idMap, deviceID, services)
	result, err := ExecuteActions(env, p.Actions)
	if err != nil {
		services.Journal().Errors(errutil.Messages(err))
		services.Journal().Error("Unable to determine presence of " + deviceID)
	} else {
		present = result
	}
	p.present = &present
	return present
}

// ClearCache discards the cached presence result.
func (p *PresenceDetection) ClearCache() { p.present = nil }

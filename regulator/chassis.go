package regulator

// Chassis is a physical enclosure grouping devices, identified by a
// positive number.
type Chassis struct {
	// Number identifies the chassis.  Always greater than zero; chassis 1
	// is the main enclosure.
	Number uint

	// Devices in the chassis, in configuration file order.
	Devices []*Device
}

// AddToIDMap registers the chassis devices and their rails.
func (c *Chassis) AddToIDMap(idMap *IDMap) {
	for _, device := range c.Devices {
		device.AddToIDMap(idMap)
	}
}

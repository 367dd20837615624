package regulator

import "fmt"

// IDMap holds non-owning references to the devices, rules and rails of one
// system, keyed by their configuration file ids.  The topology owns the
// entities; the map only resolves ids during action execution.
type IDMap struct {
	devices map[string]*Device
	rules   map[string]*Rule
	rails   map[string]*Rail
}

// NewIDMap returns an empty IDMap.
func NewIDMap() *IDMap {
	return &IDMap{
		devices: map[string]*Device{},
		rules:   map[string]*Rule{},
		rails:   map[string]*Rail{},
	}
}

// AddDevice registers a device by its id.  Registering an id twice keeps the
// last entity.
func (m *IDMap) AddDevice(device *Device) {
	m.devices[device.ID] = device
}

// AddRule registers a rule by its id.
func (m *IDMap) AddRule(rule *Rule) {
	m.rules[rule.ID] = rule
}

// AddRail registers a rail by its id.
func (m *IDMap) AddRail(rail *Rail) {
	m.rails[rail.ID] = rail
}

// GetDevice returns the device with the specified id.
func (m *IDMap) GetDevice(id string) (*Device, error) {
	if device, ok := m.devices[id]; ok {
		return device, nil
	}
	return nil, fmt.Errorf("Unable to find device with ID %q", id)
}

// GetRule returns the rule with the specified id.
func (m *IDMap) GetRule(id string) (*Rule, error) {
	if rule, ok := m.rules[id]; ok {
		return rule, nil
	}
	return nil, fmt.Errorf("Unable to find rule with ID %q", id)
}

// GetRail returns the rail with the specified id.
func (m *IDMap) GetRail(id string) (*Rail, error) {
	if rail, ok := m.rails[id]; ok {
		return rail, nil
	}
	return nil, fmt.Errorf("Unable to find rail with ID %q", id)
}

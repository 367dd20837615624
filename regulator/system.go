package regulator

// System is the root of the topology built from one configuration file.
// It owns the rules and chassis and maintains the id map over them.  The
// topology is read only after construction.
type System struct {
	// Rules declared at the top level of the configuration file.
	Rules []*Rule

	// Chassis in the system, in configuration file order.
	Chassis []*Chassis

	idMap *IDMap
}

// NewSystem returns a system owning the specified rules and chassis, with
// the id map built over them.
func NewSystem(rules []*Rule, chassis []*Chassis) *System {
	s := &System{Rules: rules, Chassis: chassis, idMap: NewIDMap()}
	for _, rule := range rules {
		s.idMap.AddRule(rule)
	}
	for _, c := range chassis {
		c.AddToIDMap(s.idMap)
	}
	return s
}

// IDMap returns the id registry over the system's entities.
func (s *System) IDMap() *IDMap { return s.idMap }

// ClearCache discards cached presence detection results on every device,
// forcing fresh hardware queries on the next operation.
func (s *System) ClearCache() {
	for _, c := range s.Chassis {
		for _, device := range c.Devices {
			device.ClearCache()
		}
	}
}

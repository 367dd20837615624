package regulator

import (
	"fmt"
	"sort"

	"github.com/powerctl/regulators/service"
)

// MaxRuleDepth bounds rule-within-rule recursion.  It halts cyclic or
// misconfigured rule graphs deterministically.
const MaxRuleDepth = 30

// PhaseFaultType is one kind of phase fault of a multi-phase regulator.
type PhaseFaultType uint8

const (
	// PhaseFaultN is a fault in a required phase.
	PhaseFaultN PhaseFaultType = iota

	// PhaseFaultNPlus1 is a fault in a redundant phase.
	PhaseFaultNPlus1
)

// String returns the phase fault name used in error log data.
func (t PhaseFaultType) String() string {
	if t == PhaseFaultNPlus1 {
		return "n+1"
	}
	return "n"
}

// Environment is the mutable state of one top-level operation, such as
// configuring a device or monitoring the sensors of a rail.  It is created
// fresh per operation, used by exactly one call tree and then discarded.
type Environment struct {
	idMap    *IDMap
	services service.Services

	deviceID    string
	ruleDepth   int
	volts       float64
	hasVolts    bool
	phaseFaults map[PhaseFaultType]struct{}
	dataKeys    []string
	data        map[string]string
}

// NewEnvironment returns an environment resolving ids through idMap, with
// the specified initial current device.
func NewEnvironment(idMap *IDMap, deviceID string, services service.Services) *Environment {
	return &Environment{
		idMap:       idMap,
		services:    services,
		deviceID:    deviceID,
		phaseFaults: map[PhaseFaultType]struct{}{},
		data:        map[string]string{},
	}
}

// Device resolves the current device id through the id map.
func (e *Environment) Device() (*Device, error) {
	return e.idMap.GetDevice(e.deviceID)
}

// DeviceID returns the current device id.
func (e *Environment) DeviceID() string { return e.deviceID }

// SetDeviceID changes the current device id.
func (e *Environment) SetDeviceID(id string) { e.deviceID = id }

// Rule resolves a rule id through the id map.
func (e *Environment) Rule(id string) (*Rule, error) {
	return e.idMap.GetRule(id)
}

// IncrementRuleDepth records entry into a rule call.  It fails once the
// depth exceeds MaxRuleDepth; the counter stays incremented on failure, so
// callers must pair every increment with a deferred DecrementRuleDepth.
func (e *Environment) IncrementRuleDepth(ruleID string) error {
	e.ruleDepth++
	if e.ruleDepth > MaxRuleDepth {
		return fmt.Errorf("Maximum rule depth exceeded by rule %s.", ruleID)
	}
	return nil
}

// DecrementRuleDepth records exit from a rule call.  Depth never goes below
// zero.
func (e *Environment) DecrementRuleDepth() {
	if e.ruleDepth > 0 {
		e.ruleDepth--
	}
}

// RuleDepth returns the current rule call depth.
func (e *Environment) RuleDepth() int { return e.ruleDepth }

// AddPhaseFault records an observed phase fault.  Recording the same kind
// twice has no further effect.
func (e *Environment) AddPhaseFault(fault PhaseFaultType) {
	e.phaseFaults[fault] = struct{}{}
}

// PhaseFaults returns the recorded phase fault kinds in deterministic order.
func (e *Environment) PhaseFaults() []PhaseFaultType {
	faults := make([]PhaseFaultType, 0, len(e.phaseFaults))
	for fault := range e.phaseFaults {
		faults = append(faults, fault)
	}
	sort.Slice(faults, func(i, j int) bool { return faults[i] < faults[j] })
	return faults
}

// AddAdditionalErrorData records a key/value pair for inclusion in an error
// log entry.  Insertion order is preserved; setting an existing key
// overwrites its value in place.
func (e *Environment) AddAdditionalErrorData(key, value string) {
	if _, ok := e.data[key]; !ok {
		e.dataKeys = append(e.dataKeys, key)
	}
	e.data[key] = value
}

// AdditionalErrorData returns the recorded pairs in insertion order.
func (e *Environment) AdditionalErrorData() []service.DataPair {
	pairs := make([]service.DataPair, 0, len(e.dataKeys))
	for _, key := range e.dataKeys {
		pairs = append(pairs, service.DataPair{Key: key, Value: e.data[key]})
	}
	return pairs
}

// Volts returns the last computed output voltage, if one was set.
func (e *Environment) Volts() (float64, bool) {
	return e.volts, e.hasVolts
}

// SetVolts records the output voltage for subsequent actions.
func (e *Environment) SetVolts(volts float64) {
	e.volts = volts
	e.hasVolts = true
}

// Services returns the external services collaborator.
func (e *Environment) Services() service.Services { return e.services }

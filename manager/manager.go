// Package manager drives the parsed topology: it configures devices and
// rails, runs periodic sensor monitoring, and turns execution failures into
// journal output and error log entries.  Each operation runs against a fresh
// execution environment; failures are logged and never abort the walk, so
// one broken regulator does not keep the rest of the system unpowered.
package manager

import (
	"context"
	"fmt"
	"strings"

	"github.com/powerctl/regulators/errutil"
	"github.com/powerctl/regulators/regulator"
	"github.com/powerctl/regulators/service"
	"github.com/powerctl/regulators/tracing"
)

// Manager executes top-level operations against one system.
type Manager struct {
	system   *regulator.System
	services service.Services

	// sensor monitoring error history, keyed by rail id
	histories map[string]*ErrorHistory
}

// New returns a manager for the specified system and services.
func New(system *regulator.System, services service.Services) *Manager {
	return &Manager{
		system:    system,
		services:  services,
		histories: map[string]*ErrorHistory{},
	}
}

// System returns the managed topology.
func (m *Manager) System() *regulator.System { return m.system }

// Configure applies the configuration of every present device and rail, in
// topology order.  Failures are journaled and logged per device or rail and
// the walk continues.
func (m *Manager) Configure(ctx context.Context) {
	_, span := tracing.StartSpan(ctx, "regulators.configure")
	defer tracing.EndSpan(span, nil)

	m.services.Journal().Info("Configuring system")
	for _, chassis := range m.system.Chassis {
		for _, device := range chassis.Devices {
			m.configureDevice(device)
		}
	}
}

func (m *Manager) configureDevice(device *regulator.Device) {
	if !m.isPresent(device) {
		m.services.Journal().Debug("Device " + device.ID + " is not present")
		return
	}
	if device.Configuration != nil {
		env := m.newEnvironment(device.ID)
		if err := device.Configuration.Execute(env, device.ID); err != nil {
			m.logError(env, err, "Unable to configure "+device.ID)
		}
	}
	for _, rail := range device.Rails {
		if rail.Configuration == nil {
			continue
		}
		env := m.newEnvironment(device.ID)
		if err := rail.Configuration.Execute(env, rail.ID); err != nil {
			m.logError(env, err, "Unable to configure "+rail.ID)
		}
	}
}

// MonitorSensors runs one sensor monitoring cycle over every rail that
// declares monitoring.  A failing rail is reported to the sensors service
// and logged once per error type until ClearErrorHistory.
func (m *Manager) MonitorSensors(ctx context.Context) {
	_, span := tracing.StartSpan(ctx, "regulators.monitor_sensors")
	defer tracing.EndSpan(span, nil)

	for _, chassis := range m.system.Chassis {
		for _, device := range chassis.Devices {
			if !m.isPresent(device) {
				continue
			}
			for _, rail := range device.Rails {
				if rail.SensorMonitoring == nil {
					continue
				}
				m.monitorRail(device, rail)
			}
		}
	}
}

func (m *Manager) monitorRail(device *regulator.Device, rail *regulator.Rail) {
	sensors := m.services.Sensors()
	sensors.StartRail(rail.ID)

	env := m.newEnvironment(device.ID)
	err := rail.SensorMonitoring.Execute(env)
	if err != nil {
		history := m.history(rail.ID)
		errorType := Classify(err)
		if !history.WasLogged(errorType) {
			history.SetWasLogged(errorType, true)
			m.logError(env, err, "Unable to monitor sensors of "+rail.ID)
		}
	}
	sensors.EndRail(err != nil)
}

// ClearErrorHistory forgets previously logged sensor monitoring errors, so
// persisting failures are reported again.  Called when the host is powered
// off and back on.
func (m *Manager) ClearErrorHistory() {
	m.histories = map[string]*ErrorHistory{}
}

// ClearCache discards cached hardware state: presence detection results and
// VPD keyword values.
func (m *Manager) ClearCache() {
	m.system.ClearCache()
	m.services.VPD().ClearCache()
}

func (m *Manager) newEnvironment(deviceID string) *regulator.Environment {
	return regulator.NewEnvironment(m.system.IDMap(), deviceID, m.services)
}

func (m *Manager) isPresent(device *regulator.Device) bool {
	if device.PresenceDetection == nil {
		return true
	}
	return device.PresenceDetection.IsPresent(m.system.IDMap(), device.ID, m.services)
}

func (m *Manager) history(railID string) *ErrorHistory {
	history, ok := m.histories[railID]
	if !ok {
		history = &ErrorHistory{}
		m.histories[railID] = history
	}
	return history
}

// logError journals the full nested message chain and emits one error log
// entry carrying the chain plus the environment's accumulated data.
func (m *Manager) logError(env *regulator.Environment, err error, summary string) {
	journal := m.services.Journal()
	messages := errutil.Messages(err)
	journal.Errors(messages)
	journal.Error(summary)

	data := make([]service.DataPair, 0, len(messages)+4)
	for i, message := range messages {
		data = append(data, service.DataPair{
			Key:   fmt.Sprintf("MESSAGE_%02d", i),
			Value: message,
		})
	}
	data = append(data, env.AdditionalErrorData()...)
	if faults := env.PhaseFaults(); len(faults) > 0 {
		names := make([]string, 0, len(faults))
		for _, fault := range faults {
			names = append(names, fault.String())
		}
		data = append(data, service.DataPair{Key: "PHASE_FAULTS", Value: strings.Join(names, ", ")})
	}

	entry := service.NewEntry(severity(Classify(err)), summary, data)
	m.services.ErrorLogging().Log(entry)
}

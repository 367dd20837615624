package regulator

import "strconv"

// Configuration sets a device or rail to a desired output condition by
// running its actions.  An optional target voltage is published to the
// environment before the actions run, so a pmbus_write_vout_command action
// without its own volts value picks it up.
type Configuration struct {
	// Volts is the optional target output voltage.
	Volts *float64

	// Actions run in order to apply the configuration.
	Actions []Action
}

// Execute applies the configuration against the environment.  name
// identifies the device or rail being configured in journal output.
func (c *Configuration) Execute(env *Environment, name string) error {
	journal := env.Services().Journal()
	if c.Volts != nil {
		env.SetVolts(*c.Volts)
		journal.Debug("Configuring " + name + ": volts=" + strconv.FormatFloat(*c.Volts, 'g', -1, 64))
	} else {
		journal.Debug("Configuring " + name)
	}
	_, err := ExecuteActions(env, c.Actions)
	return err
}

// SensorMonitoring reads the telemetry of one rail by running its actions.
// The actions publish readings through the sensors service.
type SensorMonitoring struct {
	Actions []Action
}

// Execute runs one monitoring cycle against the environment.  The caller
// brackets the cycle with the sensors service's StartRail and EndRail.
func (s *SensorMonitoring) Execute(env *Environment) error {
	_, err := ExecuteActions(env, s.Actions)
	return err
}

package regulators

import (
	"fmt"
	"time"
)

// Config is a serialisable representation of the engine configuration. It
// can be populated from JSON, YAML, environment variables, etc. The
// zero-value is useful - nested fields inherit their package defaults.
type Config struct {
	// ConfigFile is the URL of the JSON configuration document loaded by
	// Start.
	ConfigFile string `json:"configFile" yaml:"configFile"`

	Monitor MonitorConfig `json:"monitor" yaml:"monitor"`
}

// MonitorConfig controls periodic sensor monitoring.
type MonitorConfig struct {
	IntervalSeconds int `json:"intervalSeconds" yaml:"intervalSeconds"`
}

// Interval returns the monitoring interval, falling back to the default
// when unset.
func (c MonitorConfig) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return time.Second
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Monitor: MonitorConfig{IntervalSeconds: 1},
	}
}

// Validate returns an error describing invalid settings, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Monitor.IntervalSeconds < 0 {
		return fmt.Errorf("monitor.intervalSeconds must be >= 0")
	}
	return nil
}

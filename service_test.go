package regulators

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/powerctl/regulators/config"
	"github.com/powerctl/regulators/i2c"
	"github.com/powerctl/regulators/internal/jsonel"
	"github.com/powerctl/regulators/regulator"
	"github.com/powerctl/regulators/service"
	"github.com/powerctl/regulators/service/memory"
)

const testConfig = `{
  "rules": [
    {
      "id": "set_voltage_rule",
      "actions": [
        {"pmbus_write_vout_command": {"format": "linear", "exponent": -8}}
      ]
    }
  ],
  "chassis": [
    {
      "number": 1,
      "devices": [
        {
          "id": "vdd_regulator",
          "is_regulator": true,
          "fru": "system/chassis/motherboard/regulator1",
          "i2c_interface": {"bus": 1, "address": "0x70"},
          "rails": [
            {
              "id": "vdd",
              "configuration": {"volts": 1.3, "rule_id": "set_voltage_rule"},
              "sensor_monitoring": {
                "actions": [
                  {"pmbus_read_sensor": {"type": "vout", "command": "0x8B", "format": "linear_16", "exponent": -8}}
                ]
              }
            }
          ]
        }
      ]
    }
  ]
}`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	return path
}

func TestServiceConfigure(t *testing.T) {
	transport := i2c.NewMemTransport()
	services := memory.New()
	srv := New(
		WithServices(services),
		WithI2CFactory(func(bus uint, address uint8) i2c.Interface {
			return i2c.New(bus, address, i2c.WithTransport(transport))
		}),
	)

	ctx := context.Background()
	require.NoError(t, srv.LoadConfig(ctx, writeConfig(t)))
	require.NotNil(t, srv.System())

	require.NoError(t, srv.Configure(ctx))
	// 1.3 * 2^8 rounds to 333 = 0x014D
	assert.Equal(t, []uint8{0x4D, 0x01}, transport.Get(0x21))
}

func TestServiceMonitorSensors(t *testing.T) {
	transport := i2c.NewMemTransport()
	transport.Set(0x8B, 0x4D, 0x01)
	services := memory.New()
	srv := New(
		WithServices(services),
		WithI2CFactory(func(bus uint, address uint8) i2c.Interface {
			return i2c.New(bus, address, i2c.WithTransport(transport))
		}),
	)

	ctx := context.Background()
	require.NoError(t, srv.LoadConfig(ctx, writeConfig(t)))
	require.NoError(t, srv.MonitorSensors(ctx))

	readings := services.MemSensors().Readings()
	require.Len(t, readings, 1)
	assert.Equal(t, "vdd", readings[0].Rail)
	assert.Equal(t, service.SensorVout, readings[0].Type)
	assert.InDelta(t, 1.30078125, readings[0].Value, 1e-9)
}

func TestServiceWithoutConfig(t *testing.T) {
	srv := New()
	assert.Nil(t, srv.System())
	assert.Error(t, srv.Configure(context.Background()))
	assert.Error(t, srv.MonitorSensors(context.Background()))
}

func TestServiceLoadConfigFailure(t *testing.T) {
	srv := New()
	err := srv.LoadConfig(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	var fileErr *cfg.FileError
	assert.ErrorAs(t, err, &fileErr)
}

func TestServiceCustomAction(t *testing.T) {
	registry := cfg.NewRegistry()
	registry.Register("i2c_compare_byte", func(element *jsonel.Node) (regulator.Action, error) {
		return &regulator.SetDeviceAction{DeviceID: "stub"}, nil
	})
	srv := New(WithRegistry(registry), WithServices(memory.New()))

	path := filepath.Join(t.TempDir(), "config.json")
	document := `{
  "rules": [{"id": "check_rule", "actions": [{"i2c_compare_byte": {}}]}],
  "chassis": [{"number": 1}]
}`
	require.NoError(t, os.WriteFile(path, []byte(document), 0o644))
	require.NoError(t, srv.LoadConfig(context.Background(), path))

	rule, err := srv.System().IDMap().GetRule("check_rule")
	require.NoError(t, err)
	require.Len(t, rule.Actions, 1)
}

func TestConfigDefaults(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())
	assert.Equal(t, time.Second, config.Monitor.Interval())

	config.Monitor.IntervalSeconds = 5
	assert.Equal(t, 5*time.Second, config.Monitor.Interval())

	config.Monitor.IntervalSeconds = -1
	assert.Error(t, config.Validate())
}

func TestNewFromConfig(t *testing.T) {
	srv, err := NewFromConfig(&Config{Monitor: MonitorConfig{IntervalSeconds: 5}})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, srv.config.Monitor.Interval())

	_, err = NewFromConfig(&Config{Monitor: MonitorConfig{IntervalSeconds: -1}})
	assert.Error(t, err)
}

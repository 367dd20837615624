package regulator

import (
	"fmt"
	"strconv"

	"github.com/powerctl/regulators/pmbus"
	"github.com/powerctl/regulators/service"
)

// PMBusWriteVoutCommandAction sets the output voltage of the current device
// by writing the PMBus VOUT_COMMAND register.  The voltage comes from the
// action itself or from the environment, where a configuration publishes
// its target volts.  The exponent for the linear encoding comes from the
// action or from the device's VOUT_MODE register.
type PMBusWriteVoutCommandAction struct {
	// Volts is the optional output voltage.  When nil the environment's
	// volts value is used.
	Volts *float64

	// Format is the VOUT_COMMAND data format.  Only linear is supported.
	Format pmbus.VoutDataFormat

	// Exponent optionally fixes the linear encoding exponent, skipping the
	// VOUT_MODE read.
	Exponent *int8

	// IsVerified requests a read back of the written value.
	IsVerified bool
}

func (a *PMBusWriteVoutCommandAction) Execute(env *Environment) (bool, error) {
	device, err := env.Device()
	if err != nil {
		return false, err
	}

	volts, ok := a.voltsValue(env)
	if !ok {
		return false, NewActionError(a, "No volts value defined", nil)
	}

	exponent, err := a.exponentValue(device)
	if err != nil {
		return false, err
	}

	value := pmbus.ToVoutLinear(volts, exponent)
	if err := device.I2C.WriteWord(pmbus.VoutCommandCommand, value); err != nil {
		return false, NewActionError(a, "", err)
	}

	if a.IsVerified {
		if err := a.verifyWrite(device, value); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (a *PMBusWriteVoutCommandAction) voltsValue(env *Environment) (float64, bool) {
	if a.Volts != nil {
		return *a.Volts, true
	}
	return env.Volts()
}

func (a *PMBusWriteVoutCommandAction) exponentValue(device *Device) (int8, error) {
	if a.Exponent != nil {
		return *a.Exponent, nil
	}
	voutMode, err := device.I2C.ReadByte(pmbus.VoutModeCommand)
	if err != nil {
		return 0, NewActionError(a, "", err)
	}
	format, exponent := pmbus.ParseVoutMode(voutMode)
	if format != pmbus.VoutLinear {
		return 0, NewActionError(a, "", unsupportedVoutMode(device))
	}
	return exponent, nil
}

func unsupportedVoutMode(device *Device) *pmbus.Error {
	return &pmbus.Error{
		Message:       "VOUT_MODE contains unsupported data format",
		DeviceID:      device.ID,
		InventoryPath: device.FRU,
	}
}

func (a *PMBusWriteVoutCommandAction) verifyWrite(device *Device, written uint16) error {
	read, err := device.I2C.ReadWord(pmbus.VoutCommandCommand)
	if err != nil {
		return NewActionError(a, "", err)
	}
	if read != written {
		cause := &WriteVerificationError{
			Message: fmt.Sprintf("device: %s, register: 0x%02X, value_written: 0x%02X, value_read: 0x%02X",
				device.ID, pmbus.VoutCommandCommand, written, read),
			DeviceID:      device.ID,
			InventoryPath: device.FRU,
		}
		return NewActionError(a, "", cause)
	}
	return nil
}

func (a *PMBusWriteVoutCommandAction) String() string {
	text := "pmbus_write_vout_command: { "
	if a.Volts != nil {
		text += "volts: " + strconv.FormatFloat(*a.Volts, 'g', -1, 64) + ", "
	}
	text += "format: " + a.Format.String()
	if a.Exponent != nil {
		text += ", exponent: " + strconv.Itoa(int(*a.Exponent))
	}
	return text + fmt.Sprintf(", is_verified: %t }", a.IsVerified)
}

// PMBusReadSensorAction reads one telemetry value from the current device
// over PMBus and publishes it through the sensors service.
type PMBusReadSensorAction struct {
	// Type identifies the sensor being read.
	Type service.SensorType

	// Command is the PMBus command code to read, such as 0x8B for
	// READ_VOUT.
	Command uint8

	// Format is the data format of the two byte response.
	Format pmbus.SensorDataFormat

	// Exponent optionally fixes the linear_16 exponent, skipping the
	// VOUT_MODE read.  Ignored for linear_11, which embeds its exponent.
	Exponent *int8
}

func (a *PMBusReadSensorAction) Execute(env *Environment) (bool, error) {
	device, err := env.Device()
	if err != nil {
		return false, err
	}

	word, err := device.I2C.ReadWord(a.Command)
	if err != nil {
		return false, NewActionError(a, "", err)
	}

	var value float64
	switch a.Format {
	case pmbus.SensorLinear11:
		value = pmbus.FromLinear11(word)
	case pmbus.SensorLinear16:
		exponent, err := a.exponentValue(device)
		if err != nil {
			return false, err
		}
		value = pmbus.FromVoutLinear(word, exponent)
	default:
		return false, NewActionError(a, "Sensor has unsupported data format", nil)
	}

	if err := env.Services().Sensors().SetValue(a.Type, value); err != nil {
		return false, NewActionError(a, "", err)
	}
	return true, nil
}

func (a *PMBusReadSensorAction) exponentValue(device *Device) (int8, error) {
	if a.Exponent != nil {
		return *a.Exponent, nil
	}
	voutMode, err := device.I2C.ReadByte(pmbus.VoutModeCommand)
	if err != nil {
		return 0, NewActionError(a, "", err)
	}
	format, exponent := pmbus.ParseVoutMode(voutMode)
	if format != pmbus.VoutLinear {
		return 0, NewActionError(a, "", unsupportedVoutMode(device))
	}
	return exponent, nil
}

func (a *PMBusReadSensorAction) String() string {
	text := fmt.Sprintf("pmbus_read_sensor: { type: %s, command: 0x%02X, format: %s",
		a.Type, a.Command, a.Format)
	if a.Exponent != nil {
		text += ", exponent: " + strconv.Itoa(int(*a.Exponent))
	}
	return text + " }"
}

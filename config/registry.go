// Package config parses JSON configuration documents into the topology
// object graph.  Parsing is schema driven and strict: every element is type
// checked, every object rejects unrecognized properties, and any failure
// aborts the whole load.
package config

import (
	"errors"
	"fmt"

	"github.com/powerctl/regulators/internal/jsonel"
	"github.com/powerctl/regulators/pmbus"
	"github.com/powerctl/regulators/regulator"
	"github.com/powerctl/regulators/service"
)

// ParseFunc converts the value of one action type property into an action.
type ParseFunc func(element *jsonel.Node) (regulator.Action, error)

// Registry maps action type property names to their parsers.  The action
// set is extended by registering a parser for a new property name.
type Registry struct {
	parsers map[string]ParseFunc
}

// NewRegistry returns a registry holding the built-in action parsers.
func NewRegistry() *Registry {
	r := &Registry{parsers: map[string]ParseFunc{}}
	r.Register("run_rule", parseRunRule)
	r.Register("set_device", parseSetDevice)
	r.Register("compare_presence", parseComparePresence)
	r.Register("compare_vpd", parseCompareVPD)
	r.Register("i2c_write_bit", parseI2CWriteBit)
	r.Register("i2c_write_byte", parseI2CWriteByte)
	r.Register("i2c_write_bytes", parseI2CWriteBytes)
	r.Register("i2c_capture_bytes", parseI2CCaptureBytes)
	r.Register("pmbus_write_vout_command", parsePMBusWriteVoutCommand)
	r.Register("pmbus_read_sensor", parsePMBusReadSensor)
	return r
}

// Register binds a parser to an action type property name, replacing any
// previous binding.
func (r *Registry) Register(name string, parser ParseFunc) {
	r.parsers[name] = parser
}

// Lookup returns the parser for an action type property name.
func (r *Registry) Lookup(name string) (ParseFunc, bool) {
	parser, ok := r.parsers[name]
	return parser, ok
}

func parseRunRule(element *jsonel.Node) (regulator.Action, error) {
	ruleID, err := element.String(false)
	if err != nil {
		return nil, err
	}
	return &regulator.RunRuleAction{RuleID: ruleID}, nil
}

func parseSetDevice(element *jsonel.Node) (regulator.Action, error) {
	deviceID, err := element.String(false)
	if err != nil {
		return nil, err
	}
	return &regulator.SetDeviceAction{DeviceID: deviceID}, nil
}

func parseComparePresence(element *jsonel.Node) (regulator.Action, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0

	fruElement, err := element.Required("fru")
	if err != nil {
		return nil, err
	}
	fru, err := fruElement.String(false)
	if err != nil {
		return nil, err
	}
	consumed++

	valueElement, err := element.Required("value")
	if err != nil {
		return nil, err
	}
	value, err := valueElement.Bool()
	if err != nil {
		return nil, err
	}
	consumed++

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return &regulator.ComparePresenceAction{FRU: fru, Value: value}, nil
}

func parseCompareVPD(element *jsonel.Node) (regulator.Action, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0

	fruElement, err := element.Required("fru")
	if err != nil {
		return nil, err
	}
	fru, err := fruElement.String(false)
	if err != nil {
		return nil, err
	}
	consumed++

	keywordElement, err := element.Required("keyword")
	if err != nil {
		return nil, err
	}
	keyword, err := keywordElement.String(false)
	if err != nil {
		return nil, err
	}
	consumed++

	valueElement, err := element.Required("value")
	if err != nil {
		return nil, err
	}
	value, err := valueElement.String(true)
	if err != nil {
		return nil, err
	}
	consumed++

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return &regulator.CompareVPDAction{FRU: fru, Keyword: keyword, Value: value}, nil
}

func parseI2CWriteBit(element *jsonel.Node) (regulator.Action, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0

	registerElement, err := element.Required("register")
	if err != nil {
		return nil, err
	}
	register, err := registerElement.HexByte()
	if err != nil {
		return nil, err
	}
	consumed++

	positionElement, err := element.Required("position")
	if err != nil {
		return nil, err
	}
	position, err := positionElement.BitPosition()
	if err != nil {
		return nil, err
	}
	consumed++

	valueElement, err := element.Required("value")
	if err != nil {
		return nil, err
	}
	value, err := valueElement.BitValue()
	if err != nil {
		return nil, err
	}
	consumed++

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return &regulator.I2CWriteBitAction{Register: register, Position: position, Value: value}, nil
}

func parseI2CWriteByte(element *jsonel.Node) (regulator.Action, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0

	registerElement, err := element.Required("register")
	if err != nil {
		return nil, err
	}
	register, err := registerElement.HexByte()
	if err != nil {
		return nil, err
	}
	consumed++

	valueElement, err := element.Required("value")
	if err != nil {
		return nil, err
	}
	value, err := valueElement.HexByte()
	if err != nil {
		return nil, err
	}
	consumed++

	mask := uint8(0xFF)
	if maskElement := element.Lookup("mask"); maskElement != nil {
		if mask, err = maskElement.HexByte(); err != nil {
			return nil, err
		}
		consumed++
	}

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return &regulator.I2CWriteByteAction{Register: register, Value: value, Mask: mask}, nil
}

func parseI2CWriteBytes(element *jsonel.Node) (regulator.Action, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0

	registerElement, err := element.Required("register")
	if err != nil {
		return nil, err
	}
	register, err := registerElement.HexByte()
	if err != nil {
		return nil, err
	}
	consumed++

	valuesElement, err := element.Required("values")
	if err != nil {
		return nil, err
	}
	values, err := valuesElement.HexByteArray()
	if err != nil {
		return nil, err
	}
	if len(values) < 1 {
		return nil, errors.New("Invalid number of elements in values")
	}
	consumed++

	var masks []uint8
	if masksElement := element.Lookup("masks"); masksElement != nil {
		if masks, err = masksElement.HexByteArray(); err != nil {
			return nil, err
		}
		if len(masks) != len(values) {
			return nil, errors.New("Invalid number of elements in masks")
		}
		consumed++
	}

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return &regulator.I2CWriteBytesAction{Register: register, Values: values, Masks: masks}, nil
}

func parseI2CCaptureBytes(element *jsonel.Node) (regulator.Action, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0

	registerElement, err := element.Required("register")
	if err != nil {
		return nil, err
	}
	register, err := registerElement.HexByte()
	if err != nil {
		return nil, err
	}
	consumed++

	countElement, err := element.Required("count")
	if err != nil {
		return nil, err
	}
	count, err := countElement.Uint8()
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, errors.New("Invalid count value: Must be > 0")
	}
	consumed++

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return &regulator.I2CCaptureBytesAction{Register: register, Count: count}, nil
}

func parsePMBusWriteVoutCommand(element *jsonel.Node) (regulator.Action, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0
	action := &regulator.PMBusWriteVoutCommandAction{}

	if voltsElement := element.Lookup("volts"); voltsElement != nil {
		volts, err := voltsElement.Float64()
		if err != nil {
			return nil, err
		}
		action.Volts = &volts
		consumed++
	}

	formatElement, err := element.Required("format")
	if err != nil {
		return nil, err
	}
	format, err := formatElement.String(false)
	if err != nil {
		return nil, err
	}
	if format != "linear" {
		return nil, fmt.Errorf("Invalid format value: %s", format)
	}
	action.Format = pmbus.VoutLinear
	consumed++

	if exponentElement := element.Lookup("exponent"); exponentElement != nil {
		exponent, err := exponentElement.Int8()
		if err != nil {
			return nil, err
		}
		action.Exponent = &exponent
		consumed++
	}

	if verifiedElement := element.Lookup("is_verified"); verifiedElement != nil {
		if action.IsVerified, err = verifiedElement.Bool(); err != nil {
			return nil, err
		}
		consumed++
	}

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return action, nil
}

func parsePMBusReadSensor(element *jsonel.Node) (regulator.Action, error) {
	if err := element.VerifyObject(); err != nil {
		return nil, err
	}
	consumed := 0
	action := &regulator.PMBusReadSensorAction{}

	typeElement, err := element.Required("type")
	if err != nil {
		return nil, err
	}
	typeName, err := typeElement.String(false)
	if err != nil {
		return nil, err
	}
	sensorType, ok := service.ParseSensorType(typeName)
	if !ok {
		return nil, fmt.Errorf("Invalid sensor type: %s", typeName)
	}
	action.Type = sensorType
	consumed++

	commandElement, err := element.Required("command")
	if err != nil {
		return nil, err
	}
	if action.Command, err = commandElement.HexByte(); err != nil {
		return nil, err
	}
	consumed++

	formatElement, err := element.Required("format")
	if err != nil {
		return nil, err
	}
	format, err := formatElement.String(false)
	if err != nil {
		return nil, err
	}
	switch format {
	case "linear_11":
		action.Format = pmbus.SensorLinear11
	case "linear_16":
		action.Format = pmbus.SensorLinear16
	default:
		return nil, fmt.Errorf("Invalid format value: %s", format)
	}
	consumed++

	if exponentElement := element.Lookup("exponent"); exponentElement != nil {
		exponent, err := exponentElement.Int8()
		if err != nil {
			return nil, err
		}
		action.Exponent = &exponent
		consumed++
	}

	if err := element.VerifyPropertyCount(consumed); err != nil {
		return nil, err
	}
	return action, nil
}

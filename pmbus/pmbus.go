// Package pmbus provides the PMBus constants and numeric conversions needed
// by regulator actions: VOUT_MODE parsing and the linear data formats used to
// encode output voltages and decode sensor readings.
package pmbus

import (
	"fmt"
	"math"
)

// PMBus command codes used by the engine.
const (
	VoutModeCommand    uint8 = 0x20
	VoutCommandCommand uint8 = 0x21
)

// VoutDataFormat is the data format of the VOUT_COMMAND value, selected by
// the upper bits of VOUT_MODE.
type VoutDataFormat uint8

const (
	VoutLinear VoutDataFormat = iota
	VoutVID
	VoutDirect
	VoutIEEE
)

// String returns the configuration file name of the format.
func (f VoutDataFormat) String() string {
	switch f {
	case VoutLinear:
		return "linear"
	case VoutVID:
		return "vid"
	case VoutDirect:
		return "direct"
	case VoutIEEE:
		return "ieee"
	}
	return fmt.Sprintf("unknown(%d)", uint8(f))
}

// ParseVoutMode splits a VOUT_MODE register value into the data format
// (bits [7:5]) and the 5-bit two's complement exponent (bits [4:0]).
func ParseVoutMode(value uint8) (VoutDataFormat, int8) {
	format := VoutDataFormat((value & 0xE0) >> 5)
	exponent := int8(value & 0x1F)
	if exponent&0x10 != 0 {
		exponent |= ^int8(0x1F) // sign extend 5-bit value
	}
	return format, exponent
}

// ToVoutLinear converts a voltage into the linear VOUT_COMMAND encoding for
// the specified exponent: round(volts * 2^-exponent).
func ToVoutLinear(volts float64, exponent int8) uint16 {
	return uint16(math.Round(volts * math.Pow(2, float64(-exponent))))
}

// FromVoutLinear converts a linear format VOUT value back into volts.
func FromVoutLinear(value uint16, exponent int8) float64 {
	return float64(value) * math.Pow(2, float64(exponent))
}

// FromLinear11 decodes a linear-11 sensor reading: an 11-bit two's complement
// mantissa in the low bits and a 5-bit two's complement exponent in the high
// bits.
func FromLinear11(value uint16) float64 {
	exponent := int8(value >> 11)
	if exponent&0x10 != 0 {
		exponent |= ^int8(0x1F)
	}
	mantissa := int16(value & 0x07FF)
	if mantissa&0x0400 != 0 {
		mantissa |= ^int16(0x07FF)
	}
	return float64(mantissa) * math.Pow(2, float64(exponent))
}

// SensorDataFormat is the encoding of a PMBus sensor register.
type SensorDataFormat uint8

const (
	SensorLinear11 SensorDataFormat = iota
	SensorLinear16
)

// String returns the configuration file name of the format.
func (f SensorDataFormat) String() string {
	switch f {
	case SensorLinear11:
		return "linear_11"
	case SensorLinear16:
		return "linear_16"
	}
	return fmt.Sprintf("unknown(%d)", uint8(f))
}

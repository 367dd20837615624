package pmbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVoutMode(t *testing.T) {
	// linear format, exponent -8 (0b11000)
	format, exponent := ParseVoutMode(0x18)
	assert.Equal(t, VoutLinear, format)
	assert.Equal(t, int8(-8), exponent)

	// linear format, exponent 0
	format, exponent = ParseVoutMode(0x00)
	assert.Equal(t, VoutLinear, format)
	assert.Equal(t, int8(0), exponent)

	// linear format, positive exponent 15
	format, exponent = ParseVoutMode(0x0F)
	assert.Equal(t, VoutLinear, format)
	assert.Equal(t, int8(15), exponent)

	// vid format
	format, _ = ParseVoutMode(0x20)
	assert.Equal(t, VoutVID, format)

	// direct format
	format, _ = ParseVoutMode(0x40)
	assert.Equal(t, VoutDirect, format)
}

func TestToVoutLinear(t *testing.T) {
	// 1.30 volts with exponent -8: 1.30 * 256 = 332.8 -> 333
	assert.Equal(t, uint16(333), ToVoutLinear(1.30, -8))

	// exact value: 0.5 * 256 = 128
	assert.Equal(t, uint16(128), ToVoutLinear(0.5, -8))

	// exponent 0 rounds to nearest integer
	assert.Equal(t, uint16(2), ToVoutLinear(1.5, 0))
}

func TestFromVoutLinear(t *testing.T) {
	assert.InDelta(t, 1.30078125, FromVoutLinear(333, -8), 1e-9)
	assert.Equal(t, 0.5, FromVoutLinear(128, -8))
}

func TestFromLinear11(t *testing.T) {
	// exponent 0, mantissa 12
	assert.Equal(t, 12.0, FromLinear11(0x000C))

	// exponent -2 (0b11110 -> 0xF000), mantissa 10: 10 * 0.25 = 2.5
	assert.Equal(t, 2.5, FromLinear11(0xF00A))

	// negative mantissa: -1 * 2^0
	assert.Equal(t, -1.0, FromLinear11(0x07FF))
}

func TestFormatNames(t *testing.T) {
	assert.Equal(t, "linear", VoutLinear.String())
	assert.Equal(t, "linear_11", SensorLinear11.String())
	assert.Equal(t, "linear_16", SensorLinear16.String())
}

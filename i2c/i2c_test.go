package i2c

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	registers map[uint8][]uint8
	failure   error
}

func (t *fakeTransport) Read(register uint8, count uint8) ([]uint8, error) {
	if t.failure != nil {
		return nil, t.failure
	}
	values := t.registers[register]
	if int(count) > len(values) {
		values = append(values, make([]uint8, int(count)-len(values))...)
	}
	return values[:count], nil
}

func (t *fakeTransport) Write(register uint8, values []uint8) error {
	if t.failure != nil {
		return t.failure
	}
	t.registers[register] = append([]uint8(nil), values...)
	return nil
}

func TestNew(t *testing.T) {
	dev := New(1, 0x70)
	assert.Equal(t, uint(1), dev.Bus())
	assert.Equal(t, uint8(0x70), dev.Address())

	// no transport bound: every operation fails with *Error
	_, err := dev.ReadByte(0x21)
	var i2cErr *Error
	require.ErrorAs(t, err, &i2cErr)
	assert.Equal(t, "I2C error: no transport bound: bus 1, addr 0x70", i2cErr.Error())
}

func TestReadWrite(t *testing.T) {
	transport := &fakeTransport{registers: map[uint8][]uint8{}}
	dev := New(1, 0x70, WithTransport(transport))

	require.NoError(t, dev.WriteByte(0x0A, 0xCC))
	value, err := dev.ReadByte(0x0A)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xCC), value)

	require.NoError(t, dev.WriteBytes(0x0B, []uint8{0x01, 0x02, 0x03}))
	values, err := dev.ReadBytes(0x0B, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0x01, 0x02, 0x03}, values)
}

func TestWord(t *testing.T) {
	transport := &fakeTransport{registers: map[uint8][]uint8{}}
	dev := New(2, 0x4F, WithTransport(transport))

	// words travel least significant byte first
	require.NoError(t, dev.WriteWord(0x21, 0x014D))
	assert.Equal(t, []uint8{0x4D, 0x01}, transport.registers[0x21])

	value, err := dev.ReadWord(0x21)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x014D), value)
}

func TestTransportFailure(t *testing.T) {
	cause := errors.New("EIO")
	transport := &fakeTransport{registers: map[uint8][]uint8{}, failure: cause}
	dev := New(3, 0x11, WithTransport(transport))

	err := dev.WriteByte(0x01, 0xFF)
	var i2cErr *Error
	require.ErrorAs(t, err, &i2cErr)
	assert.Equal(t, uint(3), i2cErr.Bus)
	assert.Equal(t, uint8(0x11), i2cErr.Address)
	assert.ErrorIs(t, err, cause)
}

package regulator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powerctl/regulators/i2c"
	"github.com/powerctl/regulators/service"
)

func TestI2CWriteBitAction(t *testing.T) {
	transport := i2c.NewMemTransport()
	transport.Set(0xA0, 0x96) // 0b10010110
	env, _ := newTestEnv(newTestDevice("vdd1", transport))

	// set bit 3: 0b10010110 -> 0b10011110
	action := &I2CWriteBitAction{Register: 0xA0, Position: 3, Value: 1}
	result, err := action.Execute(env)
	require.NoError(t, err)
	assert.True(t, result)
	assert.Equal(t, []uint8{0x9E}, transport.Get(0xA0))

	// clear bit 7: 0b10011110 -> 0b00011110
	action = &I2CWriteBitAction{Register: 0xA0, Position: 7, Value: 0}
	_, err = action.Execute(env)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0x1E}, transport.Get(0xA0))

	assert.Equal(t, "i2c_write_bit: { register: 0xA0, position: 7, value: 0 }", action.String())
}

func TestI2CWriteBitActionReadFailure(t *testing.T) {
	transport := i2c.NewMemTransport()
	transport.FailReads(errors.New("bus arbitration lost"))
	env, _ := newTestEnv(newTestDevice("vdd1", transport))

	_, err := (&I2CWriteBitAction{Register: 0xA0, Position: 3, Value: 0}).Execute(env)
	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	var i2cErr *i2c.Error
	assert.ErrorAs(t, err, &i2cErr)
}

func TestI2CWriteByteAction(t *testing.T) {
	transport := i2c.NewMemTransport()
	env, _ := newTestEnv(newTestDevice("vdd1", transport))

	// full mask writes without reading first
	action := &I2CWriteByteAction{Register: 0x0A, Value: 0xCC, Mask: 0xFF}
	result, err := action.Execute(env)
	require.NoError(t, err)
	assert.True(t, result)
	assert.Equal(t, []uint8{0xCC}, transport.Get(0x0A))
	assert.Equal(t, "i2c_write_byte: { register: 0x0A, value: 0xCC, mask: 0xFF }", action.String())

	// partial mask preserves unmasked bits
	transport.Set(0x0A, 0x69) // 0b01101001
	action = &I2CWriteByteAction{Register: 0x0A, Value: 0xFF, Mask: 0x0F}
	_, err = action.Execute(env)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0x6F}, transport.Get(0x0A))
}

func TestI2CWriteByteActionWriteFailure(t *testing.T) {
	transport := i2c.NewMemTransport()
	transport.FailWrites(errors.New("device busy"))
	env, _ := newTestEnv(newTestDevice("vdd1", transport))

	_, err := (&I2CWriteByteAction{Register: 0x0A, Value: 0xCC, Mask: 0xFF}).Execute(env)
	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "i2c_write_byte: { register: 0x0A, value: 0xCC, mask: 0xFF }", actionErr.Action)
}

func TestI2CWriteBytesAction(t *testing.T) {
	transport := i2c.NewMemTransport()
	env, _ := newTestEnv(newTestDevice("vdd1", transport))

	// no masks writes values unmodified
	action := &I2CWriteBytesAction{Register: 0x80, Values: []uint8{0xCC, 0xFF}}
	result, err := action.Execute(env)
	require.NoError(t, err)
	assert.True(t, result)
	assert.Equal(t, []uint8{0xCC, 0xFF}, transport.Get(0x80))
	assert.Equal(t, "i2c_write_bytes: { register: 0x80, values: [ 0xCC, 0xFF ] }", action.String())

	// masks combine with the current register contents
	transport.Set(0x80, 0x69, 0x96)
	action = &I2CWriteBytesAction{
		Register: 0x80,
		Values:   []uint8{0xFF, 0xFF},
		Masks:    []uint8{0x0F, 0xF0},
	}
	_, err = action.Execute(env)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0x6F, 0xF6}, transport.Get(0x80))
	assert.Equal(t,
		"i2c_write_bytes: { register: 0x80, values: [ 0xFF, 0xFF ], masks: [ 0x0F, 0xF0 ] }",
		action.String())
}

func TestI2CCaptureBytesAction(t *testing.T) {
	transport := i2c.NewMemTransport()
	transport.Set(0x7A, 0xD7, 0x13)
	env, _ := newTestEnv(newTestDevice("vdd1", transport))

	action := &I2CCaptureBytesAction{Register: 0x7A, Count: 2}
	result, err := action.Execute(env)
	require.NoError(t, err)
	assert.True(t, result)

	assert.Equal(t, []service.DataPair{
		{Key: "vdd1_register_0x7A", Value: "[ 0xD7, 0x13 ]"},
	}, env.AdditionalErrorData())
	assert.Equal(t, "i2c_capture_bytes: { register: 0x7A, count: 2 }", action.String())
}

func TestI2CActionsMissingDevice(t *testing.T) {
	env, _ := newTestEnv()
	env.SetDeviceID("vdd9")

	_, err := (&I2CWriteBitAction{Register: 0xA0, Position: 0, Value: 1}).Execute(env)
	assert.EqualError(t, err, `Unable to find device with ID "vdd9"`)

	_, err = (&I2CCaptureBytesAction{Register: 0x7A, Count: 1}).Execute(env)
	assert.EqualError(t, err, `Unable to find device with ID "vdd9"`)
}

package regulator

import (
	"fmt"
	"strings"
)

func hexList(values []uint8) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, fmt.Sprintf("0x%02X", value))
	}
	return "[ " + strings.Join(parts, ", ") + " ]"
}

// I2CWriteBitAction writes one bit of a register on the current device,
// preserving the other bits with a read-modify-write.
type I2CWriteBitAction struct {
	// Register is the device register address.
	Register uint8

	// Position is the bit position, 0 through 7.
	Position uint8

	// Value is the bit value to write, 0 or 1.
	Value uint8
}

func (a *I2CWriteBitAction) Execute(env *Environment) (bool, error) {
	device, err := env.Device()
	if err != nil {
		return false, err
	}
	value, err := device.I2C.ReadByte(a.Register)
	if err != nil {
		return false, NewActionError(a, "", err)
	}
	if a.Value == 1 {
		value |= 1 << a.Position
	} else {
		value &^= 1 << a.Position
	}
	if err := device.I2C.WriteByte(a.Register, value); err != nil {
		return false, NewActionError(a, "", err)
	}
	return true, nil
}

func (a *I2CWriteBitAction) String() string {
	return fmt.Sprintf("i2c_write_bit: { register: 0x%02X, position: %d, value: %d }",
		a.Register, a.Position, a.Value)
}

// I2CWriteByteAction writes one byte to a register on the current device.
// A mask narrower than 0xFF preserves the unmasked bits with a
// read-modify-write.
type I2CWriteByteAction struct {
	// Register is the device register address.
	Register uint8

	// Value is the byte to write.
	Value uint8

	// Mask selects the bits to change.  0xFF writes the whole byte.
	Mask uint8
}

func (a *I2CWriteByteAction) Execute(env *Environment) (bool, error) {
	device, err := env.Device()
	if err != nil {
		return false, err
	}
	value := a.Value
	if a.Mask != 0xFF {
		current, err := device.I2C.ReadByte(a.Register)
		if err != nil {
			return false, NewActionError(a, "", err)
		}
		value = (current &^ a.Mask) | (a.Value & a.Mask)
	}
	if err := device.I2C.WriteByte(a.Register, value); err != nil {
		return false, NewActionError(a, "", err)
	}
	return true, nil
}

func (a *I2CWriteByteAction) String() string {
	return fmt.Sprintf("i2c_write_byte: { register: 0x%02X, value: 0x%02X, mask: 0x%02X }",
		a.Register, a.Value, a.Mask)
}

// I2CWriteBytesAction writes a byte sequence starting at a register on the
// current device.  When masks are supplied, each byte is combined with the
// current device contents before writing.
type I2CWriteBytesAction struct {
	// Register is the starting device register address.
	Register uint8

	// Values are the bytes to write, in register order.
	Values []uint8

	// Masks select the bits to change per byte.  Empty means write all
	// bytes unmodified; otherwise the length equals len(Values).
	Masks []uint8
}

func (a *I2CWriteBytesAction) Execute(env *Environment) (bool, error) {
	device, err := env.Device()
	if err != nil {
		return false, err
	}
	values := a.Values
	if len(a.Masks) > 0 {
		current, err := device.I2C.ReadBytes(a.Register, uint8(len(a.Values)))
		if err != nil {
			return false, NewActionError(a, "", err)
		}
		values = make([]uint8, len(a.Values))
		for i := range a.Values {
			values[i] = (current[i] &^ a.Masks[i]) | (a.Values[i] & a.Masks[i])
		}
	}
	if err := device.I2C.WriteBytes(a.Register, values); err != nil {
		return false, NewActionError(a, "", err)
	}
	return true, nil
}

func (a *I2CWriteBytesAction) String() string {
	text := fmt.Sprintf("i2c_write_bytes: { register: 0x%02X, values: %s", a.Register, hexList(a.Values))
	if len(a.Masks) > 0 {
		text += ", masks: " + hexList(a.Masks)
	}
	return text + " }"
}

// I2CCaptureBytesAction reads bytes from a register on the current device
// and records them as additional error data, capturing fault registers for
// the error log entry that ends the operation.
type I2CCaptureBytesAction struct {
	// Register is the starting device register address.
	Register uint8

	// Count is the number of bytes to capture.  Always at least one.
	Count uint8
}

func (a *I2CCaptureBytesAction) Execute(env *Environment) (bool, error) {
	device, err := env.Device()
	if err != nil {
		return false, err
	}
	values, err := device.I2C.ReadBytes(a.Register, a.Count)
	if err != nil {
		return false, NewActionError(a, "", err)
	}
	key := fmt.Sprintf("%s_register_0x%02X", device.ID, a.Register)
	env.AddAdditionalErrorData(key, hexList(values))
	return true, nil
}

func (a *I2CCaptureBytesAction) String() string {
	return fmt.Sprintf("i2c_capture_bytes: { register: 0x%02X, count: %d }", a.Register, a.Count)
}

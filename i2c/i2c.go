// Package i2c defines the abstract I2C interface used to communicate with a
// regulator device.  The engine performs register reads and writes through
// this interface only; the concrete bus transport (ioctl, D-Bus proxy, test
// double) is supplied by the surrounding application.
package i2c

import "fmt"

// Interface is the per-device I2C access used by actions.  A device is bound
// to one bus number and one 7-bit address for its whole lifetime.
type Interface interface {
	// Bus returns the I2C bus number.
	Bus() uint

	// Address returns the 7-bit device address.
	Address() uint8

	// ReadByte reads one byte from the specified device register.
	ReadByte(register uint8) (uint8, error)

	// ReadBytes reads count bytes starting at the specified device register.
	ReadBytes(register uint8, count uint8) ([]uint8, error)

	// ReadWord reads a 16-bit little-endian word from the specified register.
	ReadWord(register uint8) (uint16, error)

	// WriteByte writes one byte to the specified device register.
	WriteByte(register uint8, value uint8) error

	// WriteBytes writes the byte sequence starting at the specified register.
	WriteBytes(register uint8, values []uint8) error

	// WriteWord writes a 16-bit little-endian word to the specified register.
	WriteWord(register uint8, value uint16) error
}

// Transport performs raw register transfers for one device.  Implementations
// do not need to be safe for concurrent use; the engine serializes access
// within one call tree.
type Transport interface {
	Read(register uint8, count uint8) ([]uint8, error)
	Write(register uint8, values []uint8) error
}

// Factory creates the I2C interface for a device declared in the
// configuration file.  The config parser calls it once per device.
type Factory func(bus uint, address uint8) Interface

// Error describes an I2C failure on a specific bus and address.
type Error struct {
	Message string
	Bus     uint
	Address uint8
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("I2C error: %s: bus %d, addr 0x%X", e.Message, e.Bus, e.Address)
}

// Unwrap returns the underlying transport error, if any.
func (e *Error) Unwrap() error { return e.Err }

type device struct {
	bus       uint
	address   uint8
	transport Transport
}

// Option customizes a device interface created by New.
type Option func(*device)

// WithTransport binds a concrete transport to the interface.
func WithTransport(transport Transport) Option {
	return func(d *device) { d.transport = transport }
}

// New returns an Interface bound to the supplied bus and address.  Without a
// transport every operation fails with an *Error; the surrounding application
// installs the real transport via WithTransport (or a custom Factory).
func New(bus uint, address uint8, options ...Option) Interface {
	ret := &device{bus: bus, address: address}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (d *device) Bus() uint      { return d.bus }
func (d *device) Address() uint8 { return d.address }

func (d *device) errorf(err error, format string, args ...interface{}) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Bus:     d.bus,
		Address: d.address,
		Err:     err,
	}
}

func (d *device) read(register uint8, count uint8) ([]uint8, error) {
	if d.transport == nil {
		return nil, d.errorf(nil, "no transport bound")
	}
	values, err := d.transport.Read(register, count)
	if err != nil {
		return nil, d.errorf(err, "failed to read register 0x%X", register)
	}
	if len(values) != int(count) {
		return nil, d.errorf(nil, "short read from register 0x%X", register)
	}
	return values, nil
}

func (d *device) write(register uint8, values []uint8) error {
	if d.transport == nil {
		return d.errorf(nil, "no transport bound")
	}
	if err := d.transport.Write(register, values); err != nil {
		return d.errorf(err, "failed to write register 0x%X", register)
	}
	return nil
}

func (d *device) ReadByte(register uint8) (uint8, error) {
	values, err := d.read(register, 1)
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

func (d *device) ReadBytes(register uint8, count uint8) ([]uint8, error) {
	return d.read(register, count)
}

func (d *device) ReadWord(register uint8) (uint16, error) {
	values, err := d.read(register, 2)
	if err != nil {
		return 0, err
	}
	return uint16(values[0]) | uint16(values[1])<<8, nil
}

func (d *device) WriteByte(register uint8, value uint8) error {
	return d.write(register, []uint8{value})
}

func (d *device) WriteBytes(register uint8, values []uint8) error {
	return d.write(register, values)
}

func (d *device) WriteWord(register uint8, value uint16) error {
	return d.write(register, []uint8{uint8(value & 0xFF), uint8(value >> 8)})
}

package i2c

import (
	"fmt"
	"sync"
)

// MemTransport is a register file backed transport.  It backs the test suites
// and standalone runs without real bus access.
type MemTransport struct {
	mu        sync.Mutex
	registers map[uint8][]uint8
	readErr   error
	writeErr  error
}

// NewMemTransport returns an empty in-memory transport.
func NewMemTransport() *MemTransport {
	return &MemTransport{registers: map[uint8][]uint8{}}
}

// Set seeds the bytes stored at a register.
func (t *MemTransport) Set(register uint8, values ...uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.registers[register] = append([]uint8(nil), values...)
}

// Get returns a copy of the bytes stored at a register.
func (t *MemTransport) Get(register uint8) []uint8 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]uint8(nil), t.registers[register]...)
}

// FailReads makes every subsequent Read return err.  A nil err restores
// normal operation.
func (t *MemTransport) FailReads(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readErr = err
}

// FailWrites makes every subsequent Write return err.  A nil err restores
// normal operation.
func (t *MemTransport) FailWrites(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeErr = err
}

func (t *MemTransport) Read(register uint8, count uint8) ([]uint8, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.readErr != nil {
		return nil, t.readErr
	}
	stored, ok := t.registers[register]
	if !ok {
		return nil, fmt.Errorf("register 0x%X not set", register)
	}
	if int(count) > len(stored) {
		return nil, fmt.Errorf("register 0x%X holds %d bytes, requested %d", register, len(stored), count)
	}
	return append([]uint8(nil), stored[:count]...), nil
}

func (t *MemTransport) Write(register uint8, values []uint8) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.writeErr != nil {
		return t.writeErr
	}
	t.registers[register] = append([]uint8(nil), values...)
	return nil
}

package store

import "fmt"

// ByteWrite records a single WriteByte call for order assertions.
type ByteWrite struct {
	Addr  int
	Value byte
}

// FakeDevice is an in-memory Device for tests. It records the order of
// writes so tests can assert the codec's flag-last / flag-first ordering.
type FakeDevice struct {
	// Bytes is the device content, zero-filled like fresh storage.
	Bytes [Size]byte

	// Writes contains every WriteByte call in order.
	Writes []ByteWrite

	// ReadError, if set, will be returned by ReadByte.
	ReadError error

	// WriteError, if set, will be returned by WriteByte.
	WriteError error

	// FailAfterWrites, if > 0, makes WriteByte fail once that many writes
	// have succeeded — simulates power loss mid-save.
	FailAfterWrites int
}

// NewFakeDevice creates a zero-filled FakeDevice.
func NewFakeDevice() *FakeDevice {
	return &FakeDevice{}
}

// ReadByte returns the byte at addr.
func (d *FakeDevice) ReadByte(addr int) (byte, error) {
	if d.ReadError != nil {
		return 0, d.ReadError
	}
	if err := checkAddr(addr); err != nil {
		return 0, err
	}
	return d.Bytes[addr], nil
}

// WriteByte stores the byte at addr and records the call.
func (d *FakeDevice) WriteByte(addr int, value byte) error {
	if d.WriteError != nil {
		return d.WriteError
	}
	if d.FailAfterWrites > 0 && len(d.Writes) >= d.FailAfterWrites {
		return fmt.Errorf("simulated power loss after %d writes", d.FailAfterWrites)
	}
	if err := checkAddr(addr); err != nil {
		return err
	}
	d.Bytes[addr] = value
	d.Writes = append(d.Writes, ByteWrite{Addr: addr, Value: value})
	return nil
}

// Reset clears content and recorded writes.
func (d *FakeDevice) Reset() {
	d.Bytes = [Size]byte{}
	d.Writes = nil
	d.ReadError = nil
	d.WriteError = nil
	d.FailAfterWrites = 0
}

// Package store provides the non-volatile lock-state storage: a
// byte-addressable device abstraction (file-backed on the Pi, in-memory
// for tests) and a fixed-offset codec over it.
//
// Layout (6 bytes):
//
//	0     lock flag (1 = locked, 0 = unlocked)
//	1     remaining minutes (0-99)
//	2-5   lock timestamp, unix seconds, little-endian uint32
//
// The device offers no atomicity across addresses. The codec narrows the
// resulting partial-write window by committing the lock flag last when
// locking and first when unlocking, so power loss mid-save leaves the box
// unlocked rather than locked against a stale payload. Power loss inside a
// single lock save can still leave flag=1 over stale bytes; that residual
// risk is accepted.
package store

import (
	"encoding/binary"
	"fmt"

	"github.com/sweeney/timebox/internal/logic"
)

// Fixed byte offsets within the device.
const (
	AddrLocked    = 0
	AddrMinutes   = 1
	AddrTimestamp = 2

	// Size is the total number of bytes the codec uses.
	Size = 6
)

const (
	flagUnlocked byte = 0
	flagLocked   byte = 1
)

// Device is synchronous byte-addressable storage surviving power loss.
// No batching, no transactional guarantee across addresses.
type Device interface {
	ReadByte(addr int) (byte, error)
	WriteByte(addr int, value byte) error
}

// Codec reads and writes the packed lock record over a Device.
// It implements logic.Store.
type Codec struct {
	dev Device
}

// NewCodec creates a codec over the given device.
func NewCodec(dev Device) *Codec {
	return &Codec{dev: dev}
}

// WriteTimestamp stores t little-endian across the four timestamp bytes.
func (c *Codec) WriteTimestamp(t uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], t)
	for i, b := range buf {
		if err := c.dev.WriteByte(AddrTimestamp+i, b); err != nil {
			return fmt.Errorf("write timestamp byte %d: %w", i, err)
		}
	}
	return nil
}

// ReadTimestamp reads the four timestamp bytes back into a uint32.
func (c *Codec) ReadTimestamp() (uint32, error) {
	var buf [4]byte
	for i := range buf {
		b, err := c.dev.ReadByte(AddrTimestamp + i)
		if err != nil {
			return 0, fmt.Errorf("read timestamp byte %d: %w", i, err)
		}
		buf[i] = b
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Save writes the full lock record. Minutes outside 0-99 are rejected at
// this boundary rather than silently truncated into the single byte.
// When locking, the flag byte is written last; when unlocking, first.
// An unlock save leaves the old timestamp bytes in place (the flag makes
// them unreachable).
func (c *Codec) Save(st logic.PersistedState) error {
	if err := validateMinutes(st.RemainingMinutes); err != nil {
		return err
	}

	if !st.Locked {
		if err := c.dev.WriteByte(AddrLocked, flagUnlocked); err != nil {
			return fmt.Errorf("write lock flag: %w", err)
		}
		if err := c.dev.WriteByte(AddrMinutes, byte(st.RemainingMinutes)); err != nil {
			return fmt.Errorf("write minutes: %w", err)
		}
		return nil
	}

	if err := c.WriteTimestamp(st.LockedAt); err != nil {
		return err
	}
	if err := c.dev.WriteByte(AddrMinutes, byte(st.RemainingMinutes)); err != nil {
		return fmt.Errorf("write minutes: %w", err)
	}
	if err := c.dev.WriteByte(AddrLocked, flagLocked); err != nil {
		return fmt.Errorf("write lock flag: %w", err)
	}
	return nil
}

// SaveMinutes updates only the remaining-minutes byte, leaving the lock
// flag and timestamp untouched. Used by the minute tick.
func (c *Codec) SaveMinutes(minutes int) error {
	if err := validateMinutes(minutes); err != nil {
		return err
	}
	if err := c.dev.WriteByte(AddrMinutes, byte(minutes)); err != nil {
		return fmt.Errorf("write minutes: %w", err)
	}
	return nil
}

// Load reads the lock record back. ok is false when the stored bytes do
// not form a valid prior state (unknown flag value or out-of-range
// minutes, e.g. factory-fresh storage); err is reserved for device
// failures.
func (c *Codec) Load() (logic.PersistedState, bool, error) {
	flag, err := c.dev.ReadByte(AddrLocked)
	if err != nil {
		return logic.PersistedState{}, false, fmt.Errorf("read lock flag: %w", err)
	}
	if flag != flagLocked && flag != flagUnlocked {
		return logic.PersistedState{}, false, nil
	}

	minutes, err := c.dev.ReadByte(AddrMinutes)
	if err != nil {
		return logic.PersistedState{}, false, fmt.Errorf("read minutes: %w", err)
	}
	if int(minutes) > logic.MaxDuration {
		return logic.PersistedState{}, false, nil
	}

	ts, err := c.ReadTimestamp()
	if err != nil {
		return logic.PersistedState{}, false, err
	}

	return logic.PersistedState{
		Locked:           flag == flagLocked,
		RemainingMinutes: int(minutes),
		LockedAt:         ts,
	}, true, nil
}

func validateMinutes(minutes int) error {
	if minutes < 0 || minutes > logic.MaxDuration {
		return fmt.Errorf("minutes %d out of range [0,%d]", minutes, logic.MaxDuration)
	}
	return nil
}

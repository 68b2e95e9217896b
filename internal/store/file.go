package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileDevice is a Device backed by a fixed-size file on the Pi's
// filesystem. Every write is synced before returning so a committed byte
// survives power loss; partial multi-byte saves remain the codec's problem.
type FileDevice struct {
	f *os.File
}

// NewFileDevice opens (or creates, zero-filled) the backing file.
func NewFileDevice(path string) (*FileDevice, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open storage file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat storage file: %w", err)
	}
	if info.Size() < Size {
		if err := f.Truncate(Size); err != nil {
			f.Close()
			return nil, fmt.Errorf("size storage file: %w", err)
		}
	}

	return &FileDevice{f: f}, nil
}

// ReadByte reads the byte at addr.
func (d *FileDevice) ReadByte(addr int) (byte, error) {
	if err := checkAddr(addr); err != nil {
		return 0, err
	}
	var buf [1]byte
	if _, err := d.f.ReadAt(buf[:], int64(addr)); err != nil {
		return 0, fmt.Errorf("read addr %d: %w", addr, err)
	}
	return buf[0], nil
}

// WriteByte writes the byte at addr and syncs it to stable storage.
func (d *FileDevice) WriteByte(addr int, value byte) error {
	if err := checkAddr(addr); err != nil {
		return err
	}
	if _, err := d.f.WriteAt([]byte{value}, int64(addr)); err != nil {
		return fmt.Errorf("write addr %d: %w", addr, err)
	}
	if err := d.f.Sync(); err != nil {
		return fmt.Errorf("sync addr %d: %w", addr, err)
	}
	return nil
}

// Close releases the backing file.
func (d *FileDevice) Close() error {
	return d.f.Close()
}

func checkAddr(addr int) error {
	if addr < 0 || addr >= Size {
		return fmt.Errorf("addr %d out of range [0,%d)", addr, Size)
	}
	return nil
}

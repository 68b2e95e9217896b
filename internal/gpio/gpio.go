// Package gpio provides the lid-switch input with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Switch reads the lid-switch input state.
type Switch interface {
	// Read returns the logical switch state: true = lid closed.
	// The raw GPIO value is inverted: the switch shorts the line to
	// ground, so raw low = closed.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// DefaultPinSwitch is the lid-switch pin (BCM numbering).
const DefaultPinSwitch = 17

//go:build !linux

package servo

import (
	"errors"

	"github.com/sweeney/timebox/internal/logic"
)

// RealActuator is not available on non-Linux platforms.
type RealActuator struct{}

// NewRealActuator returns an error on non-Linux platforms.
func NewRealActuator(pin int) (*RealActuator, error) {
	return nil, errors.New("servo: not supported on this platform (requires Linux)")
}

// SetPosition is not implemented on non-Linux platforms.
func (a *RealActuator) SetPosition(pos logic.Position) error {
	return errors.New("servo: not supported")
}

// Close is not implemented on non-Linux platforms.
func (a *RealActuator) Close() error {
	return nil
}

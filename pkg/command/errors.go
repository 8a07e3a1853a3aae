package command

import (
	"errors"
	"fmt"
)

// Command errors.
var (
	// ErrTimeout indicates no answer arrived before the deadline, twice.
	ErrTimeout = errors.New("command timed out")

	// ErrNak indicates the scanner rejected the command.
	ErrNak = errors.New("command rejected")

	// ErrDisconnected indicates the session ended before the command completed.
	ErrDisconnected = errors.New("device disconnected")

	// ErrWrite indicates the command bytes could not be written.
	ErrWrite = errors.New("write failed")
)

// Error is returned for a failed command.
type Error struct {
	DeviceID string
	Code     string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("command %q on device %s: %v", e.Code, e.DeviceID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

package wire

import (
	"errors"
	"fmt"
)

// Framing errors.
var (
	// ErrChecksum indicates the received checksum did not match.
	ErrChecksum = errors.New("checksum mismatch")

	// ErrInvalidEscape indicates DLE followed by a byte other than DLE, STX or ETX.
	ErrInvalidEscape = errors.New("invalid escape sequence")

	// ErrFrameRestarted indicates a new DLE STX arrived before DLE ETX.
	ErrFrameRestarted = errors.New("frame restarted before end marker")

	// ErrFrameTooLarge indicates a frame exceeded the decoder's size limit.
	ErrFrameTooLarge = errors.New("frame too large")
)

// FramingError describes a dropped frame. It is never fatal to the decoder.
type FramingError struct {
	DeviceID string

	// Err is one of the framing sentinel errors.
	Err error

	// Raw is the raw frame prefix received before the error.
	Raw []byte

	// Expected and Received are set for checksum mismatches.
	Expected uint16
	Received uint16
}

func (e *FramingError) Error() string {
	if errors.Is(e.Err, ErrChecksum) {
		return fmt.Sprintf("device %s: %v: expected 0x%04X, received 0x%04X", e.DeviceID, e.Err, e.Expected, e.Received)
	}
	return fmt.Sprintf("device %s: %v", e.DeviceID, e.Err)
}

func (e *FramingError) Unwrap() error {
	return e.Err
}

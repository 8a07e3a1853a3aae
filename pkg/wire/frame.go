package wire

import "encoding/binary"

// FrameKind classifies a checksum-valid frame.
type FrameKind uint8

const (
	// FrameMalformed is a frame with an unknown type or a truncated header.
	FrameMalformed FrameKind = iota

	// FrameCommandAck acknowledges the outstanding menu command.
	FrameCommandAck

	// FrameCommandNak rejects the outstanding menu command.
	FrameCommandNak

	// FrameCommandData carries response data for the outstanding command.
	// The command completes with the ACK that follows.
	FrameCommandData

	// FrameBarcode carries a scan; Frame.Barcode is set.
	FrameBarcode

	// FrameCommand is a host-to-scanner menu command.
	FrameCommand
)

// String returns the frame kind name.
func (k FrameKind) String() string {
	switch k {
	case FrameMalformed:
		return "MALFORMED"
	case FrameCommandAck:
		return "ACK"
	case FrameCommandNak:
		return "NAK"
	case FrameCommandData:
		return "DATA"
	case FrameBarcode:
		return "BARCODE"
	case FrameCommand:
		return "COMMAND"
	default:
		return "UNKNOWN"
	}
}

// IsCommandResponse reports whether the kind resolves or feeds the
// outstanding command of a device.
func (k FrameKind) IsCommandResponse() bool {
	return k == FrameCommandAck || k == FrameCommandNak || k == FrameCommandData
}

// Frame is one checksum-valid frame. All slices are owned by the frame.
type Frame struct {
	Kind FrameKind
	Type FrameType

	// Header and Payload are the de-stuffed header and data portions.
	Header  []byte
	Payload []byte

	// Raw is the frame as received, checksum included.
	Raw []byte

	// Barcode is set for FrameBarcode.
	Barcode *BarcodeRecord
}

// Sequence returns the sequence number carried in the first two header
// bytes, if the header has them.
func (f Frame) Sequence() (uint16, bool) {
	if len(f.Header) < 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(f.Header[seqIndex:]), true
}

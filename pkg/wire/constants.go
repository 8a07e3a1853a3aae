package wire

// Control bytes.
const (
	NUL byte = 0x00
	STX byte = 0x02
	ETX byte = 0x03
	ACK byte = 0x06
	LF  byte = 0x0A
	CR  byte = 0x0D
	DLE byte = 0x10
	DC1 byte = 0x11
	DC2 byte = 0x12
	DC3 byte = 0x13
	NAK byte = 0x15
	ESC byte = 0x1B
)

// FrameType is the type byte following DLE STX.
type FrameType byte

const (
	// TypeCommand carries a menu command from host to scanner.
	TypeCommand FrameType = 0x43

	// TypeCommandResponse carries the scanner's answer to a menu command.
	TypeCommandResponse FrameType = 0x64

	// TypeBarcode carries a scanned barcode.
	TypeBarcode FrameType = 0x82

	// TypeBarcodeTimestamp carries a scanned barcode with its scan time.
	TypeBarcodeTimestamp FrameType = 0xA2
)

// HeaderLen returns the header length implied by the type byte.
func (t FrameType) HeaderLen() int {
	n := t >> 5
	if n == 0 {
		return 0
	}
	return 1 << (n - 1)
}

// String returns the frame type name.
func (t FrameType) String() string {
	switch t {
	case TypeCommand:
		return "COMMAND"
	case TypeCommandResponse:
		return "COMMAND_RESPONSE"
	case TypeBarcode:
		return "BARCODE"
	case TypeBarcodeTimestamp:
		return "BARCODE_TIMESTAMP"
	default:
		return "UNKNOWN"
	}
}

// Barcode header layout.
const (
	seqIndex       = 0
	codeIDIndex    = 2
	quantityIndex  = 3
	timestampIndex = 5

	timestampHeaderLen = 8
)

// DefaultMaxFrameSize bounds the de-stuffed header and data of one frame.
const DefaultMaxFrameSize = 4096

package log

import (
	"time"

	"github.com/opticonnect/opc-go/pkg/wire"
)

// Event is a protocol event captured at any layer of a device session.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies one session of a device (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	Direction Direction `cbor:"3,keyasint"`
	Layer     Layer     `cbor:"4,keyasint"`
	Category  Category  `cbor:"5,keyasint"`

	// DeviceID is the transport-level device identifier.
	DeviceID string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Chunk       *ChunkEvent       `cbor:"10,keyasint,omitempty"` // Link layer
	Frame       *FrameEvent       `cbor:"11,keyasint,omitempty"` // Frame layer
	Command     *CommandEvent     `cbor:"12,keyasint,omitempty"` // Command layer
	Barcode     *BarcodeEvent     `cbor:"13,keyasint,omitempty"` // Session layer
	Battery     *BatteryEvent     `cbor:"14,keyasint,omitempty"` // Session layer
	StateChange *StateChangeEvent `cbor:"15,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"16,keyasint,omitempty"`
}

// Kind names the payload an event carries.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindChunk
	KindFrame
	KindCommand
	KindBarcode
	KindBattery
	KindState
	KindError
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindChunk:
		return "Chunk"
	case KindFrame:
		return "Frame"
	case KindCommand:
		return "Command"
	case KindBarcode:
		return "Barcode"
	case KindBattery:
		return "Battery"
	case KindState:
		return "State"
	case KindError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Kind returns the kind of the payload set on the event.
func (e Event) Kind() Kind {
	switch {
	case e.Chunk != nil:
		return KindChunk
	case e.Frame != nil:
		return KindFrame
	case e.Command != nil:
		return KindCommand
	case e.Barcode != nil:
		return KindBarcode
	case e.Battery != nil:
		return KindBattery
	case e.StateChange != nil:
		return KindState
	case e.Error != nil:
		return KindError
	default:
		return KindUnknown
	}
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn is scanner to host.
	DirectionIn Direction = 0
	// DirectionOut is host to scanner.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerLink is raw transport chunks.
	LayerLink Layer = 0
	// LayerFrame is decoded OPC frames.
	LayerFrame Layer = 1
	// LayerCommand is the command channel.
	LayerCommand Layer = 2
	// LayerSession is the device session (lifecycle, barcodes, battery).
	LayerSession Layer = 3
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerLink:
		return "LINK"
	case LayerFrame:
		return "FRAME"
	case LayerCommand:
		return "COMMAND"
	case LayerSession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage is protocol traffic.
	CategoryMessage Category = 0
	// CategoryState is a lifecycle change.
	CategoryState Category = 1
	// CategoryError is a dropped frame or failed operation.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ChunkEvent captures raw bytes as delivered to or written by the transport.
type ChunkEvent struct {
	// Size is the chunk size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw bytes (may be truncated for large chunks).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// FrameEvent captures a decoded frame.
type FrameEvent struct {
	Type wire.FrameType `cbor:"1,keyasint"`
	Kind wire.FrameKind `cbor:"2,keyasint"`

	// Sequence is the header sequence number, if the frame has one.
	Sequence *uint16 `cbor:"3,keyasint,omitempty"`

	Header  []byte `cbor:"4,keyasint,omitempty"`
	Payload []byte `cbor:"5,keyasint,omitempty"`
}

// CommandEvent captures the lifecycle of a menu command.
type CommandEvent struct {
	// Code is the command code as submitted.
	Code string `cbor:"1,keyasint"`

	// Encoded is the command text carried in the frame.
	Encoded string `cbor:"2,keyasint,omitempty"`

	Result CommandResult `cbor:"3,keyasint"`

	Retried bool `cbor:"4,keyasint,omitempty"`

	// Response is the data received before the ACK.
	Response string `cbor:"5,keyasint,omitempty"`

	// Elapsed is the time from first transmission to resolution.
	// Stored as nanoseconds.
	Elapsed *time.Duration `cbor:"6,keyasint,omitempty"`
}

// CommandResult is the outcome recorded in a CommandEvent.
type CommandResult uint8

const (
	CommandSent         CommandResult = 0
	CommandAcked        CommandResult = 1
	CommandNaked        CommandResult = 2
	CommandTimedOut     CommandResult = 3
	CommandDisconnected CommandResult = 4
	CommandWriteFailed  CommandResult = 5
	CommandCancelled    CommandResult = 6
)

// String returns the result name.
func (r CommandResult) String() string {
	switch r {
	case CommandSent:
		return "SENT"
	case CommandAcked:
		return "ACK"
	case CommandNaked:
		return "NAK"
	case CommandTimedOut:
		return "TIMEOUT"
	case CommandDisconnected:
		return "DISCONNECTED"
	case CommandWriteFailed:
		return "WRITE_FAILED"
	case CommandCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// BarcodeEvent captures a delivered scan.
type BarcodeEvent struct {
	Text        string    `cbor:"1,keyasint"`
	SymbologyID int       `cbor:"2,keyasint"`
	Symbology   string    `cbor:"3,keyasint,omitempty"`
	Quantity    int       `cbor:"4,keyasint"`
	Sequence    uint16    `cbor:"5,keyasint"`
	ScannedAt   time.Time `cbor:"6,keyasint"`
}

// BatteryEvent captures a decoded battery reading.
type BatteryEvent struct {
	Present          bool `cbor:"1,keyasint,omitempty"`
	WirelessCharging bool `cbor:"2,keyasint,omitempty"`
	WiredCharging    bool `cbor:"3,keyasint,omitempty"`
	Charging         bool `cbor:"4,keyasint,omitempty"`
	Fault            bool `cbor:"5,keyasint,omitempty"`
	Percentage       int  `cbor:"6,keyasint"`

	// Raw is the payload as received.
	Raw []byte `cbor:"7,keyasint,omitempty"`
}

// StateChangeEvent captures link and session lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityLink is the transport link to the scanner.
	StateEntityLink StateEntity = 0
	// StateEntitySession is the device session.
	StateEntitySession StateEntity = 1
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityLink:
		return "LINK"
	case StateEntitySession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what was being done.
	Context string `cbor:"3,keyasint,omitempty"`

	// Data is the offending raw bytes, if any.
	Data []byte `cbor:"4,keyasint,omitempty"`
}

// MaxLogDataSize is the maximum raw data size included in an event.
const MaxLogDataSize = 4096

// NewChunkEvent returns a ChunkEvent for data, truncated to MaxLogDataSize.
func NewChunkEvent(data []byte) *ChunkEvent {
	ev := &ChunkEvent{Size: len(data)}
	if len(data) > MaxLogDataSize {
		data = data[:MaxLogDataSize]
		ev.Truncated = true
	}
	ev.Data = append([]byte(nil), data...)
	return ev
}

// NewFrameEvent returns a FrameEvent describing f.
func NewFrameEvent(f wire.Frame) *FrameEvent {
	ev := &FrameEvent{
		Type:    f.Type,
		Kind:    f.Kind,
		Header:  f.Header,
		Payload: f.Payload,
	}
	if seq, ok := f.Sequence(); ok {
		ev.Sequence = &seq
	}
	return ev
}

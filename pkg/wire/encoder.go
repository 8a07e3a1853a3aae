package wire

import (
	"encoding/binary"
	"sync"
	"time"
)

// EncodeFrame builds a complete frame: DLE STX, type, stuffed header and
// data, DLE ETX and the big-endian checksum. A nil sum uses CRC16.
func EncodeFrame(t FrameType, header, data []byte, sum ChecksumFunc) []byte {
	if sum == nil {
		sum = CRC16
	}
	buf := make([]byte, 0, 7+len(header)+len(data)+(len(header)+len(data))/8)
	buf = append(buf, DLE, STX, byte(t))
	buf = append(buf, Stuff(header)...)
	buf = append(buf, Stuff(data)...)
	buf = append(buf, DLE, ETX)
	return binary.BigEndian.AppendUint16(buf, sum(buf))
}

// Encoder builds numbered frames. Every frame takes the next 16-bit
// sequence number, wrapping at 0xFFFF. Safe for concurrent use.
type Encoder struct {
	mu       sync.Mutex
	seq      uint16
	checksum ChecksumFunc
}

// NewEncoder creates an encoder. A nil sum uses CRC16.
func NewEncoder(sum ChecksumFunc) *Encoder {
	if sum == nil {
		sum = CRC16
	}
	return &Encoder{checksum: sum}
}

func (e *Encoder) next() uint16 {
	e.mu.Lock()
	defer e.mu.Unlock()
	seq := e.seq
	e.seq++
	return seq
}

// EncodeCommand wraps encoded menu command bytes in a TypeCommand frame.
func (e *Encoder) EncodeCommand(data []byte) []byte {
	header := make([]byte, TypeCommand.HeaderLen())
	binary.BigEndian.PutUint16(header, e.next())
	return EncodeFrame(TypeCommand, header, data, e.checksum)
}

// EncodeResponse builds a TypeCommandResponse frame. Use []byte{ACK} or
// []byte{NAK} for the terminal answer.
func (e *Encoder) EncodeResponse(payload []byte) []byte {
	header := make([]byte, TypeCommandResponse.HeaderLen())
	binary.BigEndian.PutUint16(header, e.next())
	return EncodeFrame(TypeCommandResponse, header, payload, e.checksum)
}

// Scan describes a barcode frame to encode.
type Scan struct {
	Data   []byte
	CodeID byte

	// Quantity defaults to DefaultQuantity when zero.
	Quantity int16

	// ScannedAt selects TypeBarcodeTimestamp when non-zero.
	ScannedAt time.Time
}

// EncodeBarcode builds a barcode frame with the next sequence number.
func (e *Encoder) EncodeBarcode(s Scan) []byte {
	t := TypeBarcode
	if !s.ScannedAt.IsZero() {
		t = TypeBarcodeTimestamp
	}
	header := make([]byte, t.HeaderLen())
	binary.BigEndian.PutUint16(header[seqIndex:], e.next())
	header[codeIDIndex] = s.CodeID
	qty := s.Quantity
	if qty == 0 {
		qty = DefaultQuantity
	}
	binary.BigEndian.PutUint16(header[quantityIndex:], uint16(qty))
	if t == TypeBarcodeTimestamp {
		binary.BigEndian.PutUint32(header[timestampIndex:], EncodeTimestamp(s.ScannedAt))
	}
	return EncodeFrame(t, header, s.Data, e.checksum)
}

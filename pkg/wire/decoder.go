package wire

import (
	"encoding/binary"
	"time"
)

type decodeState uint8

const (
	stateIdle decodeState = iota
	stateType
	stateBody
	stateChecksumHi
	stateChecksumLo
)

// DecoderConfig configures a Decoder.
type DecoderConfig struct {
	// DeviceID is stamped on barcode records and framing errors.
	DeviceID string

	// Checksum validates frames. Defaults to CRC16.
	Checksum ChecksumFunc

	// AcceptZeroChecksum accepts frames whose transmitted checksum is
	// 0x0000, which some firmware sends when checksums are disabled.
	AcceptZeroChecksum bool

	// ParsePrefix resolves the symbology from an identifier prefix in the
	// barcode text when the frame's code ID is unknown.
	ParsePrefix bool

	// MaxFrameSize bounds the de-stuffed header and data of one frame.
	// Defaults to DefaultMaxFrameSize.
	MaxFrameSize int

	// Location interprets scanner timestamps. Defaults to UTC.
	Location *time.Location

	// Now stamps scans without a valid timestamp. Defaults to time.Now.
	Now func() time.Time

	// OnError receives every dropped frame.
	OnError func(*FramingError)
}

func (c *DecoderConfig) applyDefaults() {
	if c.Checksum == nil {
		c.Checksum = CRC16
	}
	if c.MaxFrameSize <= 0 {
		c.MaxFrameSize = DefaultMaxFrameSize
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Stats counts decoder outcomes.
type Stats struct {
	Frames         uint64
	ChecksumErrors uint64
	EscapeErrors   uint64
	Restarts       uint64
	Oversize       uint64
	Duplicates     uint64
}

// Decoder reassembles frames from a chunked byte stream.
// A Decoder is not safe for concurrent use; feed it from one goroutine or
// serialize calls.
type Decoder struct {
	cfg DecoderConfig

	state     decodeState
	dle       bool
	frameType FrameType
	raw       []byte
	body      []byte
	received  uint16

	lastSeq int
	stats   Stats
}

// NewDecoder creates a decoder in the idle state.
func NewDecoder(cfg DecoderConfig) *Decoder {
	cfg.applyDefaults()
	return &Decoder{
		cfg:     cfg,
		lastSeq: -1,
	}
}

// Stats returns the decoder's counters.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Reset discards any partial frame and the retransmission history.
func (d *Decoder) Reset() {
	d.state = stateIdle
	d.dle = false
	d.raw = d.raw[:0]
	d.body = d.body[:0]
	d.lastSeq = -1
}

// Feed consumes a chunk and returns the frames it completed, in order.
func (d *Decoder) Feed(chunk []byte) []Frame {
	var frames []Frame
	for _, b := range chunk {
		if f, ok := d.step(b); ok {
			frames = append(frames, f)
		}
	}
	return frames
}

func (d *Decoder) step(b byte) (Frame, bool) {
	switch d.state {
	case stateIdle:
		if b == DLE {
			d.dle = !d.dle
			return Frame{}, false
		}
		if d.dle {
			d.dle = false
			if b == STX {
				d.begin()
			}
		}

	case stateType:
		d.raw = append(d.raw, b)
		if b == DLE {
			d.fail(ErrInvalidEscape)
			d.dle = true
			return Frame{}, false
		}
		d.frameType = FrameType(b)
		d.state = stateBody

	case stateBody:
		d.raw = append(d.raw, b)
		if d.dle {
			d.dle = false
			switch b {
			case DLE:
				d.appendBody(DLE)
			case STX:
				d.fail(ErrFrameRestarted)
				d.begin()
			case ETX:
				d.state = stateChecksumHi
			default:
				d.fail(ErrInvalidEscape)
			}
			return Frame{}, false
		}
		if b == DLE {
			d.dle = true
			return Frame{}, false
		}
		d.appendBody(b)

	case stateChecksumHi:
		d.received = uint16(b) << 8
		d.state = stateChecksumLo

	case stateChecksumLo:
		d.received |= uint16(b)
		d.state = stateIdle
		return d.finish(b)
	}
	return Frame{}, false
}

func (d *Decoder) begin() {
	d.state = stateType
	d.dle = false
	d.raw = append(d.raw[:0], DLE, STX)
	d.body = d.body[:0]
}

func (d *Decoder) appendBody(b byte) {
	if len(d.body) >= d.cfg.MaxFrameSize {
		d.fail(ErrFrameTooLarge)
		return
	}
	d.body = append(d.body, b)
}

// fail drops the current frame and returns to idle.
func (d *Decoder) fail(err error) {
	switch err {
	case ErrInvalidEscape:
		d.stats.EscapeErrors++
	case ErrFrameRestarted:
		d.stats.Restarts++
	case ErrFrameTooLarge:
		d.stats.Oversize++
	}
	d.report(&FramingError{Err: err})
	d.state = stateIdle
	d.dle = false
}

func (d *Decoder) report(fe *FramingError) {
	if d.cfg.OnError == nil {
		return
	}
	fe.DeviceID = d.cfg.DeviceID
	if fe.Raw == nil {
		fe.Raw = append([]byte(nil), d.raw...)
	}
	d.cfg.OnError(fe)
}

func (d *Decoder) finish(last byte) (Frame, bool) {
	expected := d.cfg.Checksum(d.raw)
	if d.received != expected && !(d.cfg.AcceptZeroChecksum && d.received == 0) {
		d.stats.ChecksumErrors++
		d.report(&FramingError{
			Err:      ErrChecksum,
			Raw:      append(append([]byte(nil), d.raw...), byte(d.received>>8), byte(d.received)),
			Expected: expected,
			Received: d.received,
		})
		// A checksum byte equal to DLE may be the start of the next frame.
		d.dle = last == DLE
		return Frame{}, false
	}

	f := Frame{
		Type: d.frameType,
		Raw:  append(append(make([]byte, 0, len(d.raw)+2), d.raw...), byte(d.received>>8), byte(d.received)),
	}
	headerLen := d.frameType.HeaderLen()
	if len(d.body) < headerLen {
		f.Kind = FrameMalformed
		f.Payload = append([]byte(nil), d.body...)
		d.stats.Frames++
		return f, true
	}
	f.Header = append([]byte(nil), d.body[:headerLen]...)
	f.Payload = append([]byte(nil), d.body[headerLen:]...)

	switch d.frameType {
	case TypeCommandResponse:
		f.Kind = classifyResponse(f.Payload)
	case TypeBarcode, TypeBarcodeTimestamp:
		seq := int(binary.BigEndian.Uint16(f.Header[seqIndex:]))
		if seq == d.lastSeq {
			d.stats.Duplicates++
			return Frame{}, false
		}
		d.lastSeq = seq
		f.Kind = FrameBarcode
		f.Barcode = d.buildBarcode(f.Header, f.Payload)
	case TypeCommand:
		f.Kind = FrameCommand
	default:
		f.Kind = FrameMalformed
	}
	d.stats.Frames++
	return f, true
}

func classifyResponse(payload []byte) FrameKind {
	if len(payload) == 1 {
		switch payload[0] {
		case ACK:
			return FrameCommandAck
		case NAK:
			return FrameCommandNak
		}
	}
	return FrameCommandData
}

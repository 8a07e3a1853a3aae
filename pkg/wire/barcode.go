package wire

import (
	"bytes"
	"encoding/binary"
	"strings"
	"time"

	"github.com/opticonnect/opc-go/pkg/symbology"
)

// BarcodeRecord is a decoded scan. It is immutable once delivered.
type BarcodeRecord struct {
	// Text is the scanned data as UTF-8.
	Text string

	// Raw is the scanned data as received.
	Raw []byte

	// Quantity is the scanned quantity. -1 removes a previously scanned item.
	Quantity int

	SymbologyID symbology.ID
	Symbology   string

	ScannedAt time.Time
	DeviceID  string

	// Sequence is the scanner's frame sequence number.
	Sequence uint16
}

// DefaultQuantity is the quantity of a scan whose header carries none.
const DefaultQuantity = 1

// QuantityRemove is the quantity that removes a previously scanned item.
const QuantityRemove = -1

// Packed timestamp layout: 6 bits year since 2000, 4 bits month, 5 bits
// day, 5 bits hour, 6 bits minute, 6 bits second, from the low bits up.
const timestampBaseYear = 2000

// DecodeTimestamp unpacks a scanner timestamp in loc. It returns false if a
// field is out of range.
func DecodeTimestamp(d uint32, loc *time.Location) (time.Time, bool) {
	year := timestampBaseYear + int(d&0x3F)
	month := int(d >> 6 & 0x0F)
	day := int(d >> 10 & 0x1F)
	hour := int(d >> 15 & 0x1F)
	minute := int(d >> 20 & 0x3F)
	second := int(d >> 26 & 0x3F)

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), true
}

// EncodeTimestamp packs t into the scanner timestamp format. Years outside
// 2000..2063 wrap.
func EncodeTimestamp(t time.Time) uint32 {
	return uint32(t.Year()-timestampBaseYear)&0x3F |
		uint32(t.Month())<<6 |
		uint32(t.Day())<<10 |
		uint32(t.Hour())<<15 |
		uint32(t.Minute())<<20 |
		uint32(t.Second())<<26
}

// buildBarcode assembles a record from the header and data of a barcode
// frame.
func (d *Decoder) buildBarcode(header, data []byte) *BarcodeRecord {
	rec := &BarcodeRecord{
		Raw:       bytes.Clone(data),
		Text:      strings.ToValidUTF8(string(data), "\uFFFD"),
		Quantity:  int(int16(binary.BigEndian.Uint16(header[quantityIndex:]))),
		ScannedAt: d.cfg.Now().In(d.cfg.Location),
		DeviceID:  d.cfg.DeviceID,
		Sequence:  binary.BigEndian.Uint16(header[seqIndex:]),
	}

	if len(header) > timestampHeaderLen {
		if ts, ok := DecodeTimestamp(binary.BigEndian.Uint32(header[timestampIndex:]), d.cfg.Location); ok {
			rec.ScannedAt = ts
		}
	}

	rec.SymbologyID = symbology.ByCodeID(header[codeIDIndex])
	if rec.SymbologyID == symbology.None && d.cfg.ParsePrefix {
		if id, text := symbology.ParsePrefix(rec.Text); id != symbology.Unknown {
			rec.SymbologyID = id
			rec.Text = text
		}
	}
	rec.Symbology = symbology.Name(rec.SymbologyID)
	return rec
}

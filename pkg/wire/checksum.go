package wire

// ChecksumFunc computes the checksum of a raw frame, from the opening
// DLE STX through the closing DLE ETX.
type ChecksumFunc func(frame []byte) uint16

const (
	// usbPoly is the reflected form of polynomial 0x8005.
	usbPoly = 0xA001

	// x25Poly is the reflected CCITT polynomial.
	x25Poly = 0x8408
)

func reflectedTable(poly uint16) [256]uint16 {
	var table [256]uint16
	for i := range table {
		crc := uint16(i)
		for range 8 {
			if crc&1 != 0 {
				crc = crc>>1 ^ poly
			} else {
				crc >>= 1
			}
		}
		table[i] = crc
	}
	return table
}

var (
	usbTable = reflectedTable(usbPoly)
	x25Table = reflectedTable(x25Poly)
)

func reflectedCRC(table *[256]uint16, data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc = crc>>8 ^ table[byte(crc)^b]
	}
	return ^crc
}

// CRC16 computes CRC-16/USB (reflected 0x8005, init 0xFFFF, final xor
// 0xFFFF), the checksum scanner firmware puts on every frame. It is the
// default ChecksumFunc.
func CRC16(data []byte) uint16 {
	return reflectedCRC(&usbTable, data)
}

// CRC16X25 computes CRC-16/X-25 (reflected 0x1021, init 0xFFFF, final xor
// 0xFFFF).
func CRC16X25(data []byte) uint16 {
	return reflectedCRC(&x25Table, data)
}

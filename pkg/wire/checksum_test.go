package wire

import "testing"

func TestCRC16CheckValue(t *testing.T) {
	if got := CRC16([]byte("123456789")); got != 0xB4C8 {
		t.Errorf("CRC16(123456789) = 0x%04X, want 0xB4C8", got)
	}
}

// Firmware seeds its running checksum with the CRC of the frame start.
func TestCRC16FrameStart(t *testing.T) {
	if got := CRC16([]byte{DLE, STX}); got != 0x4E72 {
		t.Errorf("CRC16(DLE STX) = 0x%04X, want 0x4E72", got)
	}
	if got := CRC16X25([]byte{DLE, STX}); got == 0x4E72 {
		t.Error("CRC16X25(DLE STX) matches the firmware seed")
	}
}

func TestCRC16X25CheckValue(t *testing.T) {
	if got := CRC16X25([]byte("123456789")); got != 0x906E {
		t.Errorf("CRC16X25(123456789) = 0x%04X, want 0x906E", got)
	}
}

func TestCRC16X25Empty(t *testing.T) {
	if got := CRC16X25(nil); got != 0x0000 {
		t.Errorf("CRC16X25(nil) = 0x%04X, want 0x0000", got)
	}
}

func TestHeaderLen(t *testing.T) {
	tests := []struct {
		t    FrameType
		want int
	}{
		{0x00, 0},
		{0x1F, 0},
		{0x20, 1},
		{TypeCommand, 2},
		{TypeCommandResponse, 4},
		{TypeBarcode, 8},
		{TypeBarcodeTimestamp, 16},
		{0xE0, 64},
	}

	for _, tt := range tests {
		if got := tt.t.HeaderLen(); got != tt.want {
			t.Errorf("FrameType(0x%02X).HeaderLen() = %d, want %d", byte(tt.t), got, tt.want)
		}
	}
}

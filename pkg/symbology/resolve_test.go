package symbology

import "testing"

func TestByCodeID(t *testing.T) {
	tests := []struct {
		code byte
		want ID
	}{
		{0x01, EAN13},
		{0x03, EAN8},
		{0x0E, Code128},
		{0x30, QRCode},
		{0x31, DataMatrix},
		{0x38, DotCode},
		{0x45, UPCE1AddOn2},
		{0x85, UPCE1AddOn5},
		{0xF2, Code128},
		{0xF4, Aztec},
		{0x00, None},
		{0x1B, None},
		{0xFF, None},
	}

	for _, tt := range tests {
		if got := ByCodeID(tt.code); got != tt.want {
			t.Errorf("ByCodeID(0x%02X) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestByVendorAndAIM(t *testing.T) {
	tests := []struct {
		vendor, aim string
		want        ID
	}{
		{"B", "E", EAN13},
		{"C", "E", UPCA},
		{"T", "C", Code128},
		{"T", "C0", Code128},
		{"T", "]C0", Code128},
		{"u", "Q", QRCode},
		{"t", "d", DataMatrix},
		{"?", "X", ChineseSensible},
		{"B", "Q", Unknown},
		{"", "", Unknown},
		{"b", "e", Unknown},
	}

	for _, tt := range tests {
		if got := ByVendorAndAIM(tt.vendor, tt.aim); got != tt.want {
			t.Errorf("ByVendorAndAIM(%q, %q) = %d, want %d", tt.vendor, tt.aim, got, tt.want)
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{EAN8, "EAN-8"},
		{Code128, "Code 128"},
		{QRCode, "QR Code"},
		{DotCode, "DotCode"},
		{Unknown, ""},
		{None, ""},
		{ISMN, ""},
		{ID(10000), ""},
	}

	for _, tt := range tests {
		if got := Name(tt.id); got != tt.want {
			t.Errorf("Name(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestEveryCodeIDHasCanonicalID(t *testing.T) {
	for code, id := range byCodeID {
		if id <= None {
			t.Errorf("code 0x%02X maps to sentinel %d", code, id)
		}
	}
	for pair, id := range byIdentifier {
		if Name(id) == "" {
			t.Errorf("pair %v maps to %d without a name", pair, id)
		}
	}
}

func TestParsePrefix(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantID   ID
		wantText string
	}{
		{"code 128", "T]C0ABC-123", Code128, "ABC-123"},
		{"ean 13", "B]E04012345678901", EAN13, "4012345678901"},
		{"no prefix", "4012345678901", Unknown, "4012345678901"},
		{"unknown pair", "X]C0ABC", Unknown, "X]C0ABC"},
		{"too short", "T]C", Unknown, "T]C"},
		{"prefix only", "T]C0", Code128, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, text := ParsePrefix(tt.text)
			if id != tt.wantID {
				t.Errorf("id = %d, want %d", id, tt.wantID)
			}
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestIDString(t *testing.T) {
	if got := QRCode.String(); got != "QR Code" {
		t.Errorf("QRCode.String() = %q", got)
	}
	if got := Unknown.String(); got != "symbology(-1)" {
		t.Errorf("Unknown.String() = %q", got)
	}
}

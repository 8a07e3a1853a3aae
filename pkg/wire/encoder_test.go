package wire

import (
	"bytes"
	"testing"
	"time"
)

func TestEncodeFrameGolden(t *testing.T) {
	got := EncodeFrame(TypeCommandResponse, []byte{0, 0, 0, 0}, []byte{ACK}, nil)
	want := []byte{DLE, STX, 0x64, 0x00, 0x00, 0x00, 0x00, ACK, DLE, ETX, 0x16, 0x3D}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeFrame = % X, want % X", got, want)
	}
}

func TestEncodeFrameGoldenStuffed(t *testing.T) {
	got := EncodeFrame(TypeCommand, []byte{0x00, DLE}, []byte("Z2"), nil)
	want := []byte{DLE, STX, 0x43, 0x00, DLE, DLE, 'Z', '2', DLE, ETX, 0xAD, 0xEE}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeFrame = % X, want % X", got, want)
	}
}

func TestEncodeFrameStuffsHeaderAndData(t *testing.T) {
	got := EncodeFrame(TypeCommand, []byte{0x00, DLE}, []byte{DLE}, nil)
	want := []byte{DLE, STX, 0x43, 0x00, DLE, DLE, DLE, DLE, DLE, ETX}
	if !bytes.Equal(got[:len(got)-2], want) {
		t.Errorf("EncodeFrame body = % X, want % X", got[:len(got)-2], want)
	}
}

func TestEncoderSequence(t *testing.T) {
	enc := NewEncoder(nil)
	enc.seq = 0xFFFE

	var seqs []uint16
	for range 3 {
		frames := NewDecoder(DecoderConfig{}).Feed(enc.EncodeCommand([]byte("Z2")))
		if len(frames) != 1 {
			t.Fatalf("got %d frames, want 1", len(frames))
		}
		seq, ok := frames[0].Sequence()
		if !ok {
			t.Fatal("command frame has no sequence")
		}
		seqs = append(seqs, seq)
	}

	want := []uint16{0xFFFE, 0xFFFF, 0x0000}
	for i := range want {
		if seqs[i] != want[i] {
			t.Errorf("seq[%d] = 0x%04X, want 0x%04X", i, seqs[i], want[i])
		}
	}
}

func TestEncodeCommandDecodesAsCommand(t *testing.T) {
	enc := NewEncoder(nil)
	frames := NewDecoder(DecoderConfig{}).Feed(enc.EncodeCommand([]byte("[DDN")))
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	f := frames[0]
	if f.Kind != FrameCommand {
		t.Errorf("Kind = %v, want COMMAND", f.Kind)
	}
	if string(f.Payload) != "[DDN" {
		t.Errorf("Payload = %q, want %q", f.Payload, "[DDN")
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2024, time.November, 30, 23, 59, 58, 0, time.UTC)
	got, ok := DecodeTimestamp(EncodeTimestamp(ts), time.UTC)
	if !ok {
		t.Fatal("DecodeTimestamp rejected a valid timestamp")
	}
	if !got.Equal(ts) {
		t.Errorf("round trip = %v, want %v", got, ts)
	}
}

func TestDecodeTimestampInvalid(t *testing.T) {
	// month 0
	if _, ok := DecodeTimestamp(0, time.UTC); ok {
		t.Error("DecodeTimestamp(0) accepted month 0")
	}
	// month 13, day 1
	if _, ok := DecodeTimestamp(13<<6|1<<10, time.UTC); ok {
		t.Error("DecodeTimestamp accepted month 13")
	}
}

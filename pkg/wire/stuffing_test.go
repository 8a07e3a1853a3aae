package wire

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestStuffDoublesDLE(t *testing.T) {
	got := Stuff([]byte{0x01, DLE, 0x02, DLE, DLE})
	want := []byte{0x01, DLE, DLE, 0x02, DLE, DLE, DLE, DLE}
	if !bytes.Equal(got, want) {
		t.Errorf("Stuff = % X, want % X", got, want)
	}
}

func TestStuffUnstuffRoundTrip(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	payloads := [][]byte{
		nil,
		{DLE},
		{DLE, STX, DLE, ETX},
		{DLE, DLE, DLE},
		{ACK, NAK, ESC, CR, LF, NUL},
		all,
	}

	rng := rand.New(rand.NewSource(1))
	for range 200 {
		p := make([]byte, rng.Intn(64))
		for i := range p {
			// Bias towards control bytes.
			if rng.Intn(3) == 0 {
				p[i] = DLE
			} else {
				p[i] = byte(rng.Intn(0x20))
			}
		}
		payloads = append(payloads, p)
	}

	for _, p := range payloads {
		got, err := Unstuff(Stuff(p))
		if err != nil {
			t.Fatalf("Unstuff(Stuff(% X)) failed: %v", p, err)
		}
		if !bytes.Equal(got, p) {
			t.Fatalf("round trip = % X, want % X", got, p)
		}
	}
}

func TestUnstuffInvalid(t *testing.T) {
	tests := [][]byte{
		{DLE},
		{0x01, DLE},
		{DLE, STX},
		{0x41, DLE, 0x42},
	}

	for _, in := range tests {
		if _, err := Unstuff(in); !errors.Is(err, ErrInvalidEscape) {
			t.Errorf("Unstuff(% X) error = %v, want ErrInvalidEscape", in, err)
		}
	}
}

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamDeliversInOrderWithoutBlocking(t *testing.T) {
	s := newStream[int]()
	defer s.close()

	for i := range 1000 {
		s.push(i)
	}

	for want := range 1000 {
		select {
		case got := <-s.C():
			require.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("value %d not delivered", want)
		}
	}
	assert.Equal(t, 0, s.len())
}

func TestStreamCloseClosesChannel(t *testing.T) {
	s := newStream[string]()
	s.push("dropped")
	s.close()
	s.close()
	s.push("after close")

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-s.C():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed")
		}
	}
}

package transport

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRedialsAfterDrop(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// The bridge drops the first connection and keeps the second.
	go func() {
		first, err := ln.Accept()
		if err != nil {
			return
		}
		first.Close()
		second, err := ln.Accept()
		if err != nil {
			return
		}
		defer second.Close()
		second.Write([]byte("hello"))
		buf := make([]byte, 1)
		second.Read(buf)
	}()

	var (
		mu     sync.Mutex
		states []LinkState
	)
	router := newFakeRouter()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- Run(ctx, DialConfig{
			Address:  ln.Addr().String(),
			DeviceID: "dev-1",
			Backoff:  BackoffConfig{Initial: 5 * time.Millisecond, Max: 10 * time.Millisecond},
			OnStateChange: func(_, s LinkState) {
				mu.Lock()
				states = append(states, s)
				mu.Unlock()
			},
		}, router)
	}()

	require.Eventually(t, func() bool { return string(router.received("dev-1")) == "hello" }, 2*time.Second, time.Millisecond)
	created, _ := router.counts()
	assert.Equal(t, 2, created)

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, states, StateReconnecting)
	assert.Equal(t, StateClosed, states[len(states)-1])
}

func TestRunRequiresRouter(t *testing.T) {
	assert.ErrorIs(t, Run(context.Background(), DialConfig{}, nil), ErrNoRouter)
}

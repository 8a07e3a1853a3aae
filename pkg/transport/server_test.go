package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerRequiresRouter(t *testing.T) {
	_, err := NewServer(ServerConfig{Address: "127.0.0.1:0"})
	assert.ErrorIs(t, err, ErrNoRouter)
}

func TestServerAcceptsLinks(t *testing.T) {
	router := newFakeRouter()
	connected := make(chan *Link, 1)
	disconnected := make(chan *Link, 1)

	srv, err := NewServer(ServerConfig{
		Address:      "127.0.0.1:0",
		Router:       router,
		DeviceID:     func(net.Conn) string { return "bridge-1" },
		OnConnect:    func(l *Link) { connected <- l },
		OnDisconnect: func(l *Link, _ error) { disconnected <- l },
	})
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	defer srv.Stop()
	assert.ErrorIs(t, srv.Start(context.Background()), ErrServerRunning)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)

	select {
	case l := <-connected:
		assert.Equal(t, "bridge-1", l.DeviceID())
	case <-time.After(time.Second):
		t.Fatal("no link")
	}

	_, err = conn.Write([]byte("abc"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return string(router.received("bridge-1")) == "abc" }, time.Second, time.Millisecond)
	assert.Equal(t, 1, srv.LinkCount())

	conn.Close()
	select {
	case <-disconnected:
	case <-time.After(time.Second):
		t.Fatal("link not torn down")
	}
	assert.Equal(t, 0, srv.LinkCount())
}

func TestServerStopClosesLinks(t *testing.T) {
	router := newFakeRouter()
	srv, err := NewServer(ServerConfig{Address: "127.0.0.1:0", Router: router})
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return srv.LinkCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
	_, destroyed := router.counts()
	assert.Equal(t, 1, destroyed)
}

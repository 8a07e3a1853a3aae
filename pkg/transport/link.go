package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opticonnect/opc-go/pkg/session"
)

// DefaultReadBufferSize is the size of a link's read buffer.
const DefaultReadBufferSize = 1024

// Router owns the sessions of linked devices.
// Implemented by *session.Registry.
type Router interface {
	CreateSession(deviceID string, w io.Writer) (*session.Session, error)
	DestroySession(deviceID string)
	RouteBytes(deviceID string, chunk []byte)
}

var _ Router = (*session.Registry)(nil)

// LinkConfig configures a Link.
type LinkConfig struct {
	DeviceID string

	// ReadBufferSize defaults to DefaultReadBufferSize.
	ReadBufferSize int

	// WriteTimeout bounds a write when the stream is a net.Conn.
	// Zero means no deadline.
	WriteTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (c *LinkConfig) applyDefaults() {
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = DefaultReadBufferSize
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Link attaches one device stream to a Router.
type Link struct {
	cfg    LinkConfig
	conn   io.ReadWriteCloser
	logger *slog.Logger

	writeMu   sync.Mutex
	state     atomic.Uint32
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewLink wraps conn. The link takes ownership of conn.
func NewLink(conn io.ReadWriteCloser, cfg LinkConfig) *Link {
	cfg.applyDefaults()
	return &Link{
		cfg:    cfg,
		conn:   conn,
		logger: cfg.Logger.With(slog.String("device_id", cfg.DeviceID)),
	}
}

// DeviceID returns the device the link serves.
func (l *Link) DeviceID() string { return l.cfg.DeviceID }

// State returns the link state.
func (l *Link) State() LinkState { return LinkState(l.state.Load()) }

// Write sends bytes to the device. Concurrent writes do not interleave.
func (l *Link) Write(p []byte) (int, error) {
	if l.closed.Load() {
		return 0, ErrLinkClosed
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if nc, ok := l.conn.(net.Conn); ok && l.cfg.WriteTimeout > 0 {
		if err := nc.SetWriteDeadline(time.Now().Add(l.cfg.WriteTimeout)); err != nil {
			return 0, err
		}
	}
	return l.conn.Write(p)
}

// Serve creates the device session, routes bytes until the stream ends,
// ctx is done or Close is called, and then destroys the session. It
// returns nil when the stream ended normally.
func (l *Link) Serve(ctx context.Context, r Router) error {
	if _, err := r.CreateSession(l.cfg.DeviceID, l); err != nil {
		l.Close()
		return fmt.Errorf("create session: %w", err)
	}
	l.state.Store(uint32(StateConnected))
	l.logger.Info("link up")

	stop := context.AfterFunc(ctx, func() { l.Close() })
	err := l.readLoop(r)
	stop()

	l.Close()
	r.DestroySession(l.cfg.DeviceID)
	l.logger.Info("link down", slog.Any("error", err))

	if err == nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (l *Link) readLoop(r Router) error {
	buf := make([]byte, l.cfg.ReadBufferSize)
	for {
		n, err := l.conn.Read(buf)
		if n > 0 {
			r.RouteBytes(l.cfg.DeviceID, buf[:n])
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) || l.closed.Load() {
			return nil
		}
		return fmt.Errorf("read: %w", err)
	}
}

// Close closes the stream. It is safe to call more than once.
func (l *Link) Close() error {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		l.state.Store(uint32(StateClosed))
		l.closeErr = l.conn.Close()
	})
	return l.closeErr
}

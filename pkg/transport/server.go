package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Address to listen on, e.g. ":4001".
	Address string

	// Router receives the sessions of accepted links. Required.
	Router Router

	// DeviceID names the device behind an accepted connection. Defaults to
	// the remote address.
	DeviceID func(net.Conn) string

	// Link is the template for accepted links; DeviceID is overwritten.
	Link LinkConfig

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// OnConnect is called when a link is up.
	OnConnect func(*Link)

	// OnDisconnect is called after a link's session is destroyed.
	OnDisconnect func(*Link, error)
}

// Server accepts serial bridges that connect to the host.
type Server struct {
	cfg      ServerConfig
	logger   *slog.Logger
	listener net.Listener

	linksMu sync.RWMutex
	links   map[*Link]struct{}

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer validates cfg and returns a stopped server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Router == nil {
		return nil, ErrNoRouter
	}
	if cfg.DeviceID == nil {
		cfg.DeviceID = func(c net.Conn) string { return c.RemoteAddr().String() }
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Link.Logger == nil {
		cfg.Link.Logger = cfg.Logger
	}
	return &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		links:  make(map[*Link]struct{}),
	}, nil
}

// Start listens and begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return ErrServerRunning
	}

	listener, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = listener
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()

	s.logger.Info("accepting scanner links", slog.String("addr", listener.Addr().String()))
	return nil
}

// Stop closes the listener and every link, and waits for their sessions to
// be destroyed.
func (s *Server) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}
	s.cancel()
	s.listener.Close()

	s.linksMu.RLock()
	for l := range s.links {
		l.Close()
	}
	s.linksMu.RUnlock()

	s.wg.Wait()
	return nil
}

// Addr returns the listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// LinkCount returns the number of active links.
func (s *Server) LinkCount() int {
	s.linksMu.RLock()
	defer s.linksMu.RUnlock()
	return len(s.links)
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() {
				return
			}
			s.logger.Warn("accept failed", slog.Any("error", err))
			continue
		}

		s.wg.Add(1)
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer s.wg.Done()

	cfg := s.cfg.Link
	cfg.DeviceID = s.cfg.DeviceID(conn)
	link := NewLink(conn, cfg)

	s.linksMu.Lock()
	s.links[link] = struct{}{}
	s.linksMu.Unlock()

	if s.cfg.OnConnect != nil {
		s.cfg.OnConnect(link)
	}

	err := link.Serve(s.ctx, s.cfg.Router)

	s.linksMu.Lock()
	delete(s.links, link)
	s.linksMu.Unlock()

	if err != nil && s.running.Load() {
		s.logger.Warn("link failed", slog.String("device_id", cfg.DeviceID), slog.Any("error", err))
	}
	if s.cfg.OnDisconnect != nil {
		s.cfg.OnDisconnect(link, err)
	}
}

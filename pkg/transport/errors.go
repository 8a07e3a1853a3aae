package transport

import "errors"

var (
	// ErrLinkClosed is returned by Write after the link is closed.
	ErrLinkClosed = errors.New("link closed")

	// ErrNoRouter is returned when a server or dialer has no Router.
	ErrNoRouter = errors.New("router is required")

	// ErrServerRunning is returned by Start on a running server.
	ErrServerRunning = errors.New("server already running")
)

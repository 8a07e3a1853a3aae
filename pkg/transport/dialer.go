package transport

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"
)

// DefaultDialTimeout bounds one dial attempt.
const DefaultDialTimeout = 5 * time.Second

// DialConfig configures Run.
type DialConfig struct {
	// Address of the serial bridge, e.g. "192.168.1.20:4001".
	Address string

	// DeviceID names the scanner behind the bridge.
	DeviceID string

	// DialTimeout defaults to DefaultDialTimeout.
	DialTimeout time.Duration

	Backoff BackoffConfig

	// Link is the template for each connection; DeviceID is overwritten.
	Link LinkConfig

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// OnStateChange observes every state transition.
	OnStateChange func(oldState, newState LinkState)
}

// Run dials the bridge and serves the link, redialing with backoff whenever
// it drops. It returns ctx.Err() when ctx is done.
func Run(ctx context.Context, cfg DialConfig, r Router) error {
	if r == nil {
		return ErrNoRouter
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Link.Logger == nil {
		cfg.Link.Logger = cfg.Logger
	}
	cfg.Link.DeviceID = cfg.DeviceID

	logger := cfg.Logger.With(slog.String("device_id", cfg.DeviceID), slog.String("addr", cfg.Address))
	backoff := NewBackoff(cfg.Backoff)
	dialer := &net.Dialer{Timeout: cfg.DialTimeout}

	state := StateDisconnected
	setState := func(s LinkState) {
		if s == state {
			return
		}
		old := state
		state = s
		if cfg.OnStateChange != nil {
			cfg.OnStateChange(old, s)
		}
	}
	defer setState(StateClosed)

	for {
		setState(StateConnecting)
		conn, err := dialer.DialContext(ctx, "tcp", cfg.Address)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			delay := backoff.Next()
			logger.Warn("dial failed", slog.Any("error", err), slog.Duration("retry_in", delay))
			setState(StateReconnecting)
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			continue
		}

		backoff.Reset()
		setState(StateConnected)
		err = NewLink(conn, cfg.Link).Serve(ctx, r)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		setState(StateDisconnected)

		delay := backoff.Next()
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("link dropped", slog.Any("error", err), slog.Duration("retry_in", delay))
		} else {
			logger.Info("link closed by bridge", slog.Duration("retry_in", delay))
		}
		setState(StateReconnecting)
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/opticonnect/opc-go/pkg/battery"
	"github.com/opticonnect/opc-go/pkg/command"
	"github.com/opticonnect/opc-go/pkg/log"
	"github.com/opticonnect/opc-go/pkg/metrics"
	"github.com/opticonnect/opc-go/pkg/wire"
)

// Config configures a Registry and the sessions it creates.
type Config struct {
	// Logger is used for operational logging. Defaults to slog.Default().
	Logger *slog.Logger

	// ProtocolLogger receives capture events. Nil disables capture.
	ProtocolLogger log.Logger

	// Metrics records counters. Nil disables metrics.
	Metrics *metrics.Metrics

	// CommandTimeout is the answer deadline of a command.
	// Defaults to command.DefaultTimeout.
	CommandTimeout time.Duration

	// RetryOnNak retransmits a rejected command once.
	RetryOnNak bool

	// Feedback enables indicator commands after completed commands.
	// Nil disables them.
	Feedback *command.FeedbackDefaults

	// PersistDelay enables the debounced save-settings command.
	PersistDelay time.Duration

	// Checksum validates and seals frames. Defaults to wire.CRC16.
	Checksum wire.ChecksumFunc

	// AcceptZeroChecksum accepts frames with a 0x0000 checksum.
	AcceptZeroChecksum bool

	// ParsePrefix resolves symbologies from identifier prefixes.
	ParsePrefix bool

	// MaxFrameSize bounds one frame. Defaults to wire.DefaultMaxFrameSize.
	MaxFrameSize int

	// Location interprets scanner timestamps. Defaults to UTC.
	Location *time.Location
}

func (c *Config) applyDefaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	c.ProtocolLogger = log.OrNoop(c.ProtocolLogger)
}

// Registry tracks the sessions of connected devices.
type Registry struct {
	cfg Config

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) *Registry {
	cfg.applyDefaults()
	return &Registry{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// CreateSession starts a session for a newly connected device. Command
// frames for the device are written to w. Frames released by an answer
// routed through RouteBytes are written from another goroutine, so w may
// block until the device's reader makes progress.
// Returns ErrSessionExists if the device already has a session.
func (r *Registry) CreateSession(deviceID string, w io.Writer) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}
	if _, exists := r.sessions[deviceID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, deviceID)
	}

	s := newSession(deviceID, w, &r.cfg)
	r.sessions[deviceID] = s

	r.cfg.Metrics.SessionOpened()
	s.logState("", StateOpen, "connected")
	s.logger.Info("session created", slog.String("conn_id", s.connID))
	return s, nil
}

// DestroySession tears down the session of a disconnected device. Pending
// commands have failed with command.ErrDisconnected when it returns.
// Destroying an unknown device is a no-op.
func (r *Registry) DestroySession(deviceID string) {
	r.mu.Lock()
	s, ok := r.sessions[deviceID]
	delete(r.sessions, deviceID)
	r.mu.Unlock()

	if ok {
		s.close("disconnected")
	}
}

// Session returns the session of a device.
func (r *Registry) Session(deviceID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[deviceID]
	return s, ok
}

// Devices returns the IDs of all devices with a session, sorted.
func (r *Registry) Devices() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// mustSession returns the session of a device and panics if there is none.
// Routing for a device without a session is a wiring bug in the transport.
func (r *Registry) mustSession(deviceID string) *Session {
	s, ok := r.Session(deviceID)
	if !ok {
		panic(fmt.Sprintf("session: routing for unknown device %q", deviceID))
	}
	return s
}

// RouteBytes feeds a chunk received from a device into its decoder.
// Chunks of one device are processed one at a time, in call order.
// It panics if the device has no session.
func (r *Registry) RouteBytes(deviceID string, chunk []byte) {
	r.mustSession(deviceID).route(chunk)
}

// RouteBatteryStatus decodes a battery status payload, caches it and
// publishes it. It panics if the device has no session.
func (r *Registry) RouteBatteryStatus(deviceID string, payload []byte) {
	r.mustSession(deviceID).ApplyBatteryStatus(payload)
}

// RouteBatteryLevel applies a standard battery level reading to the cached
// status and publishes the result. It panics if the device has no session.
func (r *Registry) RouteBatteryLevel(deviceID string, payload []byte) {
	r.mustSession(deviceID).ApplyBatteryLevel(payload)
}

// Submit sends a command to a device and waits for its result.
// See command.Channel.Submit for cancellation.
func (r *Registry) Submit(ctx context.Context, deviceID string, spec command.Spec) (*command.Response, error) {
	s, ok := r.Session(deviceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}

	resp, err := s.channel.Submit(ctx, spec)
	var cmdErr *command.Error
	if err != nil && !errors.As(err, &cmdErr) {
		s.logEvent(log.Event{
			Direction: log.DirectionOut,
			Layer:     log.LayerCommand,
			Category:  log.CategoryError,
			Command: &log.CommandEvent{
				Code:   spec.Code,
				Result: log.CommandCancelled,
			},
		})
	}
	return resp, err
}

// Enqueue queues a command without waiting for it.
func (r *Registry) Enqueue(deviceID string, spec command.Spec) (*command.Call, error) {
	s, ok := r.Session(deviceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	return s.channel.Enqueue(spec), nil
}

// Barcodes returns the scan stream of a device.
func (r *Registry) Barcodes(deviceID string) (<-chan wire.BarcodeRecord, error) {
	s, ok := r.Session(deviceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	return s.Barcodes(), nil
}

// Battery returns the battery stream of a device.
func (r *Registry) Battery(deviceID string) (<-chan battery.Status, error) {
	s, ok := r.Session(deviceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	return s.BatteryEvents(), nil
}

// SetFeedback replaces the feedback switches of every current session.
func (r *Registry) SetFeedback(def *command.FeedbackDefaults) {
	r.mu.Lock()
	r.cfg.Feedback = def
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.channel.SetFeedback(def)
	}
}

// Close destroys every session. Later CreateSession calls fail.
func (r *Registry) Close() error {
	r.mu.Lock()
	r.closed = true
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.close("registry closed")
	}
	return nil
}

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/opticonnect/opc-go/pkg/wire"
)

// DefaultTimeout is the answer deadline of a command.
const DefaultTimeout = 2 * time.Second

// Result describes a resolved command. It is passed to Config.OnResult.
type Result struct {
	DeviceID string
	Spec     Spec
	Response *Response
	Err      error
	Retried  bool
	Elapsed  time.Duration
}

// Config configures a Channel.
type Config struct {
	DeviceID string

	// Writer receives encoded command frames. Required. Writes for one
	// channel never overlap, except a retransmit racing a write that is
	// still blocked after a full timeout. Writes triggered by Resolve run on
	// a separate goroutine, so Resolve may be called from the goroutine that
	// reads the same link.
	Writer io.Writer

	// Encoder frames command bytes. Defaults to wire.NewEncoder(nil).
	Encoder *wire.Encoder

	// Timeout is the answer deadline. Defaults to DefaultTimeout.
	Timeout time.Duration

	// RetryOnNak retransmits once on the first NAK instead of failing.
	RetryOnNak bool

	// Feedback enables indicator commands after completed commands.
	// Nil disables them.
	Feedback *FeedbackDefaults

	// PersistDelay enables a debounced CodeSaveSettings command sent that
	// long after the last completed command. Zero disables it.
	PersistDelay time.Duration

	// Logger is used for operational logging. Defaults to slog.Default().
	Logger *slog.Logger

	// OnResult observes every resolved call, after its Done is closed.
	OnResult func(Result)
}

func (c *Config) applyDefaults() {
	if c.Encoder == nil {
		c.Encoder = wire.NewEncoder(nil)
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Channel serializes the commands of one device.
type Channel struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	queue    []*Call
	inflight *Call
	timer    *time.Timer
	gen      uint64
	closed   bool
	persist  *time.Timer
	feedback *FeedbackDefaults

	outMu   sync.Mutex
	outbox  []*Call
	sending bool
}

// NewChannel creates an idle channel.
func NewChannel(cfg Config) *Channel {
	cfg.applyDefaults()
	return &Channel{
		cfg:      cfg,
		logger:   cfg.Logger.With(slog.String("device_id", cfg.DeviceID)),
		feedback: cfg.Feedback,
	}
}

// SetFeedback replaces the global feedback switches. Nil disables feedback.
func (ch *Channel) SetFeedback(def *FeedbackDefaults) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.feedback = def
}

// Pending returns the number of queued and in-flight commands.
func (ch *Channel) Pending() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	n := len(ch.queue)
	if ch.inflight != nil {
		n++
	}
	return n
}

// Enqueue queues spec and returns its call. If the channel is idle the
// command is written before Enqueue returns.
func (ch *Channel) Enqueue(spec Spec) *Call {
	return ch.enqueue(spec, ch.transmit)
}

func (ch *Channel) enqueue(spec Spec, send func(*Call)) *Call {
	call := newCall(spec, ch.cfg.Encoder.EncodeCommand(spec.Encode()))

	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		ch.finish(call, nil, ch.errorFor(call, ErrDisconnected), send)
		return call
	}
	ch.queue = append(ch.queue, call)
	next := ch.advanceLocked()
	ch.mu.Unlock()

	send(next)
	return call
}

// Submit sends spec and waits for its result. If ctx ends while the command
// is still queued it is withdrawn and ctx.Err() returned; a command already
// on the wire is waited for, since the device will answer it.
func (ch *Channel) Submit(ctx context.Context, spec Spec) (*Response, error) {
	call := ch.Enqueue(spec)
	select {
	case <-call.done:
		return call.Response, call.Err
	case <-ctx.Done():
	}

	if ch.withdraw(call, ctx.Err()) {
		return nil, ctx.Err()
	}
	<-call.done
	return call.Response, call.Err
}

func (ch *Channel) withdraw(call *Call, err error) bool {
	ch.mu.Lock()
	i := slices.Index(ch.queue, call)
	if i < 0 {
		ch.mu.Unlock()
		return false
	}
	ch.queue = slices.Delete(ch.queue, i, i+1)
	ch.mu.Unlock()

	call.resolve(nil, err)
	return true
}

// Resolve applies a command response frame to the in-flight command. It
// returns false if the frame is not a command response or nothing is in
// flight.
func (ch *Channel) Resolve(f wire.Frame) bool {
	if !f.Kind.IsCommandResponse() {
		return false
	}

	ch.mu.Lock()
	c := ch.inflight
	if c == nil {
		ch.mu.Unlock()
		ch.logger.Debug("unsolicited command response", slog.String("kind", f.Kind.String()))
		return false
	}

	switch f.Kind {
	case wire.FrameCommandData:
		c.data = append(c.data, f.Payload...)
		ch.mu.Unlock()
		return true

	case wire.FrameCommandNak:
		if ch.cfg.RetryOnNak && !c.nakRetried {
			c.nakRetried = true
			c.retried = true
			c.data = c.data[:0]
			ch.armLocked(c)
			ch.mu.Unlock()
			ch.logger.Debug("command rejected, retransmitting", slog.String("code", c.Spec.Code))
			ch.post(c)
			return true
		}
		next := ch.settleLocked()
		ch.mu.Unlock()
		ch.finish(c, nil, ch.errorFor(c, ErrNak), ch.post)
		ch.post(next)

	case wire.FrameCommandAck:
		next := ch.settleLocked()
		ch.mu.Unlock()
		ch.finish(c, &Response{
			Data:    string(c.data),
			Retried: c.retried,
			Elapsed: time.Since(c.started),
		}, nil, ch.post)
		ch.post(next)
	}
	return true
}

// Close fails every queued and in-flight call with ErrDisconnected before
// returning. Later Enqueue calls fail immediately. Close is idempotent.
func (ch *Channel) Close() {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return
	}
	ch.closed = true
	ch.stopTimerLocked()
	if ch.persist != nil {
		ch.persist.Stop()
		ch.persist = nil
	}
	pending := ch.queue
	if ch.inflight != nil {
		pending = append([]*Call{ch.inflight}, pending...)
	}
	ch.queue = nil
	ch.inflight = nil
	ch.mu.Unlock()

	for _, c := range pending {
		ch.finish(c, nil, ch.errorFor(c, ErrDisconnected), ch.transmit)
	}
}

// advanceLocked starts the next queued call if the channel is idle and
// returns it for transmission.
func (ch *Channel) advanceLocked() *Call {
	if ch.inflight != nil || len(ch.queue) == 0 {
		return nil
	}
	c := ch.queue[0]
	ch.queue = ch.queue[1:]
	ch.inflight = c
	c.started = time.Now()
	ch.armLocked(c)
	return c
}

// settleLocked clears the in-flight slot and starts the next call.
func (ch *Channel) settleLocked() *Call {
	ch.stopTimerLocked()
	ch.inflight = nil
	return ch.advanceLocked()
}

func (ch *Channel) armLocked(c *Call) {
	ch.stopTimerLocked()
	gen := ch.gen
	ch.timer = time.AfterFunc(ch.cfg.Timeout, func() { ch.expire(c, gen) })
}

func (ch *Channel) stopTimerLocked() {
	ch.gen++
	if ch.timer != nil {
		ch.timer.Stop()
		ch.timer = nil
	}
}

func (ch *Channel) expire(c *Call, gen uint64) {
	ch.mu.Lock()
	if gen != ch.gen || ch.inflight != c {
		ch.mu.Unlock()
		return
	}
	if !c.retried {
		c.retried = true
		ch.armLocked(c)
		ch.mu.Unlock()
		ch.logger.Debug("command timed out, retransmitting", slog.String("code", c.Spec.Code))
		ch.transmit(c)
		return
	}
	next := ch.settleLocked()
	ch.mu.Unlock()

	ch.logger.Warn("command timed out", slog.String("code", c.Spec.Code))
	ch.finish(c, nil, ch.errorFor(c, ErrTimeout), ch.transmit)
	ch.transmit(next)
}

// post hands c to the outbox goroutine. Posted calls are written in order.
func (ch *Channel) post(c *Call) {
	if c == nil {
		return
	}
	ch.outMu.Lock()
	ch.outbox = append(ch.outbox, c)
	start := !ch.sending
	ch.sending = true
	ch.outMu.Unlock()

	if start {
		go ch.drain()
	}
}

func (ch *Channel) drain() {
	for {
		ch.outMu.Lock()
		if len(ch.outbox) == 0 {
			ch.sending = false
			ch.outMu.Unlock()
			return
		}
		c := ch.outbox[0]
		ch.outbox = ch.outbox[1:]
		ch.outMu.Unlock()

		ch.mu.Lock()
		closed := ch.closed
		ch.mu.Unlock()
		if !closed {
			ch.transmit(c)
		}
	}
}

// transmit writes c and, if the write fails, fails c and moves on to the
// next call.
func (ch *Channel) transmit(c *Call) {
	for c != nil {
		_, err := ch.cfg.Writer.Write(c.wire)
		if err == nil {
			return
		}

		ch.mu.Lock()
		if ch.inflight != c {
			ch.mu.Unlock()
			return
		}
		next := ch.settleLocked()
		ch.mu.Unlock()

		ch.logger.Warn("command write failed", slog.String("code", c.Spec.Code), slog.Any("error", err))
		ch.finish(c, nil, ch.errorFor(c, fmt.Errorf("%w: %w", ErrWrite, err)), ch.transmit)
		c = next
	}
}

func (ch *Channel) errorFor(c *Call, err error) error {
	return &Error{DeviceID: ch.cfg.DeviceID, Code: c.Spec.Code, Err: err}
}

// finish resolves c and triggers its follow-up commands, written with send.
func (ch *Channel) finish(c *Call, resp *Response, err error, send func(*Call)) {
	var elapsed time.Duration
	if !c.started.IsZero() {
		elapsed = time.Since(c.started)
	}
	c.resolve(resp, err)

	if ch.cfg.OnResult != nil {
		ch.cfg.OnResult(Result{
			DeviceID: ch.cfg.DeviceID,
			Spec:     c.Spec,
			Response: resp,
			Err:      err,
			Retried:  c.retried,
			Elapsed:  elapsed,
		})
	}

	if errors.Is(err, ErrDisconnected) {
		return
	}

	ch.mu.Lock()
	def := ch.feedback
	ch.mu.Unlock()
	if def != nil && (err == nil || errors.Is(err, ErrNak)) {
		for _, fb := range feedbackSpecs(c.Spec, *def, err == nil) {
			ch.enqueue(fb, send)
		}
	}

	if c.Spec.Code != CodeSaveSettings {
		ch.schedulePersist()
	}
}

func (ch *Channel) schedulePersist() {
	if ch.cfg.PersistDelay <= 0 {
		return
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.closed {
		return
	}
	if ch.persist != nil {
		ch.persist.Stop()
	}
	ch.persist = time.AfterFunc(ch.cfg.PersistDelay, func() {
		ch.Enqueue(Raw(CodeSaveSettings))
	})
}

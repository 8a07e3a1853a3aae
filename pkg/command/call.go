package command

import (
	"context"
	"time"
)

// Response is the result of an acknowledged command.
type Response struct {
	// Data is the response data received before the ACK.
	Data string

	// Retried reports whether the command was retransmitted.
	Retried bool

	// Elapsed is the time from first transmission to the ACK.
	Elapsed time.Duration
}

// Call is a queued or in-flight command.
type Call struct {
	Spec Spec

	// Response and Err are valid once Done is closed. Exactly one is set.
	Response *Response
	Err      error

	done chan struct{}

	// Owned by the channel, guarded by its mutex.
	wire       []byte
	data       []byte
	retried    bool
	nakRetried bool
	started    time.Time
}

func newCall(spec Spec, wire []byte) *Call {
	return &Call{
		Spec: spec,
		wire: wire,
		done: make(chan struct{}),
	}
}

// Done is closed when the call resolves.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call resolves or ctx is done. Cancelling ctx does
// not withdraw the command; use Channel.Submit for that.
func (c *Call) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-c.done:
		return c.Response, c.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// resolve must be called exactly once, without the channel lock held.
func (c *Call) resolve(resp *Response, err error) {
	c.Response = resp
	c.Err = err
	close(c.done)
}

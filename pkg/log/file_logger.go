package log

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fxamacker/cbor/v2"
)

// FileExt is the conventional extension of capture files.
const FileExt = ".olog"

// StreamLogger writes events as a CBOR sequence to a writer.
// It is safe for concurrent use.
type StreamLogger struct {
	mu      sync.Mutex
	w       io.Writer
	closer  io.Closer
	encoder *cbor.Encoder
	closed  bool
	dropped atomic.Uint64
}

// NewStreamLogger returns a logger writing to w. Close closes w if it is
// an io.Closer.
func NewStreamLogger(w io.Writer) *StreamLogger {
	l := &StreamLogger{w: w, encoder: NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// NewFileLogger opens path for appending (creating it with mode 0644) and
// returns a logger writing to it.
func NewFileLogger(path string) (*StreamLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return NewStreamLogger(f), nil
}

// Log writes an event. Write errors never reach the caller; they are
// counted in Dropped.
func (l *StreamLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		l.dropped.Add(1)
		return
	}
	if err := l.encoder.Encode(event); err != nil {
		l.dropped.Add(1)
	}
}

// Dropped returns the number of events that could not be written.
func (l *StreamLogger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close stops logging and closes the underlying writer. It is safe to call
// more than once.
func (l *StreamLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

var _ Logger = (*StreamLogger)(nil)

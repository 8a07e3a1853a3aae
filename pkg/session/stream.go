package session

import "sync"

// stream delivers values on a channel through an unbounded buffer, so
// push never waits for the consumer.
type stream[T any] struct {
	out    chan T
	notify chan struct{}
	done   chan struct{}

	mu     sync.Mutex
	buf    []T
	closed bool
}

func newStream[T any]() *stream[T] {
	s := &stream[T]{
		out:    make(chan T),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go s.pump()
	return s
}

// C returns the receive channel. It is closed after close.
func (s *stream[T]) C() <-chan T {
	return s.out
}

// push queues v. Values pushed after close are discarded.
func (s *stream[T]) push(v T) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.buf = append(s.buf, v)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// len returns the number of undelivered values.
func (s *stream[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// close stops delivery. Undelivered values are dropped.
func (s *stream[T]) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.buf = nil
	s.mu.Unlock()
	close(s.done)
}

func (s *stream[T]) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.buf) == 0 {
			s.mu.Unlock()
			select {
			case <-s.notify:
				continue
			case <-s.done:
				return
			}
		}
		v := s.buf[0]
		var zero T
		s.buf[0] = zero
		s.buf = s.buf[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}

package observable

import (
	"sync"
	"sync/atomic"
)

// DefaultStreamBuffer is the channel capacity used when NewStream receives a
// non-positive size.
const DefaultStreamBuffer = 64

// Stream is a typed fan-out of values to buffered channels. Publish never
// blocks: a value is dropped for a subscriber whose buffer is full and the
// drop is counted.
type Stream[T any] struct {
	mu      sync.RWMutex
	subs    []chan T
	buffer  int
	closed  bool
	dropped atomic.Uint64
}

// NewStream creates a Stream whose subscriber channels hold buffer values.
func NewStream[T any](buffer int) *Stream[T] {
	if buffer <= 0 {
		buffer = DefaultStreamBuffer
	}
	return &Stream[T]{buffer: buffer}
}

// Publish delivers v to every subscriber with room in its buffer.
func (s *Stream[T]) Publish(v T) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
			s.dropped.Add(1)
		}
	}
}

// Subscribe returns a new channel receiving published values. The channel is
// already closed when the stream is.
func (s *Stream[T]) Subscribe() <-chan T {
	ch := make(chan T, s.buffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

// Unsubscribe detaches and closes sub.
func (s *Stream[T]) Unsubscribe(sub <-chan T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ch := range s.subs {
		if ch == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Dropped reports how many deliveries were skipped because a buffer was full.
func (s *Stream[T]) Dropped() uint64 { return s.dropped.Load() }

// Close closes every subscriber channel. Later publishes are ignored.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}

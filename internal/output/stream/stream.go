// Package stream exposes progress events as a Go channel so library callers
// can render them however they like.
package stream

import (
	"context"
	"sync"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

// Stream is an output whose events are read from Events. Write blocks while
// the buffer is full; Close releases any blocked writer.
type Stream struct {
	mu     sync.RWMutex
	ch     chan model.Event
	done   chan struct{}
	once   sync.Once
	closed bool
}

// New creates a Stream with a buffer of size events.
func New(size int) *Stream {
	if size < 0 {
		size = 0
	}
	return &Stream{
		ch:   make(chan model.Event, size),
		done: make(chan struct{}),
	}
}

// Events returns the receive side. It is closed by Close.
func (s *Stream) Events() <-chan model.Event {
	return s.ch
}

// Write delivers event to the subscriber. Writes after Close are dropped.
func (s *Stream) Write(ctx context.Context, event model.Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}
	select {
	case s.ch <- event:
		return nil
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the events channel. Safe to call more than once.
func (s *Stream) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
	})
	return nil
}

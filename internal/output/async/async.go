package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/carlosaherrerap/Evidencias/internal/model"
	"github.com/carlosaherrerap/Evidencias/internal/output"
)

const (
	defaultBufferSize   = 256
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel buffer capacity. Default: 256.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithOnError sets the callback invoked when the inner output's Write fails.
// Default: logs a warning via slog.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDropOnFull makes Write drop the event instead of blocking when the
// buffer is full.
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// WithDrainTimeout bounds how long Close waits for buffered events.
func WithDrainTimeout(d time.Duration) Option {
	return func(a *Async) { a.drainTimeout = d }
}

// Async decouples the run loop from a slow sink via a buffered channel.
// A background goroutine drains the channel into the wrapped output; its
// errors go to errFunc rather than back to the caller.
type Async struct {
	inner        output.Output
	ch           chan model.Event
	done         chan struct{}
	errFunc      func(error)
	bufSize      int
	dropOnFull   bool
	drainTimeout time.Duration
	closeOnce    sync.Once
}

// New wraps inner. The drain goroutine starts immediately.
func New(inner output.Output, opts ...Option) *Async {
	a := &Async{
		inner:        inner,
		bufSize:      defaultBufferSize,
		drainTimeout: defaultDrainTimeout,
		errFunc:      func(err error) { slog.Warn("async output write error", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.bufSize < 1 {
		a.bufSize = 1
	}
	a.ch = make(chan model.Event, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Write queues the event. It blocks while the buffer is full unless
// WithDropOnFull was given, or until ctx is done.
func (a *Async) Write(ctx context.Context, event model.Event) error {
	if a.dropOnFull {
		select {
		case a.ch <- event:
		default:
			slog.Warn("async output buffer full, dropping event",
				"cuenta", event.Cuenta, "current", event.Current)
		}
		return nil
	}
	select {
	case a.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events, waits for the drain (bounded by the drain
// timeout), then closes the inner output.
func (a *Async) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.ch)
		timer := time.NewTimer(a.drainTimeout)
		defer timer.Stop()
		select {
		case <-a.done:
		case <-timer.C:
			slog.Warn("async output drain timed out")
		}
		err = a.inner.Close()
	})
	return err
}

func (a *Async) drain() {
	defer close(a.done)
	for event := range a.ch {
		if err := a.inner.Write(context.Background(), event); err != nil {
			a.errFunc(err)
		}
	}
}

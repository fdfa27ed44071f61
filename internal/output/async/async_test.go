package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockOutput struct {
	mu     sync.Mutex
	events []model.Event
	closed bool
	err    error         // if set, Write returns this
	delay  time.Duration // if >0, Write sleeps first
}

func (m *mockOutput) Write(_ context.Context, event model.Event) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	return m.err
}

func (m *mockOutput) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

func (m *mockOutput) eventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func testEvent(n int) model.Event {
	return model.Event{Current: n, Total: 50, Message: "progress", Level: model.LevelInfo}
}

func TestEventsFlowThroughInOrder(t *testing.T) {
	inner := &mockOutput{}
	a := New(inner, WithBufferSize(16))

	for i := 1; i <= 10; i++ {
		if err := a.Write(context.Background(), testEvent(i)); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	if inner.eventCount() != 10 {
		t.Fatalf("got %d events, want 10", inner.eventCount())
	}
	for i, ev := range inner.events {
		if ev.Current != i+1 {
			t.Fatalf("event %d has Current=%d, order not preserved", i, ev.Current)
		}
	}
	if !inner.closed {
		t.Error("inner output not closed")
	}
}

func TestBackpressureBlocks(t *testing.T) {
	inner := &mockOutput{delay: 50 * time.Millisecond}
	a := New(inner, WithBufferSize(1))

	a.Write(context.Background(), testEvent(1))

	done := make(chan struct{})
	go func() {
		a.Write(context.Background(), testEvent(2))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Write blocked indefinitely (expected eventual unblock via drain)")
	}

	a.Close()
}

func TestWriteHonorsContext(t *testing.T) {
	inner := &mockOutput{delay: 200 * time.Millisecond}
	a := New(inner, WithBufferSize(1))
	defer a.Close()

	a.Write(context.Background(), testEvent(1))
	a.Write(context.Background(), testEvent(2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Write(ctx, testEvent(3)); err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("Write error = %v, want nil or context.Canceled", err)
	}
}

func TestDropOnFull(t *testing.T) {
	inner := &mockOutput{delay: 100 * time.Millisecond}
	a := New(inner, WithBufferSize(1), WithDropOnFull())

	for i := 0; i < 20; i++ {
		a.Write(context.Background(), testEvent(i))
	}

	a.Close()

	if inner.eventCount() == 20 {
		t.Error("expected some events to be dropped in drop-on-full mode")
	}
	if inner.eventCount() == 0 {
		t.Error("expected at least some events to be delivered")
	}
}

func TestCloseDrainsRemaining(t *testing.T) {
	inner := &mockOutput{}
	a := New(inner, WithBufferSize(100))

	for i := 0; i < 50; i++ {
		a.Write(context.Background(), testEvent(i))
	}

	a.Close()

	if inner.eventCount() != 50 {
		t.Errorf("after Close, got %d events, want 50 (drain incomplete)", inner.eventCount())
	}
}

func TestErrorCallbackInvoked(t *testing.T) {
	inner := &mockOutput{err: errors.New("write failed")}
	var errorCount atomic.Int64
	a := New(inner, WithBufferSize(16), WithOnError(func(err error) {
		errorCount.Add(1)
	}))

	for i := 0; i < 5; i++ {
		a.Write(context.Background(), testEvent(i))
	}

	a.Close()

	if errorCount.Load() != 5 {
		t.Errorf("error callback called %d times, want 5", errorCount.Load())
	}
}

func TestCloseIdempotent(t *testing.T) {
	inner := &mockOutput{}
	a := New(inner, WithBufferSize(16))

	a.Write(context.Background(), testEvent(1))

	if err := a.Close(); err != nil {
		t.Fatalf("first Close error: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second Close error: %v", err)
	}
}

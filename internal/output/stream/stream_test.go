package stream

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/goleak"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSubscriberReceivesInOrder(t *testing.T) {
	s := New(0)

	got := make(chan []int)
	go func() {
		var seen []int
		for ev := range s.Events() {
			seen = append(seen, ev.Current)
		}
		got <- seen
	}()

	for i := 1; i <= 3; i++ {
		if err := s.Write(context.Background(), model.Event{Current: i, Total: 3}); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	s.Close()

	seen := <-got
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", seen)
	}
}

func TestWriteAfterCloseDropped(t *testing.T) {
	s := New(1)
	s.Close()
	if err := s.Write(context.Background(), model.Event{}); err != nil {
		t.Fatalf("Write after Close = %v, want nil", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close = %v", err)
	}
	if _, ok := <-s.Events(); ok {
		t.Fatal("expected closed channel")
	}
}

func TestWriteUnblocksOnCancel(t *testing.T) {
	s := New(0)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Write(ctx, model.Event{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Write = %v, want context.Canceled", err)
	}
}

func TestCloseReleasesBlockedWriter(t *testing.T) {
	s := New(0)

	done := make(chan error)
	go func() {
		done <- s.Write(context.Background(), model.Event{Current: 1})
	}()

	s.Close()
	if err := <-done; err != nil {
		t.Fatalf("blocked Write returned %v, want nil", err)
	}
}

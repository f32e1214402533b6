package typebus

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestGroup_AddAndCount(t *testing.T) {
	b := newTestBus(t)
	g := NewGroup()

	h := g.Add(b.Subscribe(For[string](), Current, nopHandler()))
	if h == nil {
		t.Fatal("Add should return the handle")
	}
	g.Add(b.Subscribe(For[int](), Current, nopHandler()))

	if g.Count() != 2 {
		t.Errorf("expected 2 tracked handles, got %d", g.Count())
	}

	if g.Add(nil) != nil {
		t.Error("Add(nil) should return nil")
	}
	if g.Count() != 2 {
		t.Errorf("Add(nil) should not grow the group, got %d", g.Count())
	}
}

func TestGroup_CancelAll(t *testing.T) {
	b := newTestBus(t)
	g := NewGroup()

	var count atomic.Int32
	for i := 0; i < 3; i++ {
		g.Add(b.SubscribeFunc(For[string](), Current, func(ctx context.Context, event any) error {
			count.Add(1)
			return nil
		}))
	}

	b.Post(context.Background(), "before")
	if count.Load() != 3 {
		t.Fatalf("expected 3 deliveries before CancelAll, got %d", count.Load())
	}

	g.CancelAll()

	b.Post(context.Background(), "after")
	if count.Load() != 3 {
		t.Errorf("expected no deliveries after CancelAll, got %d", count.Load()-3)
	}
	if g.Count() != 0 {
		t.Errorf("expected empty group after CancelAll, got %d", g.Count())
	}
	if b.Stats().ActiveRegistrations != 0 {
		t.Errorf("expected 0 active registrations, got %d", b.Stats().ActiveRegistrations)
	}
}

func TestGroup_PauseResumeAll(t *testing.T) {
	b := newTestBus(t)
	g := NewGroup()

	var count atomic.Int32
	g.Add(b.SubscribeFunc(For[string](), Current, func(ctx context.Context, event any) error {
		count.Add(1)
		return nil
	}))

	g.PauseAll()
	b.Post(context.Background(), "paused")
	if count.Load() != 0 {
		t.Error("paused handle received an event")
	}

	g.ResumeAll()
	b.Post(context.Background(), "resumed")
	if count.Load() != 1 {
		t.Errorf("expected 1 delivery after ResumeAll, got %d", count.Load())
	}
}

func TestGroup_Concurrent(t *testing.T) {
	b := newTestBus(t)
	g := NewGroup()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			g.Add(b.Subscribe(AnyEvent, Current, nopHandler()))
		}()
		go func() {
			defer wg.Done()
			g.CancelAll()
		}()
	}
	wg.Wait()

	g.CancelAll()
	if b.Stats().ActiveRegistrations != 0 {
		t.Errorf("expected 0 active registrations, got %d", b.Stats().ActiveRegistrations)
	}
}

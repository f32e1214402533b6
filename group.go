package typebus

import "sync"

// Group collects handles so a scope can cancel them together. A UI or
// lifecycle integration layer typically creates one group per attached
// scope, adds every handle it takes out, and calls CancelAll on teardown.
type Group struct {
	mu      sync.Mutex
	handles []Handle
}

// NewGroup creates an empty handle group.
func NewGroup() *Group {
	return &Group{}
}

// Add tracks a handle for collective cancellation and returns it, so
// subscribe calls can be wrapped in place:
//
//	g.Add(bus.Subscribe(typebus.For[Saved](), typebus.Main, handler))
func (g *Group) Add(h Handle) Handle {
	if h == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	g.handles = append(g.handles, h)
	return h
}

// CancelAll cancels every tracked handle and empties the group. Handles
// added concurrently with CancelAll end up in either this batch or the next.
func (g *Group) CancelAll() {
	g.mu.Lock()
	handles := g.handles
	g.handles = nil
	g.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
}

// PauseAll pauses every tracked handle.
func (g *Group) PauseAll() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, h := range g.handles {
		h.Pause()
	}
}

// ResumeAll resumes every tracked handle.
func (g *Group) ResumeAll() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, h := range g.handles {
		h.Resume()
	}
}

// Count returns the number of tracked handles.
func (g *Group) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.handles)
}

package typebus

import (
	"context"
	"sync"
)

var (
	defaultOnce sync.Once
	defaultBus  Bus
)

// Default returns the process-wide shared bus, lazily initialized on first
// use. It lives for the process lifetime and has no teardown hook. For
// isolation (tests, per-module buses) create independent instances with New.
func Default() Bus {
	defaultOnce.Do(func() {
		defaultBus = New()
	})
	return defaultBus
}

// Post dispatches an event on the default bus.
func Post(ctx context.Context, event any) {
	Default().Post(ctx, event)
}

// Subscribe registers a handler on the default bus.
func Subscribe(filter TypeFilter, target Target, handler Handler, opts ...SubscribeOption) Handle {
	return Default().Subscribe(filter, target, handler, opts...)
}

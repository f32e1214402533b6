package typebus

import "context"

// OnReceive subscribes fn for values of type T, invoked inline on the
// posting goroutine. The filter is derived from T; values of other types
// never reach fn.
func OnReceive[T any](b Bus, fn func(ctx context.Context, event T) error, opts ...SubscribeOption) Handle {
	return b.Subscribe(For[T](), Current, typedHandler(fn), opts...)
}

// OnMainThread subscribes fn for values of type T, executed on the bus's
// main loop.
func OnMainThread[T any](b Bus, fn func(ctx context.Context, event T) error, opts ...SubscribeOption) Handle {
	return b.Subscribe(For[T](), Main, typedHandler(fn), opts...)
}

// OnBackgroundThread subscribes fn for values of type T, executed on the
// worker pool under the given priority class.
func OnBackgroundThread[T any](b Bus, p Priority, fn func(ctx context.Context, event T) error, opts ...SubscribeOption) Handle {
	return b.Subscribe(For[T](), Background(p), typedHandler(fn), opts...)
}

// typedHandler wraps a typed callback in a type-asserting Handler. The
// assertion is a safety net; the derived filter already restricts what the
// bus delivers.
func typedHandler[T any](fn func(ctx context.Context, event T) error) Handler {
	return HandlerFunc(func(ctx context.Context, event any) error {
		v, ok := event.(T)
		if !ok {
			// Type mismatch - skip silently
			return nil
		}
		return fn(ctx, v)
	})
}

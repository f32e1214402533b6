package typebus

import "context"

// Handler is the interface for event handlers.
type Handler interface {
	// Handle processes an event.
	// The event parameter is type-erased; handlers should type-assert.
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// PanicHandler is called when a handler panics during dispatch.
// It receives the event being processed, the panic value, and the stack trace.
type PanicHandler func(event any, recovered any, stack []byte)

// ErrorHandler is called when a handler returns an error.
type ErrorHandler func(event any, err error)

// Stats contains a snapshot of bus activity counters.
type Stats struct {
	// EventsPosted is the total number of Post calls, matching or not.
	EventsPosted uint64

	// EventsDelivered is the number of handler invocations that completed
	// without error or panic.
	EventsDelivered uint64

	// EventsDropped is the number of main/background submissions rejected
	// because the destination queue was full or closed.
	EventsDropped uint64

	// HandlerErrors is the number of handler invocations that returned errors.
	HandlerErrors uint64

	// HandlerPanics is the number of handler invocations that panicked.
	HandlerPanics uint64

	// ActiveRegistrations is the current number of active registrations.
	ActiveRegistrations int

	// MainQueueDepth is the number of tasks waiting on the main loop.
	MainQueueDepth int

	// BackgroundQueueDepth is the number of tasks waiting in the worker pool.
	BackgroundQueueDepth int
}

// Recorder defines metrics hooks for bus operations. Implementations must
// be safe for concurrent use. The default recorder discards everything;
// see the prom subpackage for a Prometheus-backed implementation.
type Recorder interface {
	RecordPost(matched int)
	RecordDelivery(target string)
	RecordDrop(target string, reason string)
	RecordHandlerError(target string)
	RecordHandlerPanic(target string)
}

type nopRecorder struct{}

func (nopRecorder) RecordPost(matched int)                  {}
func (nopRecorder) RecordDelivery(target string)            {}
func (nopRecorder) RecordDrop(target string, reason string) {}
func (nopRecorder) RecordHandlerError(target string)        {}
func (nopRecorder) RecordHandlerPanic(target string)        {}

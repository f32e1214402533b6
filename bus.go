package typebus

import (
	"context"
	"reflect"
	"sync/atomic"

	"github.com/rc-rogers/typebus/dispatch"
)

// Bus is the central event bus interface. All methods are safe for
// concurrent use from arbitrary goroutines.
type Bus interface {
	// Post dispatches an event to every registration whose type filter
	// matches the event's dynamic type. Current-target handlers run inline,
	// in registration order, before Post returns; main and background
	// handlers are submitted to their execution contexts in registration
	// order and run later. Post never blocks on handler execution and never
	// fails; an event matching zero registrations is a silent no-op.
	Post(ctx context.Context, event any)

	// Subscribe registers a handler for events matching the filter,
	// executed on the given target. The insertion is atomic; the returned
	// handle cancels exactly this registration. Subscribe panics on a nil
	// handler. After Close it returns an inert, already-cancelled handle.
	Subscribe(filter TypeFilter, target Target, handler Handler, opts ...SubscribeOption) Handle

	// SubscribeFunc is a convenience method for subscribing with a
	// function handler.
	SubscribeFunc(filter TypeFilter, target Target, fn HandlerFunc, opts ...SubscribeOption) Handle

	// Unsubscribe cancels a handle. Equivalent to h.Cancel().
	Unsubscribe(h Handle)

	// MainLoop returns the loop serving this bus's main-target handlers.
	// The host is expected to drive it from its UI/main goroutine via Run
	// or RunPending.
	MainLoop() *dispatch.Loop

	// Close tears the bus down: every registration is cancelled without
	// invoking its handler, the worker pool drains, and subsequent posts
	// become safe no-ops. Close is idempotent. The error is the context's
	// if the pool does not drain in time.
	Close(ctx context.Context) error

	// Stats returns a snapshot of bus activity counters.
	Stats() Stats
}

// bus is the default Bus implementation.
type bus struct {
	registry *registry

	// Execution contexts
	inline   *dispatch.SyncDispatcher
	loop     *dispatch.Loop
	ownsLoop bool
	pool     *dispatch.Pool

	closed atomic.Bool

	config busConfig

	// Stats
	eventsPosted  atomic.Uint64
	eventsDropped atomic.Uint64
}

// New creates an independent bus. Instances share no state; use separate
// buses for isolation (per-module buses, test buses).
func New(opts ...Option) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	b := &bus{
		registry: newRegistry(),
		config:   config,
	}

	b.inline = dispatch.NewSyncDispatcher(
		dispatch.WithPanicHandler(b.panicHook("current")),
	)

	if config.mainLoop != nil {
		b.loop = config.mainLoop
	} else {
		b.loop = dispatch.NewLoop(
			dispatch.WithLoopQueueSize(config.mainQueueSize),
			dispatch.WithLoopPanicHandler(b.panicHook("main")),
		)
		b.ownsLoop = true
	}

	b.pool = dispatch.NewPool(
		dispatch.WithQueueSize(config.backgroundQueueSize),
		dispatch.WithWorkerCount(config.backgroundWorkers),
		dispatch.WithPoolPanicHandler(b.panicHook("background")),
	)
	// A freshly created pool cannot already be running.
	_ = b.pool.Start()

	return b
}

// Post dispatches an event to all matching registrations.
func (b *bus) Post(ctx context.Context, event any) {
	if b.closed.Load() {
		return
	}

	eventType := reflect.TypeOf(event)
	regs := b.registry.match(eventType)

	b.eventsPosted.Add(1)
	b.config.metrics.RecordPost(len(regs))

	for _, reg := range regs {
		h := b.deliver(reg)

		switch reg.target.Kind() {
		case KindCurrent:
			b.inline.Dispatch(ctx, event, h)
		case KindMain:
			if err := b.loop.Submit(ctx, event, h); err != nil {
				b.dropped(event, "main", err)
			}
		case KindBackground:
			if err := b.pool.Submit(ctx, event, h, poolClass(reg.target.Priority())); err != nil {
				b.dropped(event, "background", err)
			}
		}
	}
}

// deliver wraps a registration's handler with the checks and bookkeeping
// shared by all targets: the late activity re-check, error surfacing, and
// once-cancellation. Panic recovery stays with the execution contexts.
func (b *bus) deliver(reg *registration) Handler {
	target := reg.target.Kind().String()

	return HandlerFunc(func(ctx context.Context, event any) error {
		if !reg.shouldDeliver(event) {
			return nil
		}

		if err := reg.handler.Handle(ctx, event); err != nil {
			b.config.metrics.RecordHandlerError(target)
			if b.config.errorHandler != nil {
				b.config.errorHandler(event, err)
			}
			b.config.logger.Warn().
				Err(err).
				Str("target", target).
				Str("registration", reg.id).
				Msg("handler returned error")
			return err
		}

		b.config.metrics.RecordDelivery(target)
		if reg.config.once {
			reg.Cancel()
		}
		return nil
	})
}

// panicHook builds the dispatch-level panic callback for one target.
func (b *bus) panicHook(target string) dispatch.PanicHandler {
	return func(event any, panicValue any, stack []byte) {
		b.config.metrics.RecordHandlerPanic(target)
		if b.config.panicHandler != nil {
			b.config.panicHandler(event, panicValue, stack)
		}
		b.config.logger.Error().
			Err(&PanicError{Target: target, Value: panicValue, Stack: stack}).
			Str("target", target).
			Interface("panic", panicValue).
			Msg("handler panicked")
	}
}

// dropped records a rejected main/background submission.
func (b *bus) dropped(event any, target string, err error) {
	b.eventsDropped.Add(1)
	b.config.metrics.RecordDrop(target, err.Error())
	b.config.logger.Warn().
		Err(err).
		Str("target", target).
		Type("event", event).
		Msg("dropped event submission")
}

// Subscribe registers a handler for matching events.
func (b *bus) Subscribe(filter TypeFilter, target Target, handler Handler, opts ...SubscribeOption) Handle {
	if handler == nil {
		panic("typebus: Subscribe called with nil handler")
	}

	reg := newRegistration(b, filter, target, handler, opts...)

	if b.closed.Load() {
		reg.owner = nil
		reg.markCancelled()
		return reg
	}

	b.registry.add(reg)

	// Close may have raced the insert; make sure nothing survives teardown.
	if b.closed.Load() {
		reg.Cancel()
	}

	return reg
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *bus) SubscribeFunc(filter TypeFilter, target Target, fn HandlerFunc, opts ...SubscribeOption) Handle {
	return b.Subscribe(filter, target, fn, opts...)
}

// Unsubscribe cancels a handle.
func (b *bus) Unsubscribe(h Handle) {
	if h == nil {
		return
	}
	h.Cancel()
}

// remove detaches a registration from the registry. Called by Handle.Cancel.
func (b *bus) remove(reg *registration) {
	b.registry.remove(reg.id)
}

// MainLoop returns the loop serving main-target handlers.
func (b *bus) MainLoop() *dispatch.Loop {
	return b.loop
}

// Close tears down the bus.
func (b *bus) Close(ctx context.Context) error {
	if b.closed.Swap(true) {
		return nil
	}

	for _, reg := range b.registry.clear() {
		reg.markCancelled()
	}

	if b.ownsLoop {
		b.loop.Close()
	}

	return b.pool.Stop(ctx)
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	syncStats := b.inline.Stats()
	loopStats := b.loop.Stats()
	poolStats := b.pool.Stats()

	return Stats{
		EventsPosted:         b.eventsPosted.Load(),
		EventsDelivered:      syncStats.Succeeded + loopStats.Succeeded + poolStats.Succeeded,
		EventsDropped:        b.eventsDropped.Load(),
		HandlerErrors:        syncStats.Failed + loopStats.Failed + poolStats.Failed,
		HandlerPanics:        syncStats.Panicked + loopStats.Panicked + poolStats.Panicked,
		ActiveRegistrations:  b.registry.countActive(),
		MainQueueDepth:       b.loop.Len(),
		BackgroundQueueDepth: b.pool.QueueDepth(),
	}
}

// poolClass maps a Priority to its worker-pool class.
func poolClass(p Priority) dispatch.Class {
	switch p {
	case PriorityLow:
		return dispatch.ClassLow
	case PriorityHigh:
		return dispatch.ClassHigh
	default:
		return dispatch.ClassDefault
	}
}

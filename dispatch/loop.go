package dispatch

import (
	"context"
	"sync/atomic"
)

// Loop is a serial execution context for main-target handlers. Tasks are
// submitted from any goroutine and executed one at a time on whichever
// goroutine drives the loop, typically the host's UI/main goroutine.
//
// Submission never blocks: when the queue is full the task is dropped and
// Submit reports ErrQueueFull. A task submitted from the driving goroutine
// itself runs only on a later pass through Run or RunPending; there is no
// inline short-circuit.
type Loop struct {
	queue    chan task
	executor *Executor
	done     chan struct{}

	running atomic.Bool
	closed  atomic.Bool

	// Stats
	submitted atomic.Uint64
	processed atomic.Uint64
	succeeded atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64
	dropped   atomic.Uint64
}

// task is a unit of deferred handler execution.
type task struct {
	ctx     context.Context
	event   any
	handler Handler
}

// NewLoop creates a new main loop.
func NewLoop(opts ...LoopOption) *Loop {
	cfg := loopConfig{
		queueSize:    1024,
		panicHandler: defaultPanicHandler,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Loop{
		queue:    make(chan task, cfg.queueSize),
		executor: NewExecutor(WithExecutorPanicHandler(cfg.panicHandler)),
		done:     make(chan struct{}),
	}
}

// LoopOption configures a Loop.
type LoopOption func(*loopConfig)

type loopConfig struct {
	queueSize    int
	panicHandler PanicHandler
}

// WithLoopQueueSize sets the submission queue size.
func WithLoopQueueSize(size int) LoopOption {
	return func(c *loopConfig) {
		if size > 0 {
			c.queueSize = size
		}
	}
}

// WithLoopPanicHandler sets the panic handler for loop execution.
func WithLoopPanicHandler(h PanicHandler) LoopOption {
	return func(c *loopConfig) {
		if h != nil {
			c.panicHandler = h
		}
	}
}

// Submit queues a handler invocation for execution on the loop.
// Returns ErrLoopClosed after Close, or ErrQueueFull when the queue is at
// capacity. It never blocks.
func (l *Loop) Submit(ctx context.Context, event any, handler Handler) error {
	if l.closed.Load() {
		return ErrLoopClosed
	}

	select {
	case l.queue <- task{ctx: ctx, event: event, handler: handler}:
		l.submitted.Add(1)
		return nil
	default:
		l.dropped.Add(1)
		return ErrQueueFull
	}
}

// Run executes queued tasks on the calling goroutine until the context is
// cancelled or the loop is closed. Only one Run may be active at a time.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case t := <-l.queue:
			l.process(t)
		}
	}
}

// RunPending drains tasks that are already queued without blocking and
// returns the number executed. Intended for hosts that pump the loop once
// per frame, and for tests.
func (l *Loop) RunPending() int {
	n := 0
	for {
		select {
		case t := <-l.queue:
			l.process(t)
			n++
		default:
			return n
		}
	}
}

// process executes a single task with panic recovery.
func (l *Loop) process(t task) {
	l.processed.Add(1)

	result := l.executor.Execute(t.ctx, t.event, t.handler)

	switch {
	case result.Skipped:
		l.failed.Add(1)
	case result.Panicked:
		l.panicked.Add(1)
	case result.Error != nil:
		l.failed.Add(1)
	case result.Success:
		l.succeeded.Add(1)
	}
}

// Close stops the loop. Subsequent submissions return ErrLoopClosed and an
// active Run returns nil. Tasks still queued are never executed.
func (l *Loop) Close() {
	if l.closed.CompareAndSwap(false, true) {
		close(l.done)
	}
}

// Len returns the number of tasks waiting in the queue.
func (l *Loop) Len() int {
	return len(l.queue)
}

// IsRunning returns true while a Run call is active.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// Stats returns loop statistics.
func (l *Loop) Stats() LoopStats {
	return LoopStats{
		Submitted:  l.submitted.Load(),
		Processed:  l.processed.Load(),
		Succeeded:  l.succeeded.Load(),
		Failed:     l.failed.Load(),
		Panicked:   l.panicked.Load(),
		Dropped:    l.dropped.Load(),
		QueueDepth: len(l.queue),
	}
}

// LoopStats contains statistics for a main loop.
type LoopStats struct {
	// Submitted is the number of tasks accepted into the queue.
	Submitted uint64

	// Processed is the number of tasks executed.
	Processed uint64

	// Succeeded is the number of successful handler executions.
	Succeeded uint64

	// Failed is the number of handlers that returned errors or were skipped.
	Failed uint64

	// Panicked is the number of handlers that panicked.
	Panicked uint64

	// Dropped is the number of submissions rejected because the queue was full.
	Dropped uint64

	// QueueDepth is the current number of queued tasks.
	QueueDepth int
}

package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
)

// Class identifies a worker-pool priority class. Each class has its own
// FIFO queue and worker set, so ordering is preserved within a class but
// never across classes.
// This mirrors the typebus.Priority values to avoid circular imports.
type Class int

const (
	// ClassLow is the lowest priority class.
	ClassLow Class = iota

	// ClassDefault is the standard priority class.
	ClassDefault

	// ClassHigh is the highest priority class.
	ClassHigh

	numClasses = 3
)

// String returns a human-readable class name.
func (c Class) String() string {
	switch c {
	case ClassLow:
		return "low"
	case ClassDefault:
		return "default"
	case ClassHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Pool executes handlers asynchronously on per-class worker sets.
// It provides bounded queuing, graceful shutdown, and panic recovery.
type Pool struct {
	// Configuration
	queueSize   int
	workerCount int

	// State
	mu      sync.RWMutex // excludes Submit sends during queue close
	queues  [numClasses]chan task
	running atomic.Bool
	wg      sync.WaitGroup

	// Handlers
	panicHandler PanicHandler

	// Stats
	enqueued  atomic.Uint64
	processed atomic.Uint64
	succeeded atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64
	dropped   atomic.Uint64
}

// NewPool creates a new worker pool. The pool must be started before
// accepting submissions.
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		queueSize:    4096,
		workerCount:  4,
		panicHandler: defaultPanicHandler,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithQueueSize sets the per-class task queue size.
func WithQueueSize(size int) PoolOption {
	return func(p *Pool) {
		if size > 0 {
			p.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of worker goroutines per class.
func WithWorkerCount(count int) PoolOption {
	return func(p *Pool) {
		if count > 0 {
			p.workerCount = count
		}
	}
}

// WithPoolPanicHandler sets the panic handler for pool execution.
func WithPoolPanicHandler(h PanicHandler) PoolOption {
	return func(p *Pool) {
		if h != nil {
			p.panicHandler = h
		}
	}
}

// Start starts the per-class worker sets.
func (p *Pool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running.Load() {
		return ErrAlreadyRunning
	}

	for c := range p.queues {
		p.queues[c] = make(chan task, p.queueSize)
	}
	p.running.Store(true)

	for c := range p.queues {
		for i := 0; i < p.workerCount; i++ {
			p.wg.Add(1)
			go p.worker(p.queues[c])
		}
	}

	return nil
}

// Stop stops the pool gracefully. Tasks already queued are still executed;
// Stop waits for workers to drain or until the context is cancelled.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running.Load() {
		p.mu.Unlock()
		return ErrNotRunning
	}

	p.running.Store(false)
	for c := range p.queues {
		close(p.queues[c])
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit queues a handler invocation under the given priority class.
// Returns ErrNotRunning before Start or after Stop, and ErrQueueFull when
// the class queue is at capacity. It never blocks.
func (p *Pool) Submit(ctx context.Context, event any, handler Handler, class Class) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.running.Load() {
		return ErrNotRunning
	}
	if class < 0 || class >= numClasses {
		class = ClassDefault
	}

	select {
	case p.queues[class] <- task{ctx: ctx, event: event, handler: handler}:
		p.enqueued.Add(1)
		return nil
	default:
		p.dropped.Add(1)
		return ErrQueueFull
	}
}

// worker processes tasks from a single class queue.
func (p *Pool) worker(queue chan task) {
	defer p.wg.Done()

	executor := NewExecutor(WithExecutorPanicHandler(p.panicHandler))

	for t := range queue {
		p.processed.Add(1)

		result := executor.Execute(t.ctx, t.event, t.handler)

		switch {
		case result.Skipped:
			p.failed.Add(1)
		case result.Panicked:
			p.panicked.Add(1)
		case result.Error != nil:
			p.failed.Add(1)
		case result.Success:
			p.succeeded.Add(1)
		}
	}
}

// QueueDepth returns the total number of tasks waiting across all classes.
// Returns 0 if the pool is not running.
func (p *Pool) QueueDepth() int {
	if !p.running.Load() {
		return 0
	}
	depth := 0
	for c := range p.queues {
		depth += len(p.queues[c])
	}
	return depth
}

// IsRunning returns true if the pool is running.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Stats returns pool statistics.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Enqueued:   p.enqueued.Load(),
		Processed:  p.processed.Load(),
		Succeeded:  p.succeeded.Load(),
		Failed:     p.failed.Load(),
		Panicked:   p.panicked.Load(),
		Dropped:    p.dropped.Load(),
		QueueDepth: p.QueueDepth(),
	}
}

// PoolStats contains statistics for a worker pool.
type PoolStats struct {
	// Enqueued is the total number of tasks accepted into the queues.
	Enqueued uint64

	// Processed is the number of tasks executed.
	Processed uint64

	// Succeeded is the number of successful handler executions.
	Succeeded uint64

	// Failed is the number of handlers that returned errors or were skipped.
	Failed uint64

	// Panicked is the number of handlers that panicked.
	Panicked uint64

	// Dropped is the number of submissions rejected because a queue was full.
	Dropped uint64

	// QueueDepth is the current number of queued tasks across all classes.
	QueueDepth int
}

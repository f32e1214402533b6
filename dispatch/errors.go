package dispatch

import "errors"

// Sentinel errors for the dispatch package.
var (
	// ErrAlreadyRunning is returned when Start or Run is called on a running
	// pool or loop.
	ErrAlreadyRunning = errors.New("dispatcher is already running")

	// ErrNotRunning is returned when tasks are submitted to a stopped pool.
	ErrNotRunning = errors.New("dispatcher is not running")

	// ErrQueueFull is returned when a task queue is at capacity.
	ErrQueueFull = errors.New("task queue is full")

	// ErrLoopClosed is returned when tasks are submitted to a closed loop.
	ErrLoopClosed = errors.New("loop is closed")
)

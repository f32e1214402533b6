// Package dispatch provides the execution contexts backing typebus targets.
//
// The bus itself only matches events against registrations; actually running
// a handler is delegated to one of three contexts defined here:
//
//   - SyncDispatcher: executes handlers inline in the caller's goroutine.
//     Serves the current-thread target.
//
//   - Loop: a serial run loop. Tasks are submitted from any goroutine and
//     executed on whichever goroutine drives Run or RunPending, typically
//     the host's UI/main goroutine. Serves the main target.
//
//   - Pool: a worker pool with an independent FIFO queue and worker set per
//     priority class. Serves the background target.
//
// # Panic Recovery
//
// All contexts recover from panics in handlers, preventing a misbehaving
// handler from crashing the process or suppressing delivery to sibling
// handlers. Panics are reported via a configurable PanicHandler callback.
//
// # Non-blocking Submission
//
// Loop.Submit and Pool.Submit never block. When a queue is at capacity the
// task is dropped and ErrQueueFull is returned; the caller decides whether
// to log, count, or retry.
//
// # Result Handling
//
// The Result type captures the outcome of a handler execution: success or
// failure, error details, execution duration, and panic information.
package dispatch

// Package typebus provides a process-local, type-discriminated
// publish/subscribe event bus.
//
// Producers post values of arbitrary type; consumers register handlers
// filtered by type, each invoked on a caller-chosen execution target: the
// posting goroutine, a designated main loop, or a background worker pool
// with a priority class.
//
// # Architecture
//
//	                ┌─────────────────────────────────────┐
//	                │                 Bus                  │
//	                │  - registration registry             │
//	                │  - type matching (exact + interface) │
//	                │  - target-affine dispatch            │
//	                └─────────────────────────────────────┘
//	                                  │
//	        ┌─────────────────────────┼─────────────────────────┐
//	        ▼                         ▼                         ▼
//	┌────────────────┐      ┌─────────────────┐      ┌─────────────────┐
//	│ SyncDispatcher │      │      Loop       │      │      Pool       │
//	│ inline, on the │      │ serial, pumped  │      │ FIFO queue and  │
//	│ posting        │      │ by the host's   │      │ workers per     │
//	│ goroutine      │      │ main goroutine  │      │ priority class  │
//	└────────────────┘      └─────────────────┘      └─────────────────┘
//
// # Type Matching
//
// An event of dynamic type U is delivered to a registration with filter T
// iff U is exactly T, or T is an interface type that U implements. AnyEvent
// matches every posted value. There is no structural or partial matching.
//
// # Targets
//
//   - Current: the handler runs inline, in registration order, before Post
//     returns.
//   - Main: the invocation is submitted to the bus's main loop. The host
//     drives the loop from its UI/main goroutine via Run or RunPending;
//     posting from that goroutine still goes through the queue.
//   - Background(priority): the invocation is submitted to a shared worker
//     pool; ordering is FIFO within a priority class only.
//
// Post never blocks on handler execution. Handler panics and errors are
// isolated per handler: they are surfaced to the bus's hooks and logger and
// never suppress delivery to sibling registrations.
//
// # Cancellation
//
// Subscribe returns a Handle whose Cancel is idempotent and safe under
// concurrent calls. After Cancel no future post selects the registration;
// an invocation already handed to the main loop or pool may still run.
// Callers needing strict never-after-cancel semantics add their own guard
// inside the handler. Handles are not auto-cancelled when dropped; scope
// them with a Group and call CancelAll on teardown.
//
// # Instances
//
// New creates independent buses that share no state. Default returns a
// lazily initialized process-wide bus with no teardown hook. Close cancels
// every registration without invoking handlers and turns subsequent posts
// into safe no-ops.
package typebus

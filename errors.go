package typebus

import "errors"

// ErrHandlerPanic is matched by errors.Is against PanicError values.
var ErrHandlerPanic = errors.New("handler panicked")

// PanicError wraps a panic value recovered during dispatch. It is passed to
// the bus's logger and error hook; handler panics never propagate to Post.
type PanicError struct {
	// Target describes the execution context the handler ran on.
	Target string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return "handler panic on " + e.Target + " target"
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}

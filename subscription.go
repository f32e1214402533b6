package typebus

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// HandleState represents the state of a registration handle.
type HandleState int32

const (
	// HandleActive means the registration is receiving events.
	HandleActive HandleState = iota

	// HandlePaused means the registration is temporarily not receiving events.
	HandlePaused

	// HandleCancelled means the registration has been permanently cancelled.
	HandleCancelled
)

// String returns a human-readable state name.
func (s HandleState) String() string {
	switch s {
	case HandleActive:
		return "active"
	case HandlePaused:
		return "paused"
	case HandleCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Handle is the cancellable token representing one registration.
// It is owned by the subscriber; dropping a handle without calling Cancel
// leaves the registration active.
type Handle interface {
	// ID returns the unique registration identifier.
	ID() string

	// Filter returns the registration's type filter.
	Filter() TypeFilter

	// Target returns the registration's execution target.
	Target() Target

	// State returns the current handle state.
	State() HandleState

	// IsActive returns true if the registration can receive events.
	IsActive() bool

	// Pause temporarily stops event delivery to this registration.
	Pause()

	// Resume restarts event delivery after a pause.
	Resume()

	// Cancel permanently removes the registration from its bus. It is
	// idempotent and safe to call from multiple goroutines; no future post
	// selects the registration afterwards. An invocation already handed to
	// the main loop or worker pool may still run.
	Cancel()
}

// SubscribeOption configures a registration.
type SubscribeOption func(*subConfig)

// subConfig contains per-registration configuration.
type subConfig struct {
	// once auto-cancels the registration after its first successful delivery.
	once bool

	// predicate is an optional payload filter checked after type matching.
	predicate func(event any) bool
}

// WithOnce makes the registration cancel itself after the first delivery.
func WithOnce() SubscribeOption {
	return func(c *subConfig) {
		c.once = true
	}
}

// WithPredicate adds a payload filter. The handler is invoked only for
// events that pass both the type filter and the predicate.
func WithPredicate(p func(event any) bool) SubscribeOption {
	return func(c *subConfig) {
		c.predicate = p
	}
}

// registration is the internal implementation of Handle.
type registration struct {
	id      string
	seq     uint64
	filter  TypeFilter
	target  Target
	handler Handler
	config  subConfig
	owner   *bus
	state   atomic.Int32
}

// newRegistration creates a registration bound to its owning bus.
func newRegistration(owner *bus, filter TypeFilter, target Target, h Handler, opts ...SubscribeOption) *registration {
	var config subConfig
	for _, opt := range opts {
		opt(&config)
	}

	r := &registration{
		id:      uuid.NewString(),
		filter:  filter,
		target:  target,
		handler: h,
		config:  config,
		owner:   owner,
	}
	r.state.Store(int32(HandleActive))
	return r
}

// ID returns the registration ID.
func (r *registration) ID() string {
	return r.id
}

// Filter returns the registration's type filter.
func (r *registration) Filter() TypeFilter {
	return r.filter
}

// Target returns the registration's execution target.
func (r *registration) Target() Target {
	return r.target
}

// State returns the current handle state.
func (r *registration) State() HandleState {
	return HandleState(r.state.Load())
}

// IsActive returns true if the registration is active.
func (r *registration) IsActive() bool {
	return r.State() == HandleActive
}

// Pause temporarily stops event delivery.
func (r *registration) Pause() {
	// Only pause if currently active
	r.state.CompareAndSwap(int32(HandleActive), int32(HandlePaused))
}

// Resume restarts event delivery.
func (r *registration) Resume() {
	// Only resume if currently paused
	r.state.CompareAndSwap(int32(HandlePaused), int32(HandleActive))
}

// Cancel permanently cancels the registration and removes it from the bus.
// Exactly one caller performs the removal; the rest are no-ops.
func (r *registration) Cancel() {
	if r.state.Swap(int32(HandleCancelled)) == int32(HandleCancelled) {
		return
	}
	if r.owner != nil {
		r.owner.remove(r)
	}
}

// markCancelled flips the state without touching the registry. Used during
// bus teardown, after the registry has already been cleared.
func (r *registration) markCancelled() {
	r.state.Store(int32(HandleCancelled))
}

// shouldDeliver returns true if the event should be delivered to this
// registration. Checked again immediately before invocation so that a
// cancel between snapshot and execution suppresses the call where possible.
func (r *registration) shouldDeliver(event any) bool {
	if !r.IsActive() {
		return false
	}
	if r.config.predicate != nil && !r.config.predicate(event) {
		return false
	}
	return true
}

package typebus

// Priority classifies background handler execution.
// It selects which worker-pool class a background-target handler runs on;
// it has no effect on current- or main-target registrations.
type Priority int

const (
	// PriorityLow is for handlers that can tolerate delay (metrics, logging).
	PriorityLow Priority = iota

	// PriorityDefault is the standard background priority.
	PriorityDefault

	// PriorityHigh is for background work that should preempt the default class.
	PriorityHigh
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityDefault:
		return "default"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// TargetKind identifies the execution context category of a Target.
type TargetKind int

const (
	// KindCurrent executes the handler inline on the posting goroutine.
	KindCurrent TargetKind = iota

	// KindMain submits the handler to the designated main loop.
	KindMain

	// KindBackground submits the handler to the shared worker pool.
	KindBackground
)

// String returns a human-readable kind name.
func (k TargetKind) String() string {
	switch k {
	case KindCurrent:
		return "current"
	case KindMain:
		return "main"
	case KindBackground:
		return "background"
	default:
		return "unknown"
	}
}

// Target selects where a handler executes. It is pure data; resolving a
// target to an actual execution context is the bus's responsibility.
type Target struct {
	kind TargetKind
	prio Priority
}

// Current executes handlers inline on the goroutine that called Post,
// before Post returns.
var Current = Target{kind: KindCurrent}

// Main submits handlers to the bus's main loop. The submission path is the
// same even when Post is called from the loop itself; the handler runs only
// once control returns to the loop.
var Main = Target{kind: KindMain}

// Background returns a target that submits handlers to the shared worker
// pool under the given priority class.
func Background(p Priority) Target {
	return Target{kind: KindBackground, prio: p}
}

// Kind returns the target's execution context category.
func (t Target) Kind() TargetKind {
	return t.kind
}

// Priority returns the background priority class. It is meaningful only
// when Kind is KindBackground.
func (t Target) Priority() Priority {
	return t.prio
}

// String returns a human-readable target name.
func (t Target) String() string {
	if t.kind == KindBackground {
		return "background(" + t.prio.String() + ")"
	}
	return t.kind.String()
}

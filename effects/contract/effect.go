package contract

// Effect is implemented by every interaction effect. W is the host world the
// effect inspects and mutates; it is passed into every call instead of being
// reached through global state.
//
// CanBeApplied must be free of observable side effects. OnApply performs the
// mutation and is only invoked by Apply after CanBeApplied returned Possible,
// so it has no way to report failure.
type Effect[W any] interface {
	CanBeApplied(w W, p Params) Result
	OnApply(w W, p Params)
}

// Removable is implemented by effects with a meaningful inverse. OnRemove is
// only invoked by Remove after the removal gate returned Possible.
type Removable[W any] interface {
	Effect[W]
	OnRemove(w W, p Params)
}

// RemovalGate is an optional refinement of Removable. Effects that do not
// implement it are always removable once applied.
type RemovalGate[W any] interface {
	CanBeRemoved(w W, p Params) Result
}

// Timed is implemented by effects whose host-side status ends on its own
// after a parameter-derived number of ticks.
type Timed interface {
	Lifetime(p Params) int
}

// Apply runs the shared query-then-act rule: the feasibility result is
// returned unchanged, and OnApply runs only when it is Possible.
func Apply[W any](e Effect[W], w W, p Params) Result {
	if e == nil {
		return NotPossible
	}
	result := e.CanBeApplied(w, p)
	if result != Possible {
		return result
	}
	e.OnApply(w, p)
	return Possible
}

// CanBeRemoved evaluates the removal gate of e, defaulting to Possible.
func CanBeRemoved[W any](e Removable[W], w W, p Params) Result {
	if e == nil {
		return NotPossible
	}
	if gate, ok := e.(RemovalGate[W]); ok {
		return gate.CanBeRemoved(w, p)
	}
	return Possible
}

// Remove mirrors Apply for the inverse half of the lifecycle.
func Remove[W any](e Removable[W], w W, p Params) Result {
	result := CanBeRemoved(e, w, p)
	if result != Possible {
		return result
	}
	e.OnRemove(w, p)
	return Possible
}

// IsRemovable reports whether e exposes the removable capability.
func IsRemovable[W any](e Effect[W]) bool {
	_, ok := e.(Removable[W])
	return ok
}

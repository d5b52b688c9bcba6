package contract

// Phase tracks where an instance is in its lifecycle.
type Phase uint8

const (
	PhaseConstructed Phase = iota
	PhaseApplied
	PhaseRemoved
)

func (p Phase) String() string {
	switch p {
	case PhaseConstructed:
		return "constructed"
	case PhaseApplied:
		return "applied"
	case PhaseRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Instance binds an effect to its parameter block for one request.
//
// The instance does not guard a second Apply; redundant applies are rejected
// by the variant's own CanBeApplied. Removal is only allowed after a
// successful Apply and at most once: any other Remove or CanBeRemoved call
// reports NotPossible and leaves the world untouched.
type Instance[W any] struct {
	kind   Kind
	effect Effect[W]
	params Params
	phase  Phase
}

// NewInstance constructs an instance. The parameter block is copied and never
// changes afterwards.
func NewInstance[W any](kind Kind, effect Effect[W], params Params) *Instance[W] {
	return &Instance[W]{kind: kind, effect: effect, params: params}
}

func (i *Instance[W]) Kind() Kind {
	if i == nil {
		return ""
	}
	return i.kind
}

func (i *Instance[W]) Params() Params {
	if i == nil {
		return Params{}
	}
	return i.params
}

func (i *Instance[W]) Phase() Phase {
	if i == nil {
		return PhaseConstructed
	}
	return i.phase
}

// Removable reports whether the bound effect has an inverse.
func (i *Instance[W]) Removable() bool {
	if i == nil || i.effect == nil {
		return false
	}
	return IsRemovable(i.effect)
}

// Lifetime reports how long the host keeps the effect alive on its own, when
// the effect is Timed.
func (i *Instance[W]) Lifetime() (int, bool) {
	if i == nil || i.effect == nil {
		return 0, false
	}
	timed, ok := i.effect.(Timed)
	if !ok {
		return 0, false
	}
	return timed.Lifetime(i.params), true
}

// CanBeApplied queries feasibility without side effects.
func (i *Instance[W]) CanBeApplied(w W) Result {
	if i == nil || i.effect == nil {
		return NotPossible
	}
	return i.effect.CanBeApplied(w, i.params)
}

// Apply runs the shared apply wrapper and records a successful application.
func (i *Instance[W]) Apply(w W) Result {
	if i == nil || i.effect == nil {
		return NotPossible
	}
	result := Apply(i.effect, w, i.params)
	if result == Possible && i.phase == PhaseConstructed {
		i.phase = PhaseApplied
	}
	return result
}

// CanBeRemoved queries the removal gate. Instances that are not removable or
// not currently applied report NotPossible.
func (i *Instance[W]) CanBeRemoved(w W) Result {
	removable, ok := i.removable()
	if !ok {
		return NotPossible
	}
	return CanBeRemoved(removable, w, i.params)
}

// Remove runs the shared remove wrapper.
func (i *Instance[W]) Remove(w W) Result {
	removable, ok := i.removable()
	if !ok {
		return NotPossible
	}
	result := Remove(removable, w, i.params)
	if result == Possible {
		i.phase = PhaseRemoved
	}
	return result
}

func (i *Instance[W]) removable() (Removable[W], bool) {
	if i == nil || i.effect == nil || i.phase != PhaseApplied {
		return nil, false
	}
	removable, ok := i.effect.(Removable[W])
	return removable, ok
}

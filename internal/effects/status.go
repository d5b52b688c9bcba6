package effects

import (
	"sync/atomic"

	"game-interactor/effects/contract"
	"game-interactor/internal/game"
)

// MaxKnockbackStrength bounds the knockback impulse.
const MaxKnockbackStrength = 100

// statusTokens hands out owner tokens; zero means unowned.
var statusTokens atomic.Uint64

// statusSlot selects one of the player's status fields and its owner.
type statusSlot struct {
	value func(*game.Player) *int32
	owner func(*game.Player) *uint64
}

var (
	freezeSlot = statusSlot{
		value: func(p *game.Player) *int32 { return &p.FreezeTicks },
		owner: func(p *game.Player) *uint64 { return &p.FreezeOwner },
	}
	burnSlot = statusSlot{
		value: func(p *game.Player) *int32 { return &p.BurnTicks },
		owner: func(p *game.Player) *uint64 { return &p.BurnOwner },
	}
	shockSlot = statusSlot{
		value: func(p *game.Player) *int32 { return &p.ShockTicks },
		owner: func(p *game.Player) *uint64 { return &p.ShockOwner },
	}
	knockbackSlot = statusSlot{
		value: func(p *game.Player) *int32 { return &p.Knockback },
		owner: func(p *game.Player) *uint64 { return &p.KnockbackOwner },
	}
)

// ownedStatus remembers the token stamped on the player when the status was
// started, so an instance only ever ends the status it started.
type ownedStatus struct {
	token uint64
}

func (s *ownedStatus) start(w game.World, slot statusSlot, value int32) {
	s.token = statusTokens.Add(1)
	p := w.Player()
	*slot.value(p) = value
	*slot.owner(p) = s.token
}

func (s *ownedStatus) canStop(w game.World, slot statusSlot) contract.Result {
	if w == nil || s.token == 0 {
		return never
	}
	p := w.Player()
	if *slot.value(p) <= 0 || *slot.owner(p) != s.token {
		return never
	}
	return possible
}

func (s *ownedStatus) stop(w game.World, slot statusSlot) {
	p := w.Player()
	*slot.value(p) = 0
	*slot.owner(p) = 0
	s.token = 0
}

// Timed statuses share one rule set: the duration must be positive, the
// player must be controllable and not already afflicted, and removal is only
// possible while the status this instance started is still running.
func canStartTimer(w game.World, p contract.Params, slot statusSlot) contract.Result {
	if p[0] <= 0 {
		return never
	}
	if r := requirePlayable(w); r != possible {
		return r
	}
	if *slot.value(w.Player()) > 0 {
		return retry
	}
	return possible
}

func timerLifetime(p contract.Params) int {
	if p[0] <= 0 {
		return 0
	}
	return int(p[0])
}

// FreezePlayer freezes the player in place. Params: [durationTicks].
// Removal reports NotPossible once the freeze expired naturally.
type FreezePlayer struct{ ownedStatus }

func (*FreezePlayer) CanBeApplied(w game.World, p contract.Params) contract.Result {
	return canStartTimer(w, p, freezeSlot)
}

func (e *FreezePlayer) OnApply(w game.World, p contract.Params) {
	e.start(w, freezeSlot, p[0])
}

func (e *FreezePlayer) CanBeRemoved(w game.World, _ contract.Params) contract.Result {
	return e.canStop(w, freezeSlot)
}

func (e *FreezePlayer) OnRemove(w game.World, _ contract.Params) {
	e.stop(w, freezeSlot)
}

func (*FreezePlayer) Lifetime(p contract.Params) int { return timerLifetime(p) }

// BurnPlayer sets the player on fire. Params: [durationTicks].
type BurnPlayer struct{ ownedStatus }

func (*BurnPlayer) CanBeApplied(w game.World, p contract.Params) contract.Result {
	return canStartTimer(w, p, burnSlot)
}

func (e *BurnPlayer) OnApply(w game.World, p contract.Params) {
	e.start(w, burnSlot, p[0])
}

func (e *BurnPlayer) CanBeRemoved(w game.World, _ contract.Params) contract.Result {
	return e.canStop(w, burnSlot)
}

func (e *BurnPlayer) OnRemove(w game.World, _ contract.Params) {
	e.stop(w, burnSlot)
}

func (*BurnPlayer) Lifetime(p contract.Params) int { return timerLifetime(p) }

// ElectrocutePlayer shocks the player. Params: [durationTicks].
type ElectrocutePlayer struct{ ownedStatus }

func (*ElectrocutePlayer) CanBeApplied(w game.World, p contract.Params) contract.Result {
	return canStartTimer(w, p, shockSlot)
}

func (e *ElectrocutePlayer) OnApply(w game.World, p contract.Params) {
	e.start(w, shockSlot, p[0])
}

func (e *ElectrocutePlayer) CanBeRemoved(w game.World, _ contract.Params) contract.Result {
	return e.canStop(w, shockSlot)
}

func (e *ElectrocutePlayer) OnRemove(w game.World, _ contract.Params) {
	e.stop(w, shockSlot)
}

func (*ElectrocutePlayer) Lifetime(p contract.Params) int { return timerLifetime(p) }

// KnockbackPlayer queues a knockback impulse. Params: [strength]. The host
// consumes the impulse on its next step, after which removal reports
// NotPossible.
type KnockbackPlayer struct{ ownedStatus }

func (*KnockbackPlayer) CanBeApplied(w game.World, p contract.Params) contract.Result {
	if p[0] <= 0 || p[0] > MaxKnockbackStrength {
		return never
	}
	if r := requirePlayable(w); r != possible {
		return r
	}
	if w.Player().Knockback > 0 {
		return retry
	}
	return possible
}

func (e *KnockbackPlayer) OnApply(w game.World, p contract.Params) {
	e.start(w, knockbackSlot, p[0])
}

func (e *KnockbackPlayer) CanBeRemoved(w game.World, _ contract.Params) contract.Result {
	return e.canStop(w, knockbackSlot)
}

func (e *KnockbackPlayer) OnRemove(w game.World, _ contract.Params) {
	e.stop(w, knockbackSlot)
}

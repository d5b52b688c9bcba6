package effects

import (
	"game-interactor/effects/contract"
	"game-interactor/internal/game"
)

// toggle selects one boolean modifier.
type toggle func(*game.Toggles) *bool

func canToggleOn(w game.World, gate func(game.World) contract.Result, field toggle) contract.Result {
	if r := gate(w); r != possible {
		return r
	}
	if *field(&w.Modifiers().Toggles) {
		return retry
	}
	return possible
}

func setToggle(w game.World, field toggle, value bool) {
	*field(&w.Modifiers().Toggles) = value
}

var (
	invisible       toggle = func(t *game.Toggles) *bool { return &t.Invisible }
	pacifist        toggle = func(t *game.Toggles) *bool { return &t.Pacifist }
	noZTargeting    toggle = func(t *game.Toggles) *bool { return &t.ZTargetingDisabled }
	rainstorm       toggle = func(t *game.Toggles) *bool { return &t.Rainstorm }
	reverseControls toggle = func(t *game.Toggles) *bool { return &t.ReverseControls }
	oneHitKO        toggle = func(t *game.Toggles) *bool { return &t.OneHitKO }
	invincible      toggle = func(t *game.Toggles) *bool { return &t.Invincible }
	slipperyFloor   toggle = func(t *game.Toggles) *bool { return &t.SlipperyFloor }
	randomBombFuse  toggle = func(t *game.Toggles) *bool { return &t.RandomBombFuse }
	noLedgeGrabs    toggle = func(t *game.Toggles) *bool { return &t.LedgeGrabsDisabled }
	randomWind      toggle = func(t *game.Toggles) *bool { return &t.RandomWind }
	randomBonks     toggle = func(t *game.Toggles) *bool { return &t.RandomBonks }
	collisionViewer toggle = func(t *game.Toggles) *bool { return &t.CollisionViewer }
	hideUI          toggle = func(t *game.Toggles) *bool { return &t.HideUI }
)

// InvisibleLink hides the player model.
type InvisibleLink struct{}

func (InvisibleLink) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return canToggleOn(w, requirePlayable, invisible)
}
func (InvisibleLink) OnApply(w game.World, _ contract.Params)  { setToggle(w, invisible, true) }
func (InvisibleLink) OnRemove(w game.World, _ contract.Params) { setToggle(w, invisible, false) }

// PacifistMode prevents the player from attacking.
type PacifistMode struct{}

func (PacifistMode) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return canToggleOn(w, requirePlayable, pacifist)
}
func (PacifistMode) OnApply(w game.World, _ contract.Params)  { setToggle(w, pacifist, true) }
func (PacifistMode) OnRemove(w game.World, _ contract.Params) { setToggle(w, pacifist, false) }

// DisableZTargeting turns off lock-on targeting.
type DisableZTargeting struct{}

func (DisableZTargeting) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return canToggleOn(w, requirePlayable, noZTargeting)
}
func (DisableZTargeting) OnApply(w game.World, _ contract.Params)  { setToggle(w, noZTargeting, true) }
func (DisableZTargeting) OnRemove(w game.World, _ contract.Params) { setToggle(w, noZTargeting, false) }

// WeatherRainstorm starts a rainstorm. Rain cannot be shown indoors, so the
// effect waits until the player is outside.
type WeatherRainstorm struct{}

func (WeatherRainstorm) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	if r := canToggleOn(w, requirePlayable, rainstorm); r != possible {
		return r
	}
	if w.Status().Indoors {
		return retry
	}
	return possible
}
func (WeatherRainstorm) OnApply(w game.World, _ contract.Params)  { setToggle(w, rainstorm, true) }
func (WeatherRainstorm) OnRemove(w game.World, _ contract.Params) { setToggle(w, rainstorm, false) }

// ReverseControls inverts the analog stick.
type ReverseControls struct{}

func (ReverseControls) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return canToggleOn(w, requirePlayable, reverseControls)
}
func (ReverseControls) OnApply(w game.World, _ contract.Params)  { setToggle(w, reverseControls, true) }
func (ReverseControls) OnRemove(w game.World, _ contract.Params) { setToggle(w, reverseControls, false) }

// OneHitKO makes any damage lethal.
type OneHitKO struct{}

func (OneHitKO) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return canToggleOn(w, requirePlayable, oneHitKO)
}
func (OneHitKO) OnApply(w game.World, _ contract.Params)  { setToggle(w, oneHitKO, true) }
func (OneHitKO) OnRemove(w game.World, _ contract.Params) { setToggle(w, oneHitKO, false) }

// PlayerInvincibility makes the player immune to damage.
type PlayerInvincibility struct{}

func (PlayerInvincibility) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return canToggleOn(w, requirePlayable, invincible)
}
func (PlayerInvincibility) OnApply(w game.World, _ contract.Params)  { setToggle(w, invincible, true) }
func (PlayerInvincibility) OnRemove(w game.World, _ contract.Params) { setToggle(w, invincible, false) }

// SlipperyFloor removes ground friction.
type SlipperyFloor struct{}

func (SlipperyFloor) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return canToggleOn(w, requirePlayable, slipperyFloor)
}
func (SlipperyFloor) OnApply(w game.World, _ contract.Params)  { setToggle(w, slipperyFloor, true) }
func (SlipperyFloor) OnRemove(w game.World, _ contract.Params) { setToggle(w, slipperyFloor, false) }

// RandomBombFuseTimer randomises bomb fuse lengths.
type RandomBombFuseTimer struct{}

func (RandomBombFuseTimer) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return canToggleOn(w, requirePlayable, randomBombFuse)
}
func (RandomBombFuseTimer) OnApply(w game.World, _ contract.Params)  { setToggle(w, randomBombFuse, true) }
func (RandomBombFuseTimer) OnRemove(w game.World, _ contract.Params) { setToggle(w, randomBombFuse, false) }

// DisableLedgeGrabs stops the player from catching ledges.
type DisableLedgeGrabs struct{}

func (DisableLedgeGrabs) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return canToggleOn(w, requirePlayable, noLedgeGrabs)
}
func (DisableLedgeGrabs) OnApply(w game.World, _ contract.Params)  { setToggle(w, noLedgeGrabs, true) }
func (DisableLedgeGrabs) OnRemove(w game.World, _ contract.Params) { setToggle(w, noLedgeGrabs, false) }

// RandomWind pushes the player in random directions.
type RandomWind struct{}

func (RandomWind) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return canToggleOn(w, requirePlayable, randomWind)
}
func (RandomWind) OnApply(w game.World, _ contract.Params)  { setToggle(w, randomWind, true) }
func (RandomWind) OnRemove(w game.World, _ contract.Params) { setToggle(w, randomWind, false) }

// RandomBonks makes the player bonk at random while rolling.
type RandomBonks struct{}

func (RandomBonks) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return canToggleOn(w, requirePlayable, randomBonks)
}
func (RandomBonks) OnApply(w game.World, _ contract.Params)  { setToggle(w, randomBonks, true) }
func (RandomBonks) OnRemove(w game.World, _ contract.Params) { setToggle(w, randomBonks, false) }

// SetCollisionViewer draws collision geometry. It only needs a loaded save.
type SetCollisionViewer struct{}

func (SetCollisionViewer) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return canToggleOn(w, requireLoaded, collisionViewer)
}
func (SetCollisionViewer) OnApply(w game.World, _ contract.Params)  { setToggle(w, collisionViewer, true) }
func (SetCollisionViewer) OnRemove(w game.World, _ contract.Params) { setToggle(w, collisionViewer, false) }

// NoUI hides the HUD. It only needs a loaded save.
type NoUI struct{}

func (NoUI) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return canToggleOn(w, requireLoaded, hideUI)
}
func (NoUI) OnApply(w game.World, _ contract.Params)  { setToggle(w, hideUI, true) }
func (NoUI) OnRemove(w game.World, _ contract.Params) { setToggle(w, hideUI, false) }

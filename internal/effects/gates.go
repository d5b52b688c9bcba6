// Package effects implements the closed set of interaction effects that can
// be triggered against a running game. Every variant is a stateless value;
// its parameter block arrives with each call.
package effects

import (
	"game-interactor/effects/contract"
	"game-interactor/internal/game"
)

const (
	possible = contract.Possible
	retry    = contract.TemporarilyNotPossible
	never    = contract.NotPossible
)

// requireLoaded passes once a save is loaded, regardless of what the player
// is doing. Only presentation toggles use it.
func requireLoaded(w game.World) contract.Result {
	if w == nil {
		return never
	}
	if !w.Status().Loaded {
		return retry
	}
	return possible
}

// requireInGame passes once the save is loaded and no scene transition is
// in flight.
func requireInGame(w game.World) contract.Result {
	if w == nil {
		return never
	}
	if !w.Status().InGame() {
		return retry
	}
	return possible
}

// requirePlayable passes while the player accepts input.
func requirePlayable(w game.World) contract.Result {
	if w == nil {
		return never
	}
	if !w.Status().Controllable() {
		return retry
	}
	return possible
}

func clamp(value int64, lo, hi int32) int32 {
	if value < int64(lo) {
		return lo
	}
	if value > int64(hi) {
		return hi
	}
	return int32(value)
}

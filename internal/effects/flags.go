package effects

import (
	"game-interactor/effects/contract"
	"game-interactor/internal/game"
)

// sceneFlagKey decodes [scene, flagType, flag].
func sceneFlagKey(p contract.Params) (game.SceneFlagKey, bool) {
	key := game.SceneFlagKey{Scene: p[0], Type: game.SceneFlagType(p[1]), ID: p[2]}
	if key.Scene < 0 || key.Scene >= game.SceneCount {
		return key, false
	}
	if !key.Type.Valid() {
		return key, false
	}
	if key.ID < 0 || key.ID >= game.SceneFlagsPerTable {
		return key, false
	}
	return key, true
}

// flagKey decodes [flagType, flag, _].
func flagKey(p contract.Params) (game.FlagKey, bool) {
	key := game.FlagKey{Type: game.FlagType(p[0]), ID: p[1]}
	if !key.Type.Valid() || key.ID < 0 || key.ID >= game.MaxFlagID {
		return key, false
	}
	return key, true
}

func canWriteSceneFlag(w game.World, p contract.Params, target bool) contract.Result {
	key, ok := sceneFlagKey(p)
	if !ok {
		return never
	}
	if r := requireInGame(w); r != possible {
		return r
	}
	if w.Save().SceneFlag(key) == target {
		return never
	}
	return possible
}

func canWriteFlag(w game.World, p contract.Params, target bool) contract.Result {
	key, ok := flagKey(p)
	if !ok {
		return never
	}
	if r := requireInGame(w); r != possible {
		return r
	}
	if w.Save().Flag(key) == target {
		return never
	}
	return possible
}

// SetSceneFlag sets a per-scene flag. Params: [scene, flagType, flag].
type SetSceneFlag struct{}

func (SetSceneFlag) CanBeApplied(w game.World, p contract.Params) contract.Result {
	return canWriteSceneFlag(w, p, true)
}

func (SetSceneFlag) OnApply(w game.World, p contract.Params) {
	key, _ := sceneFlagKey(p)
	w.Save().SetSceneFlag(key, true)
}

// UnsetSceneFlag clears a per-scene flag. Params: [scene, flagType, flag].
type UnsetSceneFlag struct{}

func (UnsetSceneFlag) CanBeApplied(w game.World, p contract.Params) contract.Result {
	return canWriteSceneFlag(w, p, false)
}

func (UnsetSceneFlag) OnApply(w game.World, p contract.Params) {
	key, _ := sceneFlagKey(p)
	w.Save().SetSceneFlag(key, false)
}

// SetFlag sets a general save flag. Params: [flagType, flag, _].
type SetFlag struct{}

func (SetFlag) CanBeApplied(w game.World, p contract.Params) contract.Result {
	return canWriteFlag(w, p, true)
}

func (SetFlag) OnApply(w game.World, p contract.Params) {
	key, _ := flagKey(p)
	w.Save().SetFlag(key, true)
}

// UnsetFlag clears a general save flag. Params: [flagType, flag, _].
type UnsetFlag struct{}

func (UnsetFlag) CanBeApplied(w game.World, p contract.Params) contract.Result {
	return canWriteFlag(w, p, false)
}

func (UnsetFlag) OnApply(w game.World, p contract.Params) {
	key, _ := flagKey(p)
	w.Save().SetFlag(key, false)
}

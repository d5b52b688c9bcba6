package effects

import (
	"game-interactor/effects/contract"
	"game-interactor/internal/game"
	"game-interactor/stats"
)

// MaxModifierMagnitude bounds run speed and defense offsets in either
// direction.
const MaxModifierMagnitude = 8

func statSource(kind contract.Kind) stats.SourceKey {
	return stats.SourceKey{Kind: stats.SourceKindInteraction, ID: string(kind)}
}

func canInstallStat(w game.World, kind contract.Kind) contract.Result {
	if r := requirePlayable(w); r != possible {
		return r
	}
	mods := w.Modifiers()
	if mods.Stats.HasSource(stats.LayerInteraction, statSource(kind)) {
		return retry
	}
	return possible
}

func installStat(w game.World, kind contract.Kind, delta stats.StatDelta) {
	w.Modifiers().Stats.Apply(stats.CommandStatChange{
		Layer:  stats.LayerInteraction,
		Source: statSource(kind),
		Delta:  delta,
	})
}

func removeStat(w game.World, kind contract.Kind) {
	w.Modifiers().Stats.Apply(stats.CommandStatChange{
		Layer:  stats.LayerInteraction,
		Source: statSource(kind),
		Remove: true,
	})
}

func overrideDelta(id stats.StatID, value float64) stats.StatDelta {
	delta := stats.NewStatDelta()
	delta.Override[id] = stats.OverrideValue{Active: true, Value: value}
	return delta
}

func offsetDelta(id stats.StatID, value int32) stats.StatDelta {
	delta := stats.NewStatDelta()
	delta.Add[id] = float64(value)
	return delta
}

func validOffset(value int32) bool {
	return value != 0 && value >= -MaxModifierMagnitude && value <= MaxModifierMagnitude
}

// ModifyGravity overrides world gravity. Params: [level]; only the light and
// heavy presets are accepted. Removal restores unit gravity.
type ModifyGravity struct{}

func (ModifyGravity) CanBeApplied(w game.World, p contract.Params) contract.Result {
	level := game.GravityLevel(p[0])
	if _, ok := level.Factor(); !ok || level == game.GravityNormal {
		return never
	}
	return canInstallStat(w, KindModifyGravity)
}

func (ModifyGravity) OnApply(w game.World, p contract.Params) {
	factor, _ := game.GravityLevel(p[0]).Factor()
	installStat(w, KindModifyGravity, overrideDelta(stats.StatGravity, factor))
}

func (ModifyGravity) OnRemove(w game.World, _ contract.Params) {
	removeStat(w, KindModifyGravity)
}

// ModifyLinkSize rescales the player. Params: [size]; the normal size is
// rejected.
type ModifyLinkSize struct{}

func (ModifyLinkSize) CanBeApplied(w game.World, p contract.Params) contract.Result {
	size := game.LinkSize(p[0])
	if _, ok := size.Scale(); !ok || size == game.SizeNormal {
		return never
	}
	return canInstallStat(w, KindModifyLinkSize)
}

func (ModifyLinkSize) OnApply(w game.World, p contract.Params) {
	scale, _ := game.LinkSize(p[0]).Scale()
	installStat(w, KindModifyLinkSize, overrideDelta(stats.StatScale, scale))
}

func (ModifyLinkSize) OnRemove(w game.World, _ contract.Params) {
	removeStat(w, KindModifyLinkSize)
}

// ModifyRunSpeedModifier offsets run speed. Params: [delta].
type ModifyRunSpeedModifier struct{}

func (ModifyRunSpeedModifier) CanBeApplied(w game.World, p contract.Params) contract.Result {
	if !validOffset(p[0]) {
		return never
	}
	return canInstallStat(w, KindModifyRunSpeedModifier)
}

func (ModifyRunSpeedModifier) OnApply(w game.World, p contract.Params) {
	installStat(w, KindModifyRunSpeedModifier, offsetDelta(stats.StatRunSpeed, p[0]))
}

func (ModifyRunSpeedModifier) OnRemove(w game.World, _ contract.Params) {
	removeStat(w, KindModifyRunSpeedModifier)
}

// ModifyDefenseModifier offsets defense; negative values increase damage
// taken. Params: [delta].
type ModifyDefenseModifier struct{}

func (ModifyDefenseModifier) CanBeApplied(w game.World, p contract.Params) contract.Result {
	if !validOffset(p[0]) {
		return never
	}
	return canInstallStat(w, KindModifyDefenseModifier)
}

func (ModifyDefenseModifier) OnApply(w game.World, p contract.Params) {
	installStat(w, KindModifyDefenseModifier, offsetDelta(stats.StatDefense, p[0]))
}

func (ModifyDefenseModifier) OnRemove(w game.World, _ contract.Params) {
	removeStat(w, KindModifyDefenseModifier)
}

// ForceEquipBoots equips iron or hover boots and locks the boots slot.
// Params: [boots]. Adult only. Removal returns the player to Kokiri boots.
type ForceEquipBoots struct{}

func (ForceEquipBoots) CanBeApplied(w game.World, p contract.Params) contract.Result {
	boots := game.Boots(p[0])
	if !boots.Valid() || boots == game.BootsKokiri {
		return never
	}
	if r := requirePlayable(w); r != possible {
		return r
	}
	if w.Status().Age != game.AgeAdult || w.Player().BootsLocked {
		return retry
	}
	return possible
}

func (ForceEquipBoots) OnApply(w game.World, p contract.Params) {
	w.Save().Boots = game.Boots(p[0])
	w.Player().BootsLocked = true
}

func (ForceEquipBoots) OnRemove(w game.World, _ contract.Params) {
	w.Save().Boots = game.BootsKokiri
	w.Player().BootsLocked = false
}

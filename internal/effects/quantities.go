package effects

import (
	"game-interactor/effects/contract"
	"game-interactor/internal/game"
)

// ModifyHeartContainers adds or removes heart containers.
// Params: [delta, minClamp, _]. The result clamps to
// [max(MinHeartContainers, minClamp), MaxHeartContainers] and current health
// is clamped to the new capacity. Hitting a bound still succeeds.
type ModifyHeartContainers struct{}

func (ModifyHeartContainers) CanBeApplied(w game.World, p contract.Params) contract.Result {
	if p[0] == 0 {
		return never
	}
	return requireInGame(w)
}

func (ModifyHeartContainers) OnApply(w game.World, p contract.Params) {
	save := w.Save()
	floor := int32(game.MinHeartContainers)
	if p[1] > floor {
		floor = min(p[1], game.MaxHeartContainers)
	}
	containers := clamp(int64(save.HeartContainers())+int64(p[0]), floor, game.MaxHeartContainers)
	save.HealthCapacity = containers * game.HealthPerHeart
	if save.Health > save.HealthCapacity {
		save.Health = save.HealthCapacity
	}
}

// FillMagic refills the magic meter.
type FillMagic struct{}

func (FillMagic) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	if r := requireInGame(w); r != possible {
		return r
	}
	save := w.Save()
	if save.MagicLevel <= 0 {
		return never
	}
	if save.Magic >= save.MagicCapacity() {
		return retry
	}
	return possible
}

func (FillMagic) OnApply(w game.World, _ contract.Params) {
	save := w.Save()
	save.Magic = save.MagicCapacity()
}

// EmptyMagic drains the magic meter.
type EmptyMagic struct{}

func (EmptyMagic) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	if r := requireInGame(w); r != possible {
		return r
	}
	save := w.Save()
	if save.MagicLevel <= 0 {
		return never
	}
	if save.Magic <= 0 {
		return retry
	}
	return possible
}

func (EmptyMagic) OnApply(w game.World, _ contract.Params) {
	w.Save().Magic = 0
}

// ModifyRupees adds or takes rupees, clamped to the wallet. Params: [delta].
type ModifyRupees struct{}

func (ModifyRupees) CanBeApplied(w game.World, p contract.Params) contract.Result {
	if p[0] == 0 {
		return never
	}
	if r := requireInGame(w); r != possible {
		return r
	}
	save := w.Save()
	if p[0] > 0 && save.Rupees >= save.Wallet.Capacity() {
		return retry
	}
	if p[0] < 0 && save.Rupees <= 0 {
		return retry
	}
	return possible
}

func (ModifyRupees) OnApply(w game.World, p contract.Params) {
	save := w.Save()
	save.Rupees = clamp(int64(save.Rupees)+int64(p[0]), 0, save.Wallet.Capacity())
}

// ModifyHealth heals or damages the player by whole hearts. Params: [hearts].
type ModifyHealth struct{}

func (ModifyHealth) CanBeApplied(w game.World, p contract.Params) contract.Result {
	if p[0] == 0 {
		return never
	}
	if r := requireInGame(w); r != possible {
		return r
	}
	if w.Status().Dead {
		return retry
	}
	save := w.Save()
	if p[0] > 0 && save.Health >= save.HealthCapacity {
		return retry
	}
	if p[0] < 0 && save.Health <= 0 {
		return retry
	}
	return possible
}

func (ModifyHealth) OnApply(w game.World, p contract.Params) {
	save := w.Save()
	delta := int64(p[0]) * game.HealthPerHeart
	save.Health = clamp(int64(save.Health)+delta, 0, save.HealthCapacity)
}

// SetPlayerHealth sets health to an absolute number of hearts, clamped to
// capacity. Params: [hearts].
type SetPlayerHealth struct{}

func (SetPlayerHealth) CanBeApplied(w game.World, p contract.Params) contract.Result {
	if p[0] < 0 {
		return never
	}
	if r := requireInGame(w); r != possible {
		return r
	}
	if w.Status().Dead {
		return retry
	}
	save := w.Save()
	if targetHealth(save, p[0]) == save.Health {
		return retry
	}
	return possible
}

func (SetPlayerHealth) OnApply(w game.World, p contract.Params) {
	save := w.Save()
	save.Health = targetHealth(save, p[0])
}

func targetHealth(save *game.Save, hearts int32) int32 {
	return clamp(int64(hearts)*game.HealthPerHeart, 0, save.HealthCapacity)
}

// AddOrTakeAmmo changes an owned ammo count, clamped to its capacity.
// Params: [delta, ammo, _].
type AddOrTakeAmmo struct{}

func (AddOrTakeAmmo) CanBeApplied(w game.World, p contract.Params) contract.Result {
	ammo := game.Ammo(p[1])
	if p[0] == 0 || !ammo.Valid() {
		return never
	}
	if r := requireInGame(w); r != possible {
		return r
	}
	save := w.Save()
	capacity := save.AmmoCapacity[ammo]
	if capacity <= 0 {
		return never
	}
	if p[0] > 0 && save.Ammo[ammo] >= capacity {
		return retry
	}
	if p[0] < 0 && save.Ammo[ammo] <= 0 {
		return retry
	}
	return possible
}

func (AddOrTakeAmmo) OnApply(w game.World, p contract.Params) {
	save := w.Save()
	ammo := game.Ammo(p[1])
	save.Ammo[ammo] = clamp(int64(save.Ammo[ammo])+int64(p[0]), 0, save.AmmoCapacity[ammo])
}

const (
	shieldTake int32 = 0
	shieldGive int32 = 1
)

// GiveOrTakeShield grants or confiscates a shield. Params: [give(1)/take(0),
// shield, _]. Taking the equipped shield unequips it; giving a shield while
// none is equipped equips it.
type GiveOrTakeShield struct{}

func (GiveOrTakeShield) CanBeApplied(w game.World, p contract.Params) contract.Result {
	mode, shield := p[0], game.Shield(p[1])
	if (mode != shieldGive && mode != shieldTake) || !shield.Valid() {
		return never
	}
	if r := requireInGame(w); r != possible {
		return r
	}
	if w.Save().Shields[shield] == (mode == shieldGive) {
		return retry
	}
	return possible
}

func (GiveOrTakeShield) OnApply(w game.World, p contract.Params) {
	save := w.Save()
	shield := game.Shield(p[1])
	if p[0] == shieldGive {
		save.Shields[shield] = true
		if save.EquippedShield == game.ShieldNone {
			save.EquippedShield = shield
		}
		return
	}
	save.Shields[shield] = false
	if save.EquippedShield == shield {
		save.EquippedShield = game.ShieldNone
	}
}

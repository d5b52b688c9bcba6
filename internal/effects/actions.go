package effects

import (
	"game-interactor/effects/contract"
	"game-interactor/internal/game"
)

// TeleportPlayer warps the player to an entrance. Params: [entrance]. Fixed
// camera scenes block warps until the camera is released.
type TeleportPlayer struct{}

func (TeleportPlayer) CanBeApplied(w game.World, p contract.Params) contract.Result {
	if p[0] < 0 || p[0] >= game.EntranceCount {
		return never
	}
	if r := requirePlayable(w); r != possible {
		return r
	}
	if w.Status().FixedCamera {
		return retry
	}
	return possible
}

func (TeleportPlayer) OnApply(w game.World, p contract.Params) {
	w.Warp(p[0])
}

// ClearAssignedButtons empties the C button item slots. The B button keeps
// its sword.
type ClearAssignedButtons struct{}

func (ClearAssignedButtons) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	if r := requirePlayable(w); r != possible {
		return r
	}
	buttons := w.Save().Buttons
	for slot := game.SlotCLeft; slot < game.ButtonSlotCount; slot++ {
		if buttons[slot] != game.ItemNone {
			return possible
		}
	}
	return retry
}

func (ClearAssignedButtons) OnApply(w game.World, _ contract.Params) {
	save := w.Save()
	for slot := game.SlotCLeft; slot < game.ButtonSlotCount; slot++ {
		save.Buttons[slot] = game.ItemNone
	}
}

// SetTimeOfDay jumps the clock. Params: [time] in the range [0, 0xFFFF].
type SetTimeOfDay struct{}

func (SetTimeOfDay) CanBeApplied(w game.World, p contract.Params) contract.Result {
	if p[0] < 0 || p[0] > game.DayTimeMax {
		return never
	}
	if r := requirePlayable(w); r != possible {
		return r
	}
	if w.Save().DayTime == uint16(p[0]) {
		return retry
	}
	return possible
}

func (SetTimeOfDay) OnApply(w game.World, p contract.Params) {
	w.Save().DayTime = uint16(p[0])
}

// SetCosmeticsColor recolours one cosmetic slot. Params: [slot, 0xRRGGBB, _].
type SetCosmeticsColor struct{}

func (SetCosmeticsColor) CanBeApplied(w game.World, p contract.Params) contract.Result {
	if !game.CosmeticSlot(p[0]).Valid() {
		return never
	}
	if _, ok := game.ColorFromRGB(p[1]); !ok {
		return never
	}
	return requireLoaded(w)
}

func (SetCosmeticsColor) OnApply(w game.World, p contract.Params) {
	color, _ := game.ColorFromRGB(p[1])
	w.SetCosmeticColor(game.CosmeticSlot(p[0]), color)
}

// RandomizeCosmetics recolours every cosmetic slot. Params: [seed]; a zero
// seed draws one from the world RNG.
type RandomizeCosmetics struct{}

func (RandomizeCosmetics) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return requireLoaded(w)
}

func (RandomizeCosmetics) OnApply(w game.World, p contract.Params) {
	seed := int64(p[0])
	if seed == 0 {
		seed = w.SubsystemRNG("interactions.cosmetics").Int63()
	}
	w.RandomizeCosmetics(seed)
}

// PressButton presses a controller button mask for one frame. Params: [mask].
type PressButton struct{}

func (PressButton) CanBeApplied(w game.World, p contract.Params) contract.Result {
	if p[0] < 0 || p[0] > 0xFFFF || !game.ValidMask(game.Button(p[0])) {
		return never
	}
	return requirePlayable(w)
}

func (PressButton) OnApply(w game.World, p contract.Params) {
	w.PressButtons(game.Button(p[0]))
}

// PressRandomButton presses one button chosen from game.RandomPressable.
type PressRandomButton struct{}

func (PressRandomButton) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	return requirePlayable(w)
}

func (PressRandomButton) OnApply(w game.World, _ contract.Params) {
	rng := w.SubsystemRNG("interactions.buttons")
	w.PressButtons(game.RandomPressable[rng.Intn(len(game.RandomPressable))])
}

// GiveItem grants a unique item. Params: [item]. Owned items are rejected
// permanently. Ranged weapons come with an empty quiver or seed bag.
type GiveItem struct{}

func (GiveItem) CanBeApplied(w game.World, p contract.Params) contract.Result {
	item := game.Item(p[0])
	if !item.Valid() {
		return never
	}
	if r := requirePlayable(w); r != possible {
		return r
	}
	if w.Save().Items[item] {
		return never
	}
	return possible
}

func (GiveItem) OnApply(w game.World, p contract.Params) {
	save := w.Save()
	item := game.Item(p[0])
	save.Items[item] = true
	switch item {
	case game.ItemBow:
		grantCapacity(save, game.AmmoArrows, 30)
	case game.ItemSlingshot:
		grantCapacity(save, game.AmmoSeeds, 30)
	}
}

func grantCapacity(save *game.Save, ammo game.Ammo, capacity int32) {
	if save.AmmoCapacity[ammo] < capacity {
		save.AmmoCapacity[ammo] = capacity
	}
}

package effects

import (
	"game-interactor/effects/contract"
	"game-interactor/internal/game"
)

func define(kind contract.Kind, effect contract.Effect[game.World]) contract.Definition[game.World] {
	return contract.Definition[game.World]{
		Kind: kind,
		New:  func() contract.Effect[game.World] { return effect },
	}
}

// defineOwned registers a variant that keeps per-instance state; every
// instance gets its own value.
func defineOwned(kind contract.Kind, build func() contract.Effect[game.World]) contract.Definition[game.World] {
	return contract.Definition[game.World]{Kind: kind, New: build}
}

// Registry returns every interaction effect known to the game host.
func Registry() contract.Registry[game.World] {
	return contract.Registry[game.World]{
		define(KindSetSceneFlag, SetSceneFlag{}),
		define(KindUnsetSceneFlag, UnsetSceneFlag{}),
		define(KindSetFlag, SetFlag{}),
		define(KindUnsetFlag, UnsetFlag{}),

		define(KindModifyHeartContainers, ModifyHeartContainers{}),
		define(KindFillMagic, FillMagic{}),
		define(KindEmptyMagic, EmptyMagic{}),
		define(KindModifyRupees, ModifyRupees{}),
		define(KindModifyHealth, ModifyHealth{}),
		define(KindSetPlayerHealth, SetPlayerHealth{}),
		define(KindAddOrTakeAmmo, AddOrTakeAmmo{}),
		define(KindGiveOrTakeShield, GiveOrTakeShield{}),

		define(KindModifyGravity, ModifyGravity{}),
		defineOwned(KindFreezePlayer, func() contract.Effect[game.World] { return &FreezePlayer{} }),
		defineOwned(KindBurnPlayer, func() contract.Effect[game.World] { return &BurnPlayer{} }),
		defineOwned(KindElectrocutePlayer, func() contract.Effect[game.World] { return &ElectrocutePlayer{} }),
		defineOwned(KindKnockbackPlayer, func() contract.Effect[game.World] { return &KnockbackPlayer{} }),
		define(KindModifyLinkSize, ModifyLinkSize{}),
		define(KindInvisibleLink, InvisibleLink{}),
		define(KindPacifistMode, PacifistMode{}),
		define(KindDisableZTargeting, DisableZTargeting{}),
		define(KindWeatherRainstorm, WeatherRainstorm{}),
		define(KindReverseControls, ReverseControls{}),
		define(KindForceEquipBoots, ForceEquipBoots{}),
		define(KindModifyRunSpeedModifier, ModifyRunSpeedModifier{}),
		define(KindOneHitKO, OneHitKO{}),
		define(KindModifyDefenseModifier, ModifyDefenseModifier{}),
		define(KindPlayerInvincibility, PlayerInvincibility{}),
		define(KindSlipperyFloor, SlipperyFloor{}),
		define(KindRandomBombFuseTimer, RandomBombFuseTimer{}),
		define(KindDisableLedgeGrabs, DisableLedgeGrabs{}),
		define(KindRandomWind, RandomWind{}),
		define(KindRandomBonks, RandomBonks{}),
		define(KindSetCollisionViewer, SetCollisionViewer{}),
		define(KindNoUI, NoUI{}),

		define(KindTeleportPlayer, TeleportPlayer{}),
		define(KindClearAssignedButtons, ClearAssignedButtons{}),
		define(KindSetTimeOfDay, SetTimeOfDay{}),
		define(KindSetCosmeticsColor, SetCosmeticsColor{}),
		define(KindRandomizeCosmetics, RandomizeCosmetics{}),
		define(KindPressButton, PressButton{}),
		define(KindPressRandomButton, PressRandomButton{}),
		define(KindGiveItem, GiveItem{}),
	}
}

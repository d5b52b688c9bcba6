package effects

import "game-interactor/effects/contract"

// Flag-style kinds.
const (
	KindSetSceneFlag   contract.Kind = "set_scene_flag"
	KindUnsetSceneFlag contract.Kind = "unset_scene_flag"
	KindSetFlag        contract.Kind = "set_flag"
	KindUnsetFlag      contract.Kind = "unset_flag"
)

// Quantity-style kinds.
const (
	KindModifyHeartContainers contract.Kind = "modify_heart_containers"
	KindFillMagic             contract.Kind = "fill_magic"
	KindEmptyMagic            contract.Kind = "empty_magic"
	KindModifyRupees          contract.Kind = "modify_rupees"
	KindModifyHealth          contract.Kind = "modify_health"
	KindSetPlayerHealth       contract.Kind = "set_player_health"
	KindAddOrTakeAmmo         contract.Kind = "add_or_take_ammo"
	KindGiveOrTakeShield      contract.Kind = "give_or_take_shield"
)

// Timed and removable kinds.
const (
	KindModifyGravity          contract.Kind = "modify_gravity"
	KindFreezePlayer           contract.Kind = "freeze_player"
	KindBurnPlayer             contract.Kind = "burn_player"
	KindElectrocutePlayer      contract.Kind = "electrocute_player"
	KindKnockbackPlayer        contract.Kind = "knockback_player"
	KindModifyLinkSize         contract.Kind = "modify_link_size"
	KindInvisibleLink          contract.Kind = "invisible_link"
	KindPacifistMode           contract.Kind = "pacifist_mode"
	KindDisableZTargeting      contract.Kind = "disable_z_targeting"
	KindWeatherRainstorm       contract.Kind = "weather_rainstorm"
	KindReverseControls        contract.Kind = "reverse_controls"
	KindForceEquipBoots        contract.Kind = "force_equip_boots"
	KindModifyRunSpeedModifier contract.Kind = "modify_run_speed_modifier"
	KindOneHitKO               contract.Kind = "one_hit_ko"
	KindModifyDefenseModifier  contract.Kind = "modify_defense_modifier"
	KindPlayerInvincibility    contract.Kind = "player_invincibility"
	KindSlipperyFloor          contract.Kind = "slippery_floor"
	KindRandomBombFuseTimer    contract.Kind = "random_bomb_fuse_timer"
	KindDisableLedgeGrabs      contract.Kind = "disable_ledge_grabs"
	KindRandomWind             contract.Kind = "random_wind"
	KindRandomBonks            contract.Kind = "random_bonks"
	KindSetCollisionViewer     contract.Kind = "set_collision_viewer"
	KindNoUI                   contract.Kind = "no_ui"
)

// One-shot kinds.
const (
	KindTeleportPlayer       contract.Kind = "teleport_player"
	KindClearAssignedButtons contract.Kind = "clear_assigned_buttons"
	KindSetTimeOfDay         contract.Kind = "set_time_of_day"
	KindSetCosmeticsColor    contract.Kind = "set_cosmetics_color"
	KindRandomizeCosmetics   contract.Kind = "randomize_cosmetics"
	KindPressButton          contract.Kind = "press_button"
	KindPressRandomButton    contract.Kind = "press_random_button"
	KindGiveItem             contract.Kind = "give_item"
)

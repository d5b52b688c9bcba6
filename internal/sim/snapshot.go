package sim

import (
	"game-interactor/internal/game"
	"game-interactor/internal/interactor"
	"game-interactor/stats"
)

// SaveSummary mirrors the save fields useful to remote callers.
type SaveSummary struct {
	Health         int32      `json:"health"`
	HealthCapacity int32      `json:"healthCapacity"`
	Magic          int32      `json:"magic"`
	MagicCapacity  int32      `json:"magicCapacity"`
	Rupees         int32      `json:"rupees"`
	Wallet         int32      `json:"wallet"`
	EquippedShield game.Shield `json:"equippedShield"`
	Boots          game.Boots `json:"boots"`
	DayTime        uint16     `json:"dayTime"`
}

// StatsSummary reports the resolved player modifiers.
type StatsSummary struct {
	RunSpeed float64 `json:"runSpeed"`
	Defense  float64 `json:"defense"`
	Gravity  float64 `json:"gravity"`
	Scale    float64 `json:"scale"`
	// Version changes whenever the modifier stack is re-resolved.
	Version  uint64  `json:"version"`
}

func summarizeStats(c *stats.Component) StatsSummary {
	if c == nil {
		return StatsSummary{}
	}
	return StatsSummary{
		RunSpeed: c.GetTotal(stats.StatRunSpeed),
		Defense:  c.GetTotal(stats.StatDefense),
		Gravity:  c.GetTotal(stats.StatGravity),
		Scale:    c.GetTotal(stats.StatScale),
		Version:  c.Version(),
	}
}

// Snapshot captures the state exposed to non-simulation callers.
type Snapshot struct {
	Tick    uint64                         `json:"tick"`
	Status  game.Status                    `json:"status"`
	Save    SaveSummary                    `json:"save"`
	Player  game.Player                    `json:"player"`
	Toggles game.Toggles                   `json:"toggles"`
	Stats   StatsSummary                   `json:"stats"`
	Active  []interactor.ActiveInteraction `json:"active,omitempty"`
	Pending int                            `json:"pending"`
}

func summarizeSave(save *game.Save) SaveSummary {
	if save == nil {
		return SaveSummary{}
	}
	return SaveSummary{
		Health:         save.Health,
		HealthCapacity: save.HealthCapacity,
		Magic:          save.Magic,
		MagicCapacity:  save.MagicCapacity(),
		Rupees:         save.Rupees,
		Wallet:         save.Wallet.Capacity(),
		EquippedShield: save.EquippedShield,
		Boots:          save.Boots,
		DayTime:        save.DayTime,
	}
}

package game

import (
	"math/rand"

	"game-interactor/stats"
)

// World is the host game surface every interaction effect inspects and
// mutates. Implementations are driven from a single goroutine; effects never
// retain the pointers it hands out beyond one call.
type World interface {
	Status() Status
	Save() *Save
	Player() *Player
	Modifiers() *Modifiers

	// SubsystemRNG returns a deterministic RNG derived from the world seed.
	SubsystemRNG(label string) *rand.Rand

	Warp(entrance int32)
	PressButtons(mask Button)
	SetCosmeticColor(slot CosmeticSlot, color Color)
	RandomizeCosmetics(seed int64)
}

// Status summarises the transient state gating most interactions.
type Status struct {
	Loaded        bool  `json:"loaded"`
	Paused        bool  `json:"paused"`
	Transitioning bool  `json:"transitioning"`
	Cutscene      bool  `json:"cutscene"`
	FixedCamera   bool  `json:"fixedCamera"`
	Dead          bool  `json:"dead"`
	Indoors       bool  `json:"indoors"`
	Age           Age   `json:"age"`
	Scene         int32 `json:"scene"`
}

// InGame reports whether a save is loaded and the scene is settled.
func (s Status) InGame() bool {
	return s.Loaded && !s.Transitioning
}

// Controllable reports whether the player is currently accepting input.
func (s Status) Controllable() bool {
	return s.InGame() && !s.Paused && !s.Cutscene && !s.Dead
}

// Player holds transient per-player status timers, counted in host ticks.
type Player struct {
	FreezeTicks int32 `json:"freezeTicks"`
	BurnTicks   int32 `json:"burnTicks"`
	ShockTicks  int32 `json:"shockTicks"`
	// Knockback is a pending impulse the host consumes on its next step.
	Knockback   int32 `json:"knockback"`
	BootsLocked bool  `json:"bootsLocked"`

	// Owner tokens name the application that started each status. The host
	// zeroes an owner when it ends the status itself.
	FreezeOwner    uint64 `json:"freezeOwner,omitempty"`
	BurnOwner      uint64 `json:"burnOwner,omitempty"`
	ShockOwner     uint64 `json:"shockOwner,omitempty"`
	KnockbackOwner uint64 `json:"knockbackOwner,omitempty"`
}

// Toggles are the boolean player and world modifiers.
type Toggles struct {
	HideUI             bool `json:"hideUi"`
	Invisible          bool `json:"invisible"`
	Pacifist           bool `json:"pacifist"`
	ZTargetingDisabled bool `json:"zTargetingDisabled"`
	Rainstorm          bool `json:"rainstorm"`
	ReverseControls    bool `json:"reverseControls"`
	OneHitKO           bool `json:"oneHitKo"`
	Invincible         bool `json:"invincible"`
	SlipperyFloor      bool `json:"slipperyFloor"`
	RandomBombFuse     bool `json:"randomBombFuse"`
	LedgeGrabsDisabled bool `json:"ledgeGrabsDisabled"`
	RandomWind         bool `json:"randomWind"`
	RandomBonks        bool `json:"randomBonks"`
	CollisionViewer    bool `json:"collisionViewer"`
}

// Modifiers combines the layered numeric modifiers with the boolean toggles.
type Modifiers struct {
	Stats stats.Component
	Toggles
}

// NewModifiers returns modifiers resolved to the neutral baseline.
func NewModifiers() Modifiers {
	return Modifiers{Stats: stats.NewComponent(stats.Baseline())}
}

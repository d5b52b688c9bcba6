package game

import (
	"math/rand"
	"strings"

	"game-interactor/stats"
)

// Memory is an in-process World used by the reference server and tests. It
// records host actions (warps, button presses, cosmetics) so callers can
// observe them, and advances timers on Step. It is not safe for concurrent
// use; the simulation loop owns it.
type Memory struct {
	seed   string
	status Status
	save   Save
	player Player
	mods   Modifiers

	rngs map[string]*rand.Rand

	held          Button
	warps         []int32
	presses       []Button
	cosmetics     map[CosmeticSlot]Color
	cosmeticSeeds []int64
	tick          uint64
}

// NewMemory constructs a loaded, controllable adult game on a fresh save.
func NewMemory(seed string) *Memory {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		seed = DefaultSeed
	}
	return &Memory{
		seed: seed,
		status: Status{
			Loaded: true,
			Age:    AgeAdult,
			Scene:  0x51,
		},
		save:      NewSave(),
		mods:      NewModifiers(),
		rngs:      make(map[string]*rand.Rand),
		cosmetics: make(map[CosmeticSlot]Color),
	}
}

func (m *Memory) Status() Status        { return m.status }
func (m *Memory) Save() *Save           { return &m.save }
func (m *Memory) Player() *Player       { return &m.player }
func (m *Memory) Modifiers() *Modifiers { return &m.mods }

// SetStatus replaces the transient status flags.
func (m *Memory) SetStatus(status Status) {
	m.status = status
}

// UpdateStatus mutates the transient status flags in place.
func (m *Memory) UpdateStatus(fn func(*Status)) {
	if fn != nil {
		fn(&m.status)
	}
}

// SubsystemRNG returns the deterministic RNG for label, creating it on first
// use so repeated draws continue the same sequence.
func (m *Memory) SubsystemRNG(label string) *rand.Rand {
	if rng, ok := m.rngs[label]; ok {
		return rng
	}
	rng := NewDeterministicRNG(m.seed, label)
	m.rngs[label] = rng
	return rng
}

// Warp moves the player to an entrance. The scene stays in transition until
// the next Step.
func (m *Memory) Warp(entrance int32) {
	m.warps = append(m.warps, entrance)
	m.status.Transitioning = true
}

// PressButtons holds mask for one step.
func (m *Memory) PressButtons(mask Button) {
	m.held |= mask
	m.presses = append(m.presses, mask)
}

func (m *Memory) SetCosmeticColor(slot CosmeticSlot, color Color) {
	m.cosmetics[slot] = color
}

// RandomizeCosmetics assigns every cosmetic slot a colour drawn from seed.
func (m *Memory) RandomizeCosmetics(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for slot := CosmeticSlot(0); slot < CosmeticSlotCount; slot++ {
		m.cosmetics[slot] = Color{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256))}
	}
	m.cosmeticSeeds = append(m.cosmeticSeeds, seed)
}

// Held returns the buttons pressed since the last Step.
func (m *Memory) Held() Button {
	return m.held
}

// Tick returns the number of steps the host has advanced.
func (m *Memory) Tick() uint64 {
	return m.tick
}

// Step advances the host by one frame: pending transitions settle, held
// buttons release, knockback is consumed and status timers count down.
// Nothing advances while unloaded or paused.
func (m *Memory) Step() {
	if !m.status.Loaded || m.status.Paused {
		return
	}
	m.tick++
	m.status.Transitioning = false
	m.held = 0
	m.player.Knockback = 0
	m.player.KnockbackOwner = 0
	countdown(&m.player.FreezeTicks, &m.player.FreezeOwner)
	countdown(&m.player.BurnTicks, &m.player.BurnOwner)
	countdown(&m.player.ShockTicks, &m.player.ShockOwner)
	if !m.status.Indoors {
		m.save.DayTime += 0x10
	}
	if m.save.Health <= 0 && !m.mods.Invincible {
		m.save.Health = 0
		m.status.Dead = true
	}
}

func countdown(ticks *int32, owner *uint64) {
	if *ticks > 0 {
		*ticks--
	}
	if *ticks <= 0 {
		*ticks = 0
		*owner = 0
	}
}

// Snapshot is a deep, comparable copy of everything an interaction can change.
type Snapshot struct {
	Status        Status                 `json:"status"`
	Save          Save                   `json:"save"`
	Player        Player                 `json:"player"`
	Toggles       Toggles                `json:"toggles"`
	Stats         stats.ValueSet         `json:"stats"`
	Held          Button                 `json:"held"`
	Warps         []int32                `json:"warps"`
	Presses       []Button               `json:"presses"`
	Cosmetics     map[CosmeticSlot]Color `json:"cosmetics"`
	CosmeticSeeds []int64                `json:"cosmeticSeeds"`
	Tick          uint64                 `json:"tick"`
}

// Snapshot captures the current state without perturbing it.
func (m *Memory) Snapshot() Snapshot {
	resolved := m.mods.Stats.Clone()
	cosmetics := make(map[CosmeticSlot]Color, len(m.cosmetics))
	for slot, color := range m.cosmetics {
		cosmetics[slot] = color
	}
	return Snapshot{
		Status:        m.status,
		Save:          m.save.Clone(),
		Player:        m.player,
		Toggles:       m.mods.Toggles,
		Stats:         resolved.Totals(),
		Held:          m.held,
		Warps:         append([]int32(nil), m.warps...),
		Presses:       append([]Button(nil), m.presses...),
		Cosmetics:     cosmetics,
		CosmeticSeeds: append([]int64(nil), m.cosmeticSeeds...),
		Tick:          m.tick,
	}
}

var _ World = (*Memory)(nil)

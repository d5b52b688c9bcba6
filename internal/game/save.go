package game

const (
	// HealthPerHeart is the number of health units in one heart container.
	HealthPerHeart = 16
	// MinHeartContainers is the floor every heart container change clamps to.
	MinHeartContainers = 1
	// MaxHeartContainers is the ceiling every heart container change clamps to.
	MaxHeartContainers = 20
	// MagicPerLevel is the magic capacity granted by each magic upgrade.
	MagicPerLevel = 48
	// MaxMagicLevel is the double magic upgrade.
	MaxMagicLevel = 2
)

// Wallet is the rupee wallet upgrade level.
type Wallet int32

const (
	WalletChild Wallet = iota
	WalletAdult
	WalletGiant
	WalletTycoon
)

// Capacity returns the maximum rupee count the wallet holds.
func (w Wallet) Capacity() int32 {
	switch w {
	case WalletAdult:
		return 200
	case WalletGiant:
		return 500
	case WalletTycoon:
		return 999
	default:
		return 99
	}
}

// Save is the persistent portion of the game state.
type Save struct {
	HealthCapacity int32  `json:"healthCapacity"`
	Health         int32  `json:"health"`
	MagicLevel     int32  `json:"magicLevel"`
	Magic          int32  `json:"magic"`
	Rupees         int32  `json:"rupees"`
	Wallet         Wallet `json:"wallet"`

	Ammo           [AmmoCount]int32  `json:"ammo"`
	AmmoCapacity   [AmmoCount]int32  `json:"ammoCapacity"`
	Shields        [ShieldCount]bool `json:"shields"`
	EquippedShield Shield            `json:"equippedShield"`
	Items          [ItemCount]bool   `json:"items"`
	Boots          Boots             `json:"boots"`

	Buttons [ButtonSlotCount]Item `json:"buttons"`
	DayTime uint16                `json:"dayTime"`

	Flags      map[FlagKey]bool      `json:"-"`
	SceneFlags map[SceneFlagKey]bool `json:"-"`
	// Checks records collected randomizer locations by check identifier.
	Checks map[uint16]bool `json:"-"`
}

// NewSave returns a fresh adult save: three hearts, single magic, the adult
// wallet, a Deku shield and starting ammo.
func NewSave() Save {
	s := Save{
		HealthCapacity: 3 * HealthPerHeart,
		Health:         3 * HealthPerHeart,
		MagicLevel:     1,
		Magic:          MagicPerLevel,
		Wallet:         WalletAdult,
		EquippedShield: ShieldDeku,
		DayTime:        0x8000,
		Flags:          make(map[FlagKey]bool),
		SceneFlags:     make(map[SceneFlagKey]bool),
		Checks:         make(map[uint16]bool),
	}
	s.Shields[ShieldDeku] = true
	s.Items[ItemKokiriSword] = true
	s.Buttons[SlotB] = ItemKokiriSword
	s.AmmoCapacity[AmmoSticks] = 10
	s.AmmoCapacity[AmmoNuts] = 20
	s.AmmoCapacity[AmmoBombs] = 20
	s.Ammo[AmmoSticks] = 5
	s.Ammo[AmmoNuts] = 10
	s.Ammo[AmmoBombs] = 10
	return s
}

// HeartContainers returns the number of full heart containers.
func (s *Save) HeartContainers() int32 {
	return s.HealthCapacity / HealthPerHeart
}

// MagicCapacity returns the magic meter size for the current upgrade.
func (s *Save) MagicCapacity() int32 {
	return s.MagicLevel * MagicPerLevel
}

// Flag reports whether a general flag is set.
func (s *Save) Flag(key FlagKey) bool {
	return s.Flags[key]
}

// SetFlag sets or clears a general flag. Cleared flags are removed from the
// table so equal states compare equal.
func (s *Save) SetFlag(key FlagKey, value bool) {
	if !value {
		delete(s.Flags, key)
		return
	}
	if s.Flags == nil {
		s.Flags = make(map[FlagKey]bool)
	}
	s.Flags[key] = true
}

// SceneFlag reports whether a scene flag is set.
func (s *Save) SceneFlag(key SceneFlagKey) bool {
	return s.SceneFlags[key]
}

// SetSceneFlag sets or clears a scene flag.
func (s *Save) SetSceneFlag(key SceneFlagKey, value bool) {
	if !value {
		delete(s.SceneFlags, key)
		return
	}
	if s.SceneFlags == nil {
		s.SceneFlags = make(map[SceneFlagKey]bool)
	}
	s.SceneFlags[key] = true
}

// CheckCollected reports whether a randomizer location was collected.
func (s *Save) CheckCollected(check uint16) bool {
	return s.Checks[check]
}

// CollectCheck marks a randomizer location as collected.
func (s *Save) CollectCheck(check uint16) {
	if s.Checks == nil {
		s.Checks = make(map[uint16]bool)
	}
	s.Checks[check] = true
}

// Clone returns a deep copy of the save.
func (s Save) Clone() Save {
	clone := s
	clone.Flags = make(map[FlagKey]bool, len(s.Flags))
	for k, v := range s.Flags {
		clone.Flags[k] = v
	}
	clone.SceneFlags = make(map[SceneFlagKey]bool, len(s.SceneFlags))
	for k, v := range s.SceneFlags {
		clone.SceneFlags[k] = v
	}
	clone.Checks = make(map[uint16]bool, len(s.Checks))
	for k, v := range s.Checks {
		clone.Checks[k] = v
	}
	return clone
}

package game

// Age is the player's current age. Several items and equipment are
// age-restricted.
type Age uint8

const (
	AgeAdult Age = iota
	AgeChild
)

func (a Age) String() string {
	if a == AgeChild {
		return "child"
	}
	return "adult"
}

// FlagType selects one of the save's general flag tables.
type FlagType int32

const (
	FlagEvent FlagType = iota
	FlagItemGet
	FlagInf
	FlagEventInf
	FlagRandomizer

	flagTypeCount
)

// Valid reports whether t names a known flag table.
func (t FlagType) Valid() bool {
	return t >= 0 && t < flagTypeCount
}

// MaxFlagID bounds the flag index inside any flag table.
const MaxFlagID = 0x1000

// FlagKey addresses a single general flag.
type FlagKey struct {
	Type FlagType
	ID   int32
}

// SceneFlagType selects a per-scene flag table.
type SceneFlagType int32

const (
	SceneFlagSwitch SceneFlagType = iota
	SceneFlagChest
	SceneFlagClear
	SceneFlagCollect

	sceneFlagTypeCount
)

// Valid reports whether t names a known scene flag table.
func (t SceneFlagType) Valid() bool {
	return t >= 0 && t < sceneFlagTypeCount
}

const (
	// SceneCount bounds scene identifiers.
	SceneCount = 110
	// SceneFlagsPerTable bounds the flag index inside one scene table.
	SceneFlagsPerTable = 32
)

// SceneFlagKey addresses a single scene flag.
type SceneFlagKey struct {
	Scene int32
	Type  SceneFlagType
	ID    int32
}

// Ammo enumerates the counted inventory items.
type Ammo int32

const (
	AmmoSticks Ammo = iota
	AmmoNuts
	AmmoBombs
	AmmoArrows
	AmmoSeeds
	AmmoBombchus

	AmmoCount
)

// Valid reports whether a names a known ammo kind.
func (a Ammo) Valid() bool {
	return a >= 0 && a < AmmoCount
}

// Shield enumerates the shields the player can own.
type Shield int32

const (
	ShieldNone Shield = iota
	ShieldDeku
	ShieldHylian
	ShieldMirror

	ShieldCount
)

// Valid reports whether s names an ownable shield.
func (s Shield) Valid() bool {
	return s > ShieldNone && s < ShieldCount
}

// Boots enumerates the equippable boots. Kokiri boots are the baseline.
type Boots int32

const (
	BootsKokiri Boots = iota
	BootsIron
	BootsHover

	bootsCount
)

// Valid reports whether b names a known pair of boots.
func (b Boots) Valid() bool {
	return b >= BootsKokiri && b < bootsCount
}

// Item enumerates unique inventory items that can be granted once.
type Item int32

const (
	ItemNone Item = iota
	ItemKokiriSword
	ItemSlingshot
	ItemBoomerang
	ItemBow
	ItemHookshot
	ItemLongshot
	ItemLensOfTruth
	ItemMegatonHammer
	ItemOcarina
	ItemMagicBeans
	ItemBottle
	ItemDinsFire

	ItemCount
)

// Valid reports whether i names a grantable item.
func (i Item) Valid() bool {
	return i > ItemNone && i < ItemCount
}

// ButtonSlot enumerates the assignable item buttons.
type ButtonSlot int

const (
	SlotB ButtonSlot = iota
	SlotCLeft
	SlotCDown
	SlotCRight

	ButtonSlotCount
)

// Button is a controller button bitmask.
type Button uint16

const (
	ButtonCRight Button = 0x0001
	ButtonCLeft  Button = 0x0002
	ButtonCDown  Button = 0x0004
	ButtonCUp    Button = 0x0008
	ButtonR      Button = 0x0010
	ButtonL      Button = 0x0020
	ButtonDRight Button = 0x0100
	ButtonDLeft  Button = 0x0200
	ButtonDDown  Button = 0x0400
	ButtonDUp    Button = 0x0800
	ButtonStart  Button = 0x1000
	ButtonZ      Button = 0x2000
	ButtonB      Button = 0x4000
	ButtonA      Button = 0x8000

	AllButtons = ButtonCRight | ButtonCLeft | ButtonCDown | ButtonCUp | ButtonR | ButtonL |
		ButtonDRight | ButtonDLeft | ButtonDDown | ButtonDUp | ButtonStart | ButtonZ | ButtonB | ButtonA
)

// RandomPressable lists the buttons a random press may choose from. Start is
// excluded so a random press never opens the pause menu.
var RandomPressable = []Button{
	ButtonA, ButtonB, ButtonZ, ButtonR, ButtonL,
	ButtonCUp, ButtonCDown, ButtonCLeft, ButtonCRight,
	ButtonDUp, ButtonDDown, ButtonDLeft, ButtonDRight,
}

// ValidMask reports whether mask presses at least one known button and
// nothing else.
func ValidMask(mask Button) bool {
	return mask != 0 && mask&^AllButtons == 0
}

// CosmeticSlot enumerates the recolourable cosmetic targets.
type CosmeticSlot int32

const (
	CosmeticKokiriTunic CosmeticSlot = iota
	CosmeticGoronTunic
	CosmeticZoraTunic
	CosmeticNavi
	CosmeticSwordTrail
	CosmeticHUDHearts

	CosmeticSlotCount
)

// Valid reports whether s names a known cosmetic slot.
func (s CosmeticSlot) Valid() bool {
	return s >= 0 && s < CosmeticSlotCount
}

// Color is an opaque RGB colour.
type Color struct {
	R, G, B uint8
}

// ColorFromRGB unpacks a 0xRRGGBB value.
func ColorFromRGB(packed int32) (Color, bool) {
	if packed < 0 || packed > 0xFFFFFF {
		return Color{}, false
	}
	return Color{R: uint8(packed >> 16), G: uint8(packed >> 8), B: uint8(packed)}, true
}

// LinkSize enumerates the supported player scale presets.
type LinkSize int32

const (
	SizeNormal LinkSize = iota
	SizeGiant
	SizeMinish
	SizeSquished
)

// Scale returns the scale factor for the preset and whether it is known.
func (s LinkSize) Scale() (float64, bool) {
	switch s {
	case SizeNormal:
		return 1, true
	case SizeGiant:
		return 2, true
	case SizeMinish:
		return 0.25, true
	case SizeSquished:
		return 0.5, true
	default:
		return 0, false
	}
}

// GravityLevel enumerates the supported gravity presets.
type GravityLevel int32

const (
	GravityNormal GravityLevel = iota
	GravityLight
	GravityHeavy
)

// Factor returns the gravity multiplier for the preset and whether it is known.
func (g GravityLevel) Factor() (float64, bool) {
	switch g {
	case GravityNormal:
		return 1, true
	case GravityLight:
		return 0.5, true
	case GravityHeavy:
		return 2, true
	default:
		return 0, false
	}
}

const (
	// EntranceCount bounds the entrance table used by warps.
	EntranceCount = 0x614
	// DayTimeMax is the largest representable time of day.
	DayTimeMax = 0xFFFF
)

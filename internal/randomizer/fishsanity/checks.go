package fishsanity

import "fmt"

// Check identifies a randomizer location. Values double as the save's
// collected-check keys.
type Check uint16

// CheckNone is the zero identity carried by fish that map to no location.
const CheckNone Check = 0

// Fishing pond checks, in the order the pond hands them out.
const (
	CheckChildFish1 Check = 0x0300 + iota
	CheckChildFish2
	CheckChildFish3
	CheckChildFish4
	CheckChildFish5
	CheckChildFish6
	CheckChildFish7
	CheckChildFish8
	CheckChildFish9
	CheckChildFish10
	CheckChildFish11
	CheckChildFish12
	CheckChildFish13
	CheckChildFish14
	CheckChildFish15
	CheckChildLoach1
	CheckChildLoach2
)

const (
	CheckAdultFish1 Check = 0x0320 + iota
	CheckAdultFish2
	CheckAdultFish3
	CheckAdultFish4
	CheckAdultFish5
	CheckAdultFish6
	CheckAdultFish7
	CheckAdultFish8
	CheckAdultFish9
	CheckAdultFish10
	CheckAdultFish11
	CheckAdultFish12
	CheckAdultFish13
	CheckAdultFish14
	CheckAdultFish15
	CheckAdultLoach
)

// Grotto fish checks.
const (
	CheckKFStormsGrottoFish Check = 0x0340 + iota
	CheckLWNearShortcutsGrottoFish
	CheckHFSoutheastGrottoFish
	CheckHFOpenGrottoFish
	CheckHFNearMarketGrottoFish
	CheckKakOpenGrottoFish
	CheckDMTStormsGrottoFish
	CheckDMCUpperGrottoFish
	CheckZRStormsGrottoFish
	CheckZROpenGrottoFish
)

// Non-fish checks that share the fishing pond scene.
const (
	CheckLHChildFishing Check = 0x0360 + iota
	CheckLHAdultFishing
)

var childPondFish = []Check{
	CheckChildFish1, CheckChildFish2, CheckChildFish3, CheckChildFish4, CheckChildFish5,
	CheckChildFish6, CheckChildFish7, CheckChildFish8, CheckChildFish9, CheckChildFish10,
	CheckChildFish11, CheckChildFish12, CheckChildFish13, CheckChildFish14, CheckChildFish15,
	CheckChildLoach1, CheckChildLoach2,
}

var adultPondFish = []Check{
	CheckAdultFish1, CheckAdultFish2, CheckAdultFish3, CheckAdultFish4, CheckAdultFish5,
	CheckAdultFish6, CheckAdultFish7, CheckAdultFish8, CheckAdultFish9, CheckAdultFish10,
	CheckAdultFish11, CheckAdultFish12, CheckAdultFish13, CheckAdultFish14, CheckAdultFish15,
	CheckAdultLoach,
}

var grottoFish = []Check{
	CheckKFStormsGrottoFish,
	CheckLWNearShortcutsGrottoFish,
	CheckHFSoutheastGrottoFish,
	CheckHFOpenGrottoFish,
	CheckHFNearMarketGrottoFish,
	CheckKakOpenGrottoFish,
	CheckDMTStormsGrottoFish,
	CheckDMCUpperGrottoFish,
	CheckZRStormsGrottoFish,
	CheckZROpenGrottoFish,
}

// MaxPondFish is the largest useful NumFish setting: every child fish plus
// both loaches.
var MaxPondFish = uint8(len(childPondFish))

// pondAge maps each pond check to whether it belongs to the adult pond.
var pondAge = func() map[Check]bool {
	ages := make(map[Check]bool, len(childPondFish)+len(adultPondFish))
	for _, check := range childPondFish {
		ages[check] = false
	}
	for _, check := range adultPondFish {
		ages[check] = true
	}
	return ages
}()

var grottoSet = func() map[Check]struct{} {
	set := make(map[Check]struct{}, len(grottoFish))
	for _, check := range grottoFish {
		set[check] = struct{}{}
	}
	return set
}()

// CheckType classifies a check for fishsanity purposes.
type CheckType uint8

const (
	CheckTypeNone CheckType = iota
	CheckTypePond
	CheckTypeGrotto
)

func (t CheckType) String() string {
	switch t {
	case CheckTypePond:
		return "pond"
	case CheckTypeGrotto:
		return "grotto"
	default:
		return "none"
	}
}

// TypeOf returns the fishsanity type of check.
func TypeOf(check Check) CheckType {
	if _, ok := pondAge[check]; ok {
		return CheckTypePond
	}
	if _, ok := grottoSet[check]; ok {
		return CheckTypeGrotto
	}
	return CheckTypeNone
}

func (c Check) String() string {
	if idx := indexOf(childPondFish, c); idx >= 0 {
		return pondName("child", idx, len(childPondFish)-2)
	}
	if idx := indexOf(adultPondFish, c); idx >= 0 {
		return pondName("adult", idx, len(adultPondFish)-1)
	}
	if idx := indexOf(grottoFish, c); idx >= 0 {
		return fmt.Sprintf("grotto_fish_%d", idx+1)
	}
	if c == CheckNone {
		return "none"
	}
	return fmt.Sprintf("check(0x%04x)", uint16(c))
}

func pondName(age string, idx, fishCount int) string {
	if idx < fishCount {
		return fmt.Sprintf("%s_fish_%d", age, idx+1)
	}
	return fmt.Sprintf("%s_loach_%d", age, idx-fishCount+1)
}

func indexOf(checks []Check, check Check) int {
	for i, candidate := range checks {
		if candidate == check {
			return i
		}
	}
	return -1
}

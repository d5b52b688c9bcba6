// Package fishsanity tracks which fish are randomizer checks and which pond
// check is currently on offer.
package fishsanity

import (
	"context"
	"errors"
	"sync"

	"game-interactor/internal/game"
	"game-interactor/logging"
	"game-interactor/logging/randomizer"
)

// ParamsFishBase is the actor parameter of the first pond fish. Pond fish
// are numbered consecutively from it, loaches last.
const ParamsFishBase int16 = 100

// Identity names the check a caught fish grants.
type Identity struct {
	Check Check `json:"check"`
}

// Meta is the fishsanity state attached to a pond fish.
type Meta struct {
	Params int16 `json:"params"`
	// KillAfterCollect removes the fish from the pond once its check is
	// collected.
	KillAfterCollect bool     `json:"killAfterCollect"`
	Fish             Identity `json:"fish"`
}

var (
	DefaultIdentity = Identity{Check: CheckNone}
	DefaultMeta     = Meta{Fish: DefaultIdentity}
)

// ErrMissingWorld is returned when a tracker is built without a world.
var ErrMissingWorld = errors.New("fishsanity: world is required")

// PondReport is the pond state as of the last Refresh.
type PondReport struct {
	Tick      uint64 `json:"tick"`
	AdultPond bool   `json:"adultPond"`
	Cleared   bool   `json:"cleared"`
	ChildFish Meta   `json:"childFish"`
	AdultFish Meta   `json:"adultFish"`
	HeldFish  Meta   `json:"heldFish"`
}

// Tracker answers fishsanity questions against one world. It is driven from
// the same goroutine as the world; only Report may be called from others.
type Tracker struct {
	world     game.World
	options   OptionsProvider
	publisher logging.Publisher
	tick      func() uint64

	// current holds the child and adult pond cursors.
	current [2]Meta
	held    Meta

	reportMu sync.RWMutex
	report   PondReport
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithPublisher routes pond events to pub.
func WithPublisher(pub logging.Publisher) Option {
	return func(t *Tracker) {
		if pub != nil {
			t.publisher = pub
		}
	}
}

// WithTick stamps events with the host tick.
func WithTick(tick func() uint64) Option {
	return func(t *Tracker) {
		t.tick = tick
	}
}

// New constructs a tracker. A nil options provider disables fishsanity.
func New(world game.World, options OptionsProvider, opts ...Option) (*Tracker, error) {
	if world == nil {
		return nil, ErrMissingWorld
	}
	if options == nil {
		options = StaticOptions{}
	}
	t := &Tracker{
		world:     world,
		options:   options,
		publisher: logging.NopPublisher(),
		current:   [2]Meta{DefaultMeta, DefaultMeta},
		held:      DefaultMeta,
		report:    PondReport{ChildFish: DefaultMeta, AdultFish: DefaultMeta, HeldFish: DefaultMeta},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t, nil
}

// Options returns the pond options from source.
func (t *Tracker) Options(source Source) PondOptions {
	return t.options.FishsanityOptions(source)
}

// LocationIncluded reports whether check is an active fishsanity location.
func (t *Tracker) LocationIncluded(check Check, source Source) bool {
	opts := t.Options(source)
	switch TypeOf(check) {
	case CheckTypePond:
		if !opts.Mode.pond() {
			return false
		}
		list := childPondFish
		if pondAge[check] {
			if !opts.AgeSplit {
				return false
			}
			list = adultPondFish
		}
		return indexOf(list, check) < int(opts.NumFish)
	case CheckTypeGrotto:
		return opts.Mode.grottos()
	default:
		return false
	}
}

// PondLocations splits every pond check into active and inactive ones.
func (t *Tracker) PondLocations(source Source) (active, inactive []Check) {
	for _, list := range [][]Check{childPondFish, adultPondFish} {
		for _, check := range list {
			if t.LocationIncluded(check, source) {
				active = append(active, check)
			} else {
				inactive = append(inactive, check)
			}
		}
	}
	return active, inactive
}

// Locations returns every active fishsanity check, and the inactive pond
// checks.
func (t *Tracker) Locations(source Source) (active, inactive []Check) {
	active, inactive = t.PondLocations(source)
	for _, check := range grottoFish {
		if t.LocationIncluded(check, source) {
			active = append(active, check)
		}
	}
	return active, inactive
}

// PondFishShuffled reports whether any pond fish is a check.
func (t *Tracker) PondFishShuffled() bool {
	opts := t.Options(SourceRando)
	return opts.Mode.pond() && opts.NumFish > 0
}

// GrottoFishShuffled reports whether grotto fish are checks.
func (t *Tracker) GrottoFishShuffled() bool {
	return t.Options(SourceRando).Mode.grottos()
}

// IsAdultPond reports whether the adult pond checks apply: the pond is age
// split and the player is an adult.
func (t *Tracker) IsAdultPond() bool {
	return t.Options(SourceRando).AgeSplit && t.world.Status().Age == game.AgeAdult
}

// IdentifyPondFish returns the check granted by the fish with params. When
// only some fish are checks, every fish grants the check on offer.
func (t *Tracker) IdentifyPondFish(params uint8) Identity {
	if !t.PondFishShuffled() {
		return DefaultIdentity
	}
	adult := t.IsAdultPond()
	if t.Options(SourceRando).allShuffled() {
		return pondFish(int16(params), adult)
	}
	return t.current[slot(adult)].Fish
}

// PondFishMeta returns the metadata for the fish with params. Fish whose
// check is already collected carry the default identity.
func (t *Tracker) PondFishMeta(params int16) Meta {
	if !t.PondFishShuffled() {
		return Meta{Params: params, Fish: DefaultIdentity}
	}
	fish := t.IdentifyPondFish(uint8(params))
	if fish.Check == CheckNone || t.collected(fish.Check) {
		return Meta{Params: params, Fish: DefaultIdentity}
	}
	return Meta{
		Params:           params,
		KillAfterCollect: t.Options(SourceRando).allShuffled(),
		Fish:             fish,
	}
}

// InitializeFromSave clears the held fish and rebuilds the pond cursors.
func (t *Tracker) InitializeFromSave() {
	t.held = DefaultMeta
	t.UpdateCurrentPondFish()
}

// UpdateCurrentPondFish points each pond cursor at the first active check of
// its age that is not yet collected.
func (t *Tracker) UpdateCurrentPondFish() {
	t.current = [2]Meta{DefaultMeta, DefaultMeta}
	if !t.PondFishShuffled() {
		return
	}
	opts := t.Options(SourceRando)
	t.current[slot(false)] = t.nextUncollected(childPondFish)
	if opts.AgeSplit {
		t.current[slot(true)] = t.nextUncollected(adultPondFish)
	}
}

func (t *Tracker) nextUncollected(list []Check) Meta {
	for i, check := range list {
		if !t.LocationIncluded(check, SourceRando) {
			continue
		}
		if t.collected(check) {
			continue
		}
		return Meta{Params: ParamsFishBase + int16(i), Fish: Identity{Check: check}}
	}
	return DefaultMeta
}

// PondCleared reports whether every active pond check for the current age
// is collected.
func (t *Tracker) PondCleared() bool {
	if !t.PondFishShuffled() {
		return false
	}
	list := childPondFish
	if t.IsAdultPond() {
		list = adultPondFish
	}
	for _, check := range list {
		if t.LocationIncluded(check, SourceRando) && !t.collected(check) {
			return false
		}
	}
	return true
}

// AdvancePond moves the cursor for the current age to the next uncollected
// check and returns it. It has no effect when every fish is shuffled.
func (t *Tracker) AdvancePond() Meta {
	if t.Options(SourceRando).allShuffled() {
		return DefaultMeta
	}
	t.UpdateCurrentPondFish()
	adult := t.IsAdultPond()
	meta := t.current[slot(adult)]
	randomizer.PondAdvanced(context.Background(), t.publisher, t.now(), randomizer.PondPayload{
		Check:  meta.Fish.Check.String(),
		Params: meta.Params,
		Adult:  adult,
	}, nil)
	return meta
}

// SetHeldFish records the fish the player just landed.
func (t *Tracker) SetHeldFish(meta Meta) {
	t.held = meta
	if meta.Fish.Check == CheckNone {
		return
	}
	randomizer.FishHeld(context.Background(), t.publisher, t.now(), randomizer.PondPayload{
		Check:  meta.Fish.Check.String(),
		Params: meta.Params,
		Adult:  t.IsAdultPond(),
	}, nil)
}

// Refresh rebuilds the pond cursors from the save and publishes them for
// Report.
func (t *Tracker) Refresh() {
	t.UpdateCurrentPondFish()
	report := PondReport{
		Tick:      t.now(),
		AdultPond: t.IsAdultPond(),
		Cleared:   t.PondCleared(),
		ChildFish: t.current[slot(false)],
		AdultFish: t.current[slot(true)],
		HeldFish:  t.held,
	}
	t.reportMu.Lock()
	t.report = report
	t.reportMu.Unlock()
}

// Report returns the pond state captured by the last Refresh.
func (t *Tracker) Report() PondReport {
	t.reportMu.RLock()
	defer t.reportMu.RUnlock()
	return t.report
}

// HeldFish returns the fish the player is holding.
func (t *Tracker) HeldFish() Meta {
	return t.held
}

// CurrentPondFish returns the cursor for one pond age.
func (t *Tracker) CurrentPondFish(adult bool) Meta {
	return t.current[slot(adult)]
}

func (t *Tracker) collected(check Check) bool {
	return t.world.Save().CheckCollected(uint16(check))
}

func (t *Tracker) now() uint64 {
	if t.tick == nil {
		return 0
	}
	return t.tick()
}

func pondFish(params int16, adult bool) Identity {
	list := childPondFish
	if adult {
		list = adultPondFish
	}
	idx := int(params) - int(ParamsFishBase)
	if idx < 0 || idx >= len(list) {
		return DefaultIdentity
	}
	return Identity{Check: list[idx]}
}

func slot(adult bool) int {
	if adult {
		return 1
	}
	return 0
}

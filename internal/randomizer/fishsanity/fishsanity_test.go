package fishsanity

import (
	"context"
	"errors"
	"testing"

	"game-interactor/internal/game"
	"game-interactor/logging"
	"game-interactor/logging/randomizer"
)

type eventLog struct {
	events []logging.Event
}

func (e *eventLog) Publish(_ context.Context, event logging.Event) {
	e.events = append(e.events, event)
}

func newTracker(t *testing.T, opts PondOptions, extra ...Option) (*Tracker, *game.Memory) {
	t.Helper()
	world := game.NewMemory(game.DefaultSeed)
	tracker, err := New(world, StaticOptions{SourceRando: opts}, extra...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	tracker.InitializeFromSave()
	return tracker, world
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		check Check
		want  CheckType
	}{
		{check: CheckChildFish1, want: CheckTypePond},
		{check: CheckChildLoach2, want: CheckTypePond},
		{check: CheckAdultLoach, want: CheckTypePond},
		{check: CheckZROpenGrottoFish, want: CheckTypeGrotto},
		{check: CheckLHChildFishing, want: CheckTypeNone},
		{check: CheckNone, want: CheckTypeNone},
	}
	for _, tt := range tests {
		t.Run(tt.check.String(), func(t *testing.T) {
			if got := TypeOf(tt.check); got != tt.want {
				t.Fatalf("TypeOf(%s) = %s, want %s", tt.check, got, tt.want)
			}
		})
	}
}

func TestCheckNames(t *testing.T) {
	names := map[Check]string{
		CheckChildFish3:         "child_fish_3",
		CheckChildLoach2:        "child_loach_2",
		CheckAdultLoach:         "adult_loach_1",
		CheckKFStormsGrottoFish: "grotto_fish_1",
		CheckNone:               "none",
		CheckLHAdultFishing:     "check(0x0361)",
	}
	for check, want := range names {
		if got := check.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}

func TestLocationIncluded(t *testing.T) {
	tests := []struct {
		name  string
		opts  PondOptions
		check Check
		want  bool
	}{
		{name: "off", opts: PondOptions{Mode: ModeOff, NumFish: 17}, check: CheckChildFish1, want: false},
		{name: "pond first fish", opts: PondOptions{Mode: ModePond, NumFish: 3}, check: CheckChildFish3, want: true},
		{name: "pond beyond count", opts: PondOptions{Mode: ModePond, NumFish: 3}, check: CheckChildFish4, want: false},
		{name: "adult without split", opts: PondOptions{Mode: ModePond, NumFish: 17}, check: CheckAdultFish1, want: false},
		{name: "adult with split", opts: PondOptions{Mode: ModeBoth, NumFish: 17, AgeSplit: true}, check: CheckAdultLoach, want: true},
		{name: "loach needs full count", opts: PondOptions{Mode: ModePond, NumFish: 15}, check: CheckChildLoach1, want: false},
		{name: "grotto in pond mode", opts: PondOptions{Mode: ModePond, NumFish: 17}, check: CheckHFOpenGrottoFish, want: false},
		{name: "grotto in grotto mode", opts: PondOptions{Mode: ModeGrottos}, check: CheckHFOpenGrottoFish, want: true},
		{name: "non fish", opts: PondOptions{Mode: ModeBoth, NumFish: 17}, check: CheckLHChildFishing, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, _ := newTracker(t, tt.opts)
			if got := tracker.LocationIncluded(tt.check, SourceRando); got != tt.want {
				t.Fatalf("LocationIncluded(%s) = %v, want %v", tt.check, got, tt.want)
			}
		})
	}
}

func TestOptionsSource(t *testing.T) {
	world := game.NewMemory(game.DefaultSeed)
	tracker, err := New(world, StaticOptions{
		SourceRando: {Mode: ModeOff},
		SourceCVars: {Mode: ModeGrottos},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if tracker.LocationIncluded(CheckDMTStormsGrottoFish, SourceRando) {
		t.Fatalf("rando settings disable fishsanity")
	}
	if !tracker.LocationIncluded(CheckDMTStormsGrottoFish, SourceCVars) {
		t.Fatalf("cvar settings shuffle grotto fish")
	}

	fallback := StaticOptions{SourceRando: {Mode: ModePond, NumFish: 2}}
	if got := fallback.FishsanityOptions(SourceCVars); got.NumFish != 2 {
		t.Fatalf("expected missing source to fall back to rando settings, got %+v", got)
	}
	if got := OptionsFunc(nil).FishsanityOptions(SourceRando); got != (PondOptions{}) {
		t.Fatalf("nil OptionsFunc must yield zero options, got %+v", got)
	}
}

func TestLocations(t *testing.T) {
	tracker, _ := newTracker(t, PondOptions{Mode: ModeBoth, NumFish: 2, AgeSplit: true})

	active, inactive := tracker.PondLocations(SourceRando)
	if len(active) != 4 {
		t.Fatalf("expected 2 child + 2 adult active pond checks, got %v", active)
	}
	if len(active)+len(inactive) != len(childPondFish)+len(adultPondFish) {
		t.Fatalf("pond partition lost checks: %d + %d", len(active), len(inactive))
	}

	all, allInactive := tracker.Locations(SourceRando)
	if len(all) != len(active)+len(grottoFish) {
		t.Fatalf("expected grotto fish appended to active checks, got %d", len(all))
	}
	if len(allInactive) != len(inactive) {
		t.Fatalf("inactive list should only hold pond checks, got %d", len(allInactive))
	}
}

func TestShuffledFlagsAndAdultPond(t *testing.T) {
	tracker, world := newTracker(t, PondOptions{Mode: ModePond, NumFish: 1, AgeSplit: true})
	if !tracker.PondFishShuffled() || tracker.GrottoFishShuffled() {
		t.Fatalf("unexpected shuffle flags")
	}
	if !tracker.IsAdultPond() {
		t.Fatalf("adult player with age split should use the adult pond")
	}
	world.UpdateStatus(func(s *game.Status) { s.Age = game.AgeChild })
	if tracker.IsAdultPond() {
		t.Fatalf("child player should use the child pond")
	}

	zero, _ := newTracker(t, PondOptions{Mode: ModePond, NumFish: 0})
	if zero.PondFishShuffled() {
		t.Fatalf("zero fish means the pond is not shuffled")
	}
}

func TestIdentifyPondFishAllShuffled(t *testing.T) {
	tracker, world := newTracker(t, PondOptions{Mode: ModePond, NumFish: MaxPondFish, AgeSplit: true})

	if got := tracker.IdentifyPondFish(uint8(ParamsFishBase) + 2); got.Check != CheckAdultFish3 {
		t.Fatalf("adult pond fish 3 = %s", got.Check)
	}
	world.UpdateStatus(func(s *game.Status) { s.Age = game.AgeChild })
	if got := tracker.IdentifyPondFish(uint8(ParamsFishBase) + 16); got.Check != CheckChildLoach2 {
		t.Fatalf("child loach 2 = %s", got.Check)
	}
	if got := tracker.IdentifyPondFish(5); got != DefaultIdentity {
		t.Fatalf("unknown params should map to the default identity, got %s", got.Check)
	}

	meta := tracker.PondFishMeta(ParamsFishBase)
	if meta.Fish.Check != CheckChildFish1 || !meta.KillAfterCollect {
		t.Fatalf("unexpected meta %+v", meta)
	}
	world.Save().CollectCheck(uint16(CheckChildFish1))
	if meta := tracker.PondFishMeta(ParamsFishBase); meta.Fish != DefaultIdentity {
		t.Fatalf("collected fish should carry the default identity, got %+v", meta)
	}

	if got := tracker.AdvancePond(); got != DefaultMeta {
		t.Fatalf("advancing a fully shuffled pond has no effect, got %+v", got)
	}
}

func TestPondCursorRotation(t *testing.T) {
	events := &eventLog{}
	tracker, world := newTracker(t, PondOptions{Mode: ModePond, NumFish: 2}, WithPublisher(events), WithTick(func() uint64 { return 9 }))

	if tracker.IsAdultPond() {
		t.Fatalf("without age split the child pond is always used")
	}
	if got := tracker.IdentifyPondFish(uint8(ParamsFishBase) + 10); got.Check != CheckChildFish1 {
		t.Fatalf("any fish should grant the check on offer, got %s", got.Check)
	}
	if meta := tracker.PondFishMeta(ParamsFishBase + 10); meta.KillAfterCollect {
		t.Fatalf("rotating pond fish stay in the pond")
	}
	if adult := tracker.CurrentPondFish(true); adult != DefaultMeta {
		t.Fatalf("adult cursor unused without age split, got %+v", adult)
	}

	world.Save().CollectCheck(uint16(CheckChildFish1))
	next := tracker.AdvancePond()
	if next.Fish.Check != CheckChildFish2 || next.Params != ParamsFishBase+1 {
		t.Fatalf("expected cursor on child fish 2, got %+v", next)
	}
	if tracker.PondCleared() {
		t.Fatalf("pond is not cleared yet")
	}

	world.Save().CollectCheck(uint16(CheckChildFish2))
	if done := tracker.AdvancePond(); done != DefaultMeta {
		t.Fatalf("exhausted pond should offer nothing, got %+v", done)
	}
	if !tracker.PondCleared() {
		t.Fatalf("expected pond cleared")
	}

	if len(events.events) != 2 || events.events[0].Type != randomizer.EventPondAdvanced || events.events[0].Tick != 9 {
		t.Fatalf("unexpected events %+v", events.events)
	}
	if payload, ok := events.events[0].Payload.(randomizer.PondPayload); !ok || payload.Check != "child_fish_2" {
		t.Fatalf("unexpected payload %+v", events.events[0].Payload)
	}
}

func TestAgeSplitCursors(t *testing.T) {
	tracker, world := newTracker(t, PondOptions{Mode: ModePond, NumFish: 1, AgeSplit: true})
	if got := tracker.CurrentPondFish(false).Fish.Check; got != CheckChildFish1 {
		t.Fatalf("child cursor = %s", got)
	}
	if got := tracker.CurrentPondFish(true).Fish.Check; got != CheckAdultFish1 {
		t.Fatalf("adult cursor = %s", got)
	}

	world.Save().CollectCheck(uint16(CheckAdultFish1))
	tracker.AdvancePond()
	if !tracker.PondCleared() {
		t.Fatalf("adult pond should be cleared")
	}
	world.UpdateStatus(func(s *game.Status) { s.Age = game.AgeChild })
	if tracker.PondCleared() {
		t.Fatalf("child pond still has its check")
	}
}

func TestHeldFish(t *testing.T) {
	events := &eventLog{}
	tracker, _ := newTracker(t, PondOptions{Mode: ModePond, NumFish: MaxPondFish}, WithPublisher(events))

	if tracker.HeldFish() != DefaultMeta {
		t.Fatalf("no fish held after initialisation")
	}
	meta := tracker.PondFishMeta(ParamsFishBase + 4)
	tracker.SetHeldFish(meta)
	if tracker.HeldFish() != meta {
		t.Fatalf("held fish = %+v, want %+v", tracker.HeldFish(), meta)
	}
	if len(events.events) != 1 || events.events[0].Type != randomizer.EventFishHeld {
		t.Fatalf("expected fish held event, got %+v", events.events)
	}

	tracker.InitializeFromSave()
	if tracker.HeldFish() != DefaultMeta {
		t.Fatalf("initialising from save drops the held fish")
	}
}

func TestRefreshPublishesReport(t *testing.T) {
	var tick uint64 = 7
	tracker, world := newTracker(t, PondOptions{Mode: ModePond, NumFish: 1, AgeSplit: true}, WithTick(func() uint64 { return tick }))
	if got := tracker.Report(); got.ChildFish != DefaultMeta || got.Tick != 0 {
		t.Fatalf("report before refresh = %+v", got)
	}

	tracker.Refresh()
	report := tracker.Report()
	if !report.AdultPond || report.Cleared || report.Tick != 7 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.ChildFish.Fish.Check != CheckChildFish1 || report.AdultFish.Fish.Check != CheckAdultFish1 {
		t.Fatalf("unexpected cursors %+v", report)
	}

	held := tracker.PondFishMeta(ParamsFishBase)
	tracker.SetHeldFish(held)
	world.Save().CollectCheck(uint16(CheckAdultFish1))
	tick = 8
	tracker.Refresh()
	report = tracker.Report()
	if !report.Cleared || report.AdultFish != DefaultMeta || report.HeldFish != held || report.Tick != 8 {
		t.Fatalf("expected adult pond cleared with the held fish reported, got %+v", report)
	}
}

func TestDisabledPond(t *testing.T) {
	tracker, _ := newTracker(t, PondOptions{Mode: ModeGrottos, NumFish: 5})
	if got := tracker.IdentifyPondFish(uint8(ParamsFishBase)); got != DefaultIdentity {
		t.Fatalf("unshuffled pond identifies nothing, got %s", got.Check)
	}
	if meta := tracker.PondFishMeta(ParamsFishBase); meta.Fish != DefaultIdentity || meta.Params != ParamsFishBase {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if tracker.PondCleared() {
		t.Fatalf("an unshuffled pond is never cleared")
	}
}

func TestNewRequiresWorld(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, ErrMissingWorld) {
		t.Fatalf("expected ErrMissingWorld, got %v", err)
	}
}

func TestParseModeAndSource(t *testing.T) {
	for _, mode := range []Mode{ModeOff, ModePond, ModeGrottos, ModeBoth} {
		parsed, err := ParseMode(mode.String())
		if err != nil || parsed != mode {
			t.Fatalf("ParseMode(%q) = %v, %v", mode.String(), parsed, err)
		}
	}
	if _, err := ParseMode("lake"); err == nil {
		t.Fatalf("expected unknown mode error")
	}
	if source, ok := ParseSource("CVARS"); !ok || source != SourceCVars {
		t.Fatalf("ParseSource(CVARS) = %v, %v", source, ok)
	}
	if _, ok := ParseSource("disk"); ok {
		t.Fatalf("expected unknown source to be rejected")
	}
}

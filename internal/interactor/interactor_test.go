package interactor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"game-interactor/effects/catalog"
	"game-interactor/effects/contract"
	"game-interactor/internal/effects"
	"game-interactor/internal/game"
	"game-interactor/internal/telemetry"
	"game-interactor/logging"
	"game-interactor/logging/interactions"
	"game-interactor/logging/lifecycle"
)

type eventLog struct {
	events []logging.Event
}

func (l *eventLog) Publish(_ context.Context, event logging.Event) {
	l.events = append(l.events, event)
}

func (l *eventLog) ofType(eventType logging.EventType) []logging.Event {
	var out []logging.Event
	for _, event := range l.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

type fixture struct {
	world   *game.Memory
	it      *Interactor
	events  *eventLog
	metrics *logging.Metrics
}

func newFixture(t *testing.T, reg contract.Registry[game.World]) fixture {
	t.Helper()
	resolver, err := catalog.Load(effects.Registry())
	if err != nil {
		t.Fatalf("catalog.Load failed: %v", err)
	}
	world := game.NewMemory(game.DefaultSeed)
	events := &eventLog{}
	metrics := &logging.Metrics{}
	next := 0
	it, err := New(world, reg, resolver, Options{
		Publisher: events,
		Metrics:   telemetry.WrapMetrics(metrics),
		NewID: func() string {
			next++
			return fmt.Sprintf("req-%d", next)
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return fixture{world: world, it: it, events: events, metrics: metrics}
}

func TestApplyOneShotByKind(t *testing.T) {
	f := newFixture(t, effects.Registry())
	before := f.world.Save().Rupees

	outcome := f.it.Apply(context.Background(), Request{Kind: effects.KindModifyRupees, Params: []int32{25}, Actor: "viewer"})
	if outcome.Result != contract.Possible {
		t.Fatalf("expected Possible, got %+v", outcome)
	}
	if outcome.RequestID != "req-1" || outcome.Removable || outcome.Active {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if got := f.world.Save().Rupees; got != before+25 {
		t.Fatalf("expected rupees %d, got %d", before+25, got)
	}
	if len(f.it.Active()) != 0 {
		t.Fatal("one-shot interactions must not be tracked")
	}
	applied := f.events.ofType(interactions.EventApplied)
	if len(applied) != 1 || applied[0].Actor.ID != "viewer" {
		t.Fatalf("expected one applied event from viewer, got %+v", applied)
	}
	snapshot := f.metrics.Snapshot()
	if snapshot[telemetry.KeyInteractionsApplied] != 1 || snapshot[telemetry.KindKey(telemetry.KeyInteractionsApplied, string(effects.KindModifyRupees))] != 1 {
		t.Fatalf("unexpected metrics %v", snapshot)
	}
}

func TestApplyCatalogEntryUsesDefaultsAndExpires(t *testing.T) {
	f := newFixture(t, effects.Registry())
	ctx := context.Background()
	f.it.Advance(ctx, 10)

	outcome := f.it.Apply(ctx, Request{Entry: "freeze-player"})
	if outcome.Result != contract.Possible || !outcome.Active {
		t.Fatalf("expected active freeze, got %+v", outcome)
	}
	if outcome.Params != contract.ParamsFrom(300) || outcome.ExpiresAt != 310 {
		t.Fatalf("unexpected params or expiry %+v", outcome)
	}
	if f.world.Player().FreezeTicks != 300 {
		t.Fatalf("expected freeze ticks 300, got %d", f.world.Player().FreezeTicks)
	}

	if expired := f.it.Advance(ctx, 309); len(expired) != 0 {
		t.Fatalf("expected nothing due yet, got %+v", expired)
	}
	expired := f.it.Advance(ctx, 310)
	if len(expired) != 1 || expired[0].Result != contract.Possible {
		t.Fatalf("expected freeze to expire, got %+v", expired)
	}
	if f.world.Player().FreezeTicks != 0 || len(f.it.Active()) != 0 {
		t.Fatal("expected freeze to be removed and untracked")
	}
	if len(f.events.ofType(interactions.EventExpired)) != 1 {
		t.Fatal("expected an expired event")
	}
}

func TestAdvanceDropsInteractionsTheHostAlreadyEnded(t *testing.T) {
	f := newFixture(t, effects.Registry())
	ctx := context.Background()

	outcome := f.it.Apply(ctx, Request{Kind: effects.KindFreezePlayer, Params: []int32{3}, DurationTicks: 5})
	if outcome.Result != contract.Possible {
		t.Fatalf("apply failed: %+v", outcome)
	}
	for i := 0; i < 3; i++ {
		f.world.Step()
	}
	expired := f.it.Advance(ctx, 5)
	if len(expired) != 1 || expired[0].Result != contract.NotPossible {
		t.Fatalf("expected NotPossible removal, got %+v", expired)
	}
	if len(f.it.Active()) != 0 {
		t.Fatal("expected the finished interaction to be dropped")
	}
	ended := f.events.ofType(interactions.EventExpired)
	if len(ended) != 1 || ended[0].Extra["reason"] != "ended by host" {
		t.Fatalf("expected an expired event noting the host ended it, got %+v", ended)
	}
}

func TestRemoveRestoresWorld(t *testing.T) {
	f := newFixture(t, effects.Registry())
	ctx := context.Background()
	baseline := f.world.Snapshot()

	outcome := f.it.Apply(ctx, Request{Kind: effects.KindPacifistMode, ID: "mine"})
	if outcome.Result != contract.Possible || !outcome.Active || outcome.ExpiresAt != 0 {
		t.Fatalf("unexpected apply outcome %+v", outcome)
	}
	active := f.it.Active()
	if len(active) != 1 || active[0].RequestID != "mine" || active[0].Kind != effects.KindPacifistMode {
		t.Fatalf("unexpected active set %+v", active)
	}

	removed := f.it.Remove(ctx, "mine", "viewer")
	if removed.Result != contract.Possible {
		t.Fatalf("expected removal, got %+v", removed)
	}
	if !reflect.DeepEqual(baseline, f.world.Snapshot()) {
		t.Fatal("expected world to match baseline after removal")
	}

	again := f.it.Remove(ctx, "mine", "viewer")
	if again.Result != contract.NotPossible || !errors.Is(again.Err, ErrNotActive) {
		t.Fatalf("expected second removal to be NotPossible, got %+v", again)
	}
}

func TestRejectedRequestsLeaveWorldUntouched(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		err  error
	}{
		{name: "empty", req: Request{}, err: ErrMissingTarget},
		{name: "unknown kind", req: Request{Kind: "summon_cucco"}, err: ErrUnknownKind},
		{name: "unknown entry", req: Request{Entry: "nope"}, err: ErrUnknownEntry},
		{name: "kind mismatch", req: Request{Entry: "freeze-player", Kind: effects.KindBurnPlayer}, err: ErrKindMismatch},
		{name: "out of range", req: Request{Entry: "modify-rupees", Params: []int32{5000}}, err: catalog.ErrParamOutOfRange},
		{name: "too many params", req: Request{Kind: effects.KindModifyRupees, Params: []int32{1, 2, 3, 4}}, err: catalog.ErrTooManyParams},
		{name: "duration on one-shot", req: Request{Kind: effects.KindModifyRupees, Params: []int32{1}, DurationTicks: 10}, err: ErrDurationNotRemovable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, effects.Registry())
			before := f.world.Snapshot()

			outcome := f.it.Apply(context.Background(), tt.req)
			if outcome.Result != contract.NotPossible {
				t.Fatalf("expected NotPossible, got %v", outcome.Result)
			}
			if !errors.Is(outcome.Err, tt.err) || outcome.Reason == "" {
				t.Fatalf("expected %v with reason, got %+v", tt.err, outcome)
			}
			if !reflect.DeepEqual(before, f.world.Snapshot()) {
				t.Fatal("expected rejected request to leave the world untouched")
			}
			if len(f.events.ofType(interactions.EventRejected)) != 1 {
				t.Fatal("expected a rejected event")
			}
		})
	}
}

func TestApplySurfacesTemporaryRejection(t *testing.T) {
	f := newFixture(t, effects.Registry())
	f.world.UpdateStatus(func(s *game.Status) { s.Paused = true })

	outcome := f.it.Apply(context.Background(), Request{Kind: effects.KindFreezePlayer, Params: []int32{60}})
	if outcome.Result != contract.TemporarilyNotPossible || !outcome.Retry() {
		t.Fatalf("expected retryable rejection, got %+v", outcome)
	}
	if f.metrics.Snapshot()[telemetry.KeyInteractionsRetry] != 1 {
		t.Fatalf("expected retry counter, got %v", f.metrics.Snapshot())
	}
	rejected := f.events.ofType(interactions.EventRejected)
	if len(rejected) != 1 || rejected[0].Severity != logging.SeverityInfo {
		t.Fatalf("expected info-level rejection, got %+v", rejected)
	}
}

func TestDuplicateActiveRequestID(t *testing.T) {
	f := newFixture(t, effects.Registry())
	ctx := context.Background()
	if outcome := f.it.Apply(ctx, Request{ID: "x", Kind: effects.KindNoUI}); outcome.Result != contract.Possible {
		t.Fatalf("apply failed: %+v", outcome)
	}
	outcome := f.it.Apply(ctx, Request{ID: "x", Kind: effects.KindOneHitKO})
	if !errors.Is(outcome.Err, ErrDuplicateRequest) {
		t.Fatalf("expected duplicate request error, got %+v", outcome)
	}
	if f.world.Modifiers().OneHitKO {
		t.Fatal("duplicate request must not reach the game")
	}
}

func TestQueryDoesNotMutate(t *testing.T) {
	f := newFixture(t, effects.Registry())
	before := f.world.Snapshot()

	outcome := f.it.Query(context.Background(), Request{Entry: "give-item"})
	if outcome.Result != contract.Possible || outcome.Kind != effects.KindGiveItem {
		t.Fatalf("unexpected query outcome %+v", outcome)
	}
	if !reflect.DeepEqual(before, f.world.Snapshot()) {
		t.Fatal("expected query to leave the world untouched")
	}
	if len(f.it.Active()) != 0 {
		t.Fatal("query must not track interactions")
	}
	if len(f.events.ofType(interactions.EventQueried)) != 1 {
		t.Fatal("expected a queried event")
	}
}

func TestRemoveAllResetsHost(t *testing.T) {
	f := newFixture(t, effects.Registry())
	ctx := context.Background()
	baseline := f.world.Snapshot()
	for _, kind := range []contract.Kind{effects.KindNoUI, effects.KindSlipperyFloor, effects.KindRandomWind} {
		if outcome := f.it.Apply(ctx, Request{Kind: kind}); outcome.Result != contract.Possible {
			t.Fatalf("apply %s failed: %+v", kind, outcome)
		}
	}

	if removed := f.it.RemoveAll(ctx); removed != 3 {
		t.Fatalf("expected 3 removals, got %d", removed)
	}
	if len(f.it.Active()) != 0 {
		t.Fatal("expected empty active set")
	}
	if !reflect.DeepEqual(baseline, f.world.Snapshot()) {
		t.Fatal("expected world to match baseline after reset")
	}
	if len(f.events.ofType(lifecycle.EventHostReset)) != 1 {
		t.Fatal("expected a host reset event")
	}
	removed := f.events.ofType(interactions.EventRemoved)
	if len(removed) != 3 {
		t.Fatalf("expected a removed event per interaction, got %d", len(removed))
	}
	for _, event := range removed {
		if event.Extra["reason"] != "host reset" {
			t.Fatalf("expected host reset reason, got %+v", event.Extra)
		}
	}
	if f.metrics.Snapshot()[telemetry.KeyInteractionsActive] != 0 {
		t.Fatal("expected active gauge to drop to zero")
	}
}

func TestRemoveAllRecordsInteractionsTheHostEnded(t *testing.T) {
	f := newFixture(t, effects.Registry())
	ctx := context.Background()
	if outcome := f.it.Apply(ctx, Request{ID: "kb", Kind: effects.KindKnockbackPlayer, Params: []int32{10}, Actor: "viewer"}); outcome.Result != contract.Possible {
		t.Fatalf("apply failed: %+v", outcome)
	}
	f.world.Step()

	if removed := f.it.RemoveAll(ctx); removed != 0 {
		t.Fatalf("expected nothing left to revert, got %d", removed)
	}
	rejected := f.events.ofType(interactions.EventRemoveRejected)
	if len(rejected) != 1 || rejected[0].Actor.ID != "viewer" {
		t.Fatalf("expected one remove_rejected event from viewer, got %+v", rejected)
	}
	if rejected[0].Extra["reason"] != "host reset" || rejected[0].Extra["ended"] != true {
		t.Fatalf("unexpected extra %+v", rejected[0].Extra)
	}
	if len(f.it.Active()) != 0 {
		t.Fatal("expected the ended interaction to be dropped")
	}
}

func TestStaleTimedStatusLeavesNewerOneAlone(t *testing.T) {
	tests := []struct {
		kind  contract.Kind
		first int32
		next  int32
		value func(*game.Player) int32
	}{
		{kind: effects.KindFreezePlayer, first: 5, next: 300, value: func(p *game.Player) int32 { return p.FreezeTicks }},
		{kind: effects.KindBurnPlayer, first: 3, next: 90, value: func(p *game.Player) int32 { return p.BurnTicks }},
		{kind: effects.KindElectrocutePlayer, first: 2, next: 45, value: func(p *game.Player) int32 { return p.ShockTicks }},
		{kind: effects.KindKnockbackPlayer, first: 10, next: 30, value: func(p *game.Player) int32 { return p.Knockback }},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			f := newFixture(t, effects.Registry())
			ctx := context.Background()
			if outcome := f.it.Apply(ctx, Request{ID: "a", Kind: tt.kind, Params: []int32{tt.first}}); outcome.Result != contract.Possible {
				t.Fatalf("apply a failed: %+v", outcome)
			}
			for i := int32(0); i < tt.first && tt.value(f.world.Player()) > 0; i++ {
				f.world.Step()
			}
			if outcome := f.it.Apply(ctx, Request{ID: "b", Kind: tt.kind, Params: []int32{tt.next}}); outcome.Result != contract.Possible {
				t.Fatalf("apply b failed: %+v", outcome)
			}

			removed := f.it.Remove(ctx, "a", "")
			if removed.Result != contract.NotPossible {
				t.Fatalf("expected stale removal NotPossible, got %+v", removed)
			}
			if got := tt.value(f.world.Player()); got != tt.next {
				t.Fatalf("expected newer status at %d, got %d", tt.next, got)
			}
			active := f.it.Active()
			if len(active) != 1 || active[0].RequestID != "b" {
				t.Fatalf("expected only b active, got %+v", active)
			}
		})
	}
}

func TestCatalogDurationCappedAtTimedStatus(t *testing.T) {
	f := newFixture(t, effects.Registry())
	ctx := context.Background()

	first := f.it.Apply(ctx, Request{ID: "a", Entry: "freeze-player", Params: []int32{10}})
	if first.Result != contract.Possible || first.ExpiresAt != 10 {
		t.Fatalf("expected expiry at the freeze length, got %+v", first)
	}
	for tick := uint64(1); tick <= 20; tick++ {
		f.world.Step()
		f.it.Advance(ctx, tick)
	}
	if len(f.it.Active()) != 0 {
		t.Fatalf("expected ended freeze to leave the active set, got %+v", f.it.Active())
	}

	second := f.it.Apply(ctx, Request{ID: "b", Kind: effects.KindFreezePlayer, Params: []int32{1000}})
	if second.Result != contract.Possible || second.ExpiresAt != 1020 {
		t.Fatalf("unexpected second freeze %+v", second)
	}
	f.it.Advance(ctx, 300)
	if got := f.world.Player().FreezeTicks; got != 1000 {
		t.Fatalf("expected the second freeze untouched, got %d", got)
	}
	if active := f.it.Active(); len(active) != 1 || active[0].RequestID != "b" {
		t.Fatalf("expected only b active, got %+v", active)
	}
}

// stubbornToggle cannot be released while the game is paused.
type stubbornToggle struct{}

func (stubbornToggle) CanBeApplied(w game.World, _ contract.Params) contract.Result {
	if w.Modifiers().HideUI {
		return contract.NotPossible
	}
	return contract.Possible
}

func (stubbornToggle) OnApply(w game.World, _ contract.Params) { w.Modifiers().HideUI = true }

func (stubbornToggle) CanBeRemoved(w game.World, _ contract.Params) contract.Result {
	if w.Status().Paused {
		return contract.TemporarilyNotPossible
	}
	return contract.Possible
}

func (stubbornToggle) OnRemove(w game.World, _ contract.Params) { w.Modifiers().HideUI = false }

func stubbornRegistry() contract.Registry[game.World] {
	return contract.Registry[game.World]{{
		Kind: "stubborn_toggle",
		New:  func() contract.Effect[game.World] { return stubbornToggle{} },
	}}
}

func TestTemporarilyBlockedRemovalIsRetried(t *testing.T) {
	f := newFixture(t, stubbornRegistry())
	ctx := context.Background()

	outcome := f.it.Apply(ctx, Request{ID: "s", Kind: "stubborn_toggle", DurationTicks: 2})
	if outcome.Result != contract.Possible || outcome.ExpiresAt != 2 {
		t.Fatalf("unexpected apply outcome %+v", outcome)
	}
	f.world.UpdateStatus(func(s *game.Status) { s.Paused = true })

	if removed := f.it.Remove(ctx, "s", ""); removed.Result != contract.TemporarilyNotPossible || !removed.Active {
		t.Fatalf("expected retryable removal, got %+v", removed)
	}
	if expired := f.it.Advance(ctx, 2); len(expired) != 1 || expired[0].Result != contract.TemporarilyNotPossible {
		t.Fatalf("expected expiry to be deferred, got %+v", expired)
	}
	if f.it.RemoveAll(ctx) != 0 || len(f.it.Active()) != 1 {
		t.Fatal("expected reset to retain the blocked interaction")
	}

	f.world.UpdateStatus(func(s *game.Status) { s.Paused = false })
	expired := f.it.Advance(ctx, 3)
	if len(expired) != 1 || expired[0].Result != contract.Possible {
		t.Fatalf("expected expiry on retry, got %+v", expired)
	}
	if f.world.Modifiers().HideUI {
		t.Fatal("expected toggle to be released")
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	if _, err := New(nil, effects.Registry(), nil, Options{}); err == nil {
		t.Fatal("expected nil world to fail")
	}
	bad := contract.Registry[game.World]{{Kind: "Bad Kind"}}
	if _, err := New(game.NewMemory(game.DefaultSeed), bad, nil, Options{}); err == nil {
		t.Fatal("expected invalid registry to fail")
	}
	it, err := New(game.NewMemory(game.DefaultSeed), effects.Registry(), nil, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	outcome := it.Apply(context.Background(), Request{Entry: "freeze-player"})
	if !errors.Is(outcome.Err, ErrUnknownEntry) {
		t.Fatalf("expected entry lookups to fail without a catalog, got %+v", outcome)
	}
	if outcome.RequestID == "" {
		t.Fatal("expected a generated request id")
	}
}

package sim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"game-interactor/effects/catalog"
	"game-interactor/effects/contract"
	"game-interactor/internal/effects"
	"game-interactor/internal/game"
	"game-interactor/internal/interactor"
	"game-interactor/internal/telemetry"
	"game-interactor/logging"
	"game-interactor/logging/simulation"
)

type harness struct {
	world   *game.Memory
	host    *Host
	loop    *Loop
	metrics *logging.Metrics
	events  *eventRecorder
}

type eventRecorder struct {
	mu     sync.Mutex
	events []logging.Event
}

func (r *eventRecorder) Publish(_ context.Context, event logging.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) ofType(eventType logging.EventType) []logging.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []logging.Event
	for _, event := range r.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

func newHarness(t *testing.T, cfg LoopConfig, hooks LoopHooks) harness {
	t.Helper()
	resolver, err := catalog.Load(effects.Registry())
	if err != nil {
		t.Fatalf("catalog.Load failed: %v", err)
	}
	world := game.NewMemory(game.DefaultSeed)
	metrics := &logging.Metrics{}
	events := &eventRecorder{}
	deps := Deps{Metrics: telemetry.WrapMetrics(metrics), Publisher: events}
	it, err := interactor.New(world, effects.Registry(), resolver, interactor.Options{Metrics: deps.Metrics})
	if err != nil {
		t.Fatalf("interactor.New failed: %v", err)
	}
	host, err := NewHost(world, it, deps)
	if err != nil {
		t.Fatalf("NewHost failed: %v", err)
	}
	loop, err := NewEngine(host, WithLoopConfig(cfg), WithLoopHooks(hooks))
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return harness{world: world, host: host, loop: loop, metrics: metrics, events: events}
}

func advanceTo(loop *Loop, from, to uint64) {
	for tick := from; tick <= to; tick++ {
		loop.Advance(LoopTickContext{Tick: tick})
	}
}

func TestLoopAppliesCommandsAndExpiresTimedInteractions(t *testing.T) {
	h := newHarness(t, LoopConfig{CommandCapacity: 8}, LoopHooks{})
	replies := make(chan Reply, 1)
	ok, reason := h.loop.Enqueue(Command{
		ActorID: "viewer",
		Type:    CommandApply,
		Request: &interactor.Request{Entry: "pacifist-mode", DurationTicks: 5},
		Reply:   replies,
	})
	if !ok {
		t.Fatalf("enqueue failed: %s", reason)
	}

	result := h.loop.Advance(LoopTickContext{Tick: 1})
	if len(result.Commands) != 1 || result.ApplyErr != nil {
		t.Fatalf("unexpected step result %+v", result)
	}
	reply := <-replies
	if reply.Tick != 1 || reply.Outcome.Result != contract.Possible || reply.Outcome.ExpiresAt != 6 {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if !h.loop.Snapshot().Toggles.Pacifist || len(h.loop.Snapshot().Active) != 1 {
		t.Fatalf("expected published snapshot to show the interaction, got %+v", h.loop.Snapshot())
	}

	advanceTo(h.loop, 2, 5)
	if len(h.loop.Snapshot().Active) != 1 {
		t.Fatal("expected interaction to stay active before expiry")
	}
	advanceTo(h.loop, 6, 6)
	snapshot := h.loop.Snapshot()
	if snapshot.Toggles.Pacifist || len(snapshot.Active) != 0 || snapshot.Tick != 6 {
		t.Fatalf("expected expiry at tick 6, got %+v", snapshot)
	}
	if h.metrics.Snapshot()[telemetry.KeyTicks] != 6 {
		t.Fatalf("expected 6 counted ticks, got %v", h.metrics.Snapshot())
	}
}

func TestLoopPerActorLimit(t *testing.T) {
	var dropped []string
	h := newHarness(t, LoopConfig{CommandCapacity: 8, PerActorLimit: 1}, LoopHooks{
		OnCommandDrop: func(reason string, _ Command) { dropped = append(dropped, reason) },
	})

	if ok, _ := h.loop.Enqueue(Command{ActorID: "a", Type: CommandQuery}); !ok {
		t.Fatal("expected first command to be staged")
	}
	if ok, reason := h.loop.Enqueue(Command{ActorID: "a", Type: CommandQuery}); ok || reason != CommandRejectQueueLimit {
		t.Fatalf("expected per-actor limit, got %v %q", ok, reason)
	}
	if ok, _ := h.loop.Enqueue(Command{ActorID: "b", Type: CommandQuery}); !ok {
		t.Fatal("expected other actors to be unaffected")
	}
	if h.loop.Pending() != 2 {
		t.Fatalf("expected 2 pending commands, got %d", h.loop.Pending())
	}

	h.loop.DrainCommands()
	if ok, _ := h.loop.Enqueue(Command{ActorID: "a", Type: CommandQuery}); !ok {
		t.Fatal("expected limit to reset after drain")
	}
	if len(dropped) != 1 || dropped[0] != CommandRejectQueueLimit {
		t.Fatalf("unexpected drop hooks %v", dropped)
	}
	if h.metrics.Snapshot()[telemetry.KeyCommandsDropped] != 1 {
		t.Fatalf("expected drop counter, got %v", h.metrics.Snapshot())
	}
	drops := h.events.ofType(simulation.EventCommandDropped)
	if len(drops) != 1 || drops[0].Actor.ID != "a" {
		t.Fatalf("expected one drop event for actor a, got %+v", drops)
	}
	if payload, ok := drops[0].Payload.(simulation.CommandDroppedPayload); !ok || payload.Reason != CommandRejectQueueLimit || payload.Drops != 1 {
		t.Fatalf("unexpected drop payload %+v", drops[0].Payload)
	}
}

func TestLoopQueueFull(t *testing.T) {
	h := newHarness(t, LoopConfig{CommandCapacity: 1}, LoopHooks{})
	if ok, _ := h.loop.Enqueue(Command{Type: CommandQuery}); !ok {
		t.Fatal("expected first command to be staged")
	}
	if ok, reason := h.loop.Enqueue(Command{Type: CommandQuery}); ok || reason != CommandRejectQueueFull {
		t.Fatalf("expected queue_full, got %v %q", ok, reason)
	}
	_, err := h.loop.Submit(context.Background(), Command{Type: CommandQuery})
	if !errors.Is(err, ErrCommandDropped) {
		t.Fatalf("expected ErrCommandDropped, got %v", err)
	}
}

func TestHostRepliesToInvalidCommands(t *testing.T) {
	h := newHarness(t, LoopConfig{CommandCapacity: 4}, LoopHooks{})
	unknown := make(chan Reply, 1)
	empty := make(chan Reply, 1)
	err := h.loop.Apply([]Command{
		{Type: "Teleport", Reply: unknown},
		{Type: CommandApply, Reply: empty},
	})
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	if reply := <-unknown; reply.Outcome.Result != contract.NotPossible {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if reply := <-empty; reply.Outcome.Result != contract.NotPossible || reply.Outcome.Reason == "" {
		t.Fatalf("unexpected reply %+v", reply)
	}
}

func TestResetCommandClearsInteractions(t *testing.T) {
	h := newHarness(t, LoopConfig{CommandCapacity: 4}, LoopHooks{})
	replies := make(chan Reply, 3)
	h.loop.Enqueue(Command{Type: CommandApply, Request: &interactor.Request{Kind: effects.KindNoUI}, Reply: replies})
	h.loop.Enqueue(Command{Type: CommandApply, Request: &interactor.Request{Kind: effects.KindRandomBonks}, Reply: replies})
	h.loop.Advance(LoopTickContext{Tick: 1})
	<-replies
	<-replies

	h.loop.Enqueue(Command{Type: CommandReset, Reply: replies})
	h.loop.Advance(LoopTickContext{Tick: 2})
	if reply := <-replies; reply.Removed != 2 {
		t.Fatalf("expected 2 removals, got %+v", reply)
	}
	if toggles := h.loop.Snapshot().Toggles; toggles.HideUI || toggles.RandomBonks {
		t.Fatalf("expected toggles cleared, got %+v", toggles)
	}
}

func TestStepObserversRunAfterWorldStep(t *testing.T) {
	h := newHarness(t, LoopConfig{CommandCapacity: 4}, LoopHooks{})
	var seen []uint64
	h.host.OnStep(func() { seen = append(seen, h.world.Tick()) })
	h.host.OnStep(nil)

	advanceTo(h.loop, 1, 3)
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("expected observer after each step with the stepped world, got %v", seen)
	}
}

func TestSnapshotReportsResolvedStats(t *testing.T) {
	h := newHarness(t, LoopConfig{CommandCapacity: 4}, LoopHooks{})
	h.loop.Advance(LoopTickContext{Tick: 1})
	baseline := h.loop.Snapshot().Stats
	if baseline.Gravity != 1 || baseline.Scale != 1 || baseline.RunSpeed != 0 {
		t.Fatalf("unexpected baseline stats %+v", baseline)
	}

	replies := make(chan Reply, 1)
	h.loop.Enqueue(Command{Type: CommandApply, Request: &interactor.Request{
		Kind:   effects.KindModifyGravity,
		Params: []int32{int32(game.GravityHeavy)},
	}, Reply: replies})
	h.loop.Advance(LoopTickContext{Tick: 2})
	if reply := <-replies; reply.Outcome.Result != contract.Possible {
		t.Fatalf("apply failed: %+v", reply.Outcome)
	}
	want, _ := game.GravityHeavy.Factor()
	got := h.loop.Snapshot().Stats
	if got.Gravity != want || got.Version <= baseline.Version {
		t.Fatalf("expected gravity %v at a newer version than %d, got %+v", want, baseline.Version, got)
	}
}

func TestSubmitThroughRunningLoop(t *testing.T) {
	h := newHarness(t, LoopConfig{TickRate: 200, CommandCapacity: 8}, LoopHooks{})
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		h.loop.Run(stop)
		close(done)
	}()
	t.Cleanup(func() {
		close(stop)
		<-done
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	reply, err := h.loop.Submit(ctx, Command{
		ActorID: "viewer",
		Type:    CommandApply,
		Request: &interactor.Request{Kind: effects.KindModifyRupees, Params: []int32{10}},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if reply.Outcome.Result != contract.Possible || reply.Tick == 0 {
		t.Fatalf("unexpected reply %+v", reply)
	}
}

func TestSubmitHonoursContext(t *testing.T) {
	h := newHarness(t, LoopConfig{CommandCapacity: 4}, LoopHooks{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.loop.Submit(ctx, Command{Type: CommandQuery}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewEngineRequiresCore(t *testing.T) {
	if _, err := NewEngine(nil); !errors.Is(err, ErrMissingEngineCore) {
		t.Fatalf("expected ErrMissingEngineCore, got %v", err)
	}
	if _, err := NewHost(nil, nil, Deps{}); !errors.Is(err, ErrMissingWorld) {
		t.Fatalf("expected ErrMissingWorld, got %v", err)
	}
}

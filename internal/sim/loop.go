package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"game-interactor/internal/telemetry"
	"game-interactor/logging"
	"game-interactor/logging/simulation"
)

const (
	// CommandRejectQueueLimit indicates a command was dropped due to per-actor
	// queue throttling.
	CommandRejectQueueLimit = "queue_limit"
	// CommandRejectQueueFull indicates the global command buffer is saturated.
	CommandRejectQueueFull = "queue_full"
)

// ErrCommandDropped reports a command the loop refused to stage.
var ErrCommandDropped = errors.New("sim: command dropped")

// LoopConfig tunes the command buffer and tick loop orchestration.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
	CommandCapacity int
	PerActorLimit   int
	WarningStep     int
}

// LoopTickContext describes the tick being executed.
type LoopTickContext struct {
	Tick  uint64
	Now   time.Time
	Delta float64
}

// LoopStepResult summarises a completed tick.
type LoopStepResult struct {
	Tick         uint64
	Now          time.Time
	Delta        float64
	Snapshot     Snapshot
	Commands     []Command
	ApplyErr     error
	Duration     time.Duration
	Budget       time.Duration
	ClampedDelta bool
	MaxDelta     float64
}

// LoopHooks lets callers observe and sequence the loop.
type LoopHooks struct {
	NextTick       func() uint64
	Prepare        func(LoopTickContext)
	AfterStep      func(LoopStepResult)
	OnCommandDrop  func(reason string, cmd Command)
	OnQueueWarning func(length int)
}

// Loop coordinates command ingestion and the fixed-timestep simulation runner.
type Loop struct {
	core      EngineCore
	buffer    *CommandBuffer
	hooks     LoopHooks
	config    LoopConfig
	logger    telemetry.Logger
	metrics   telemetry.Metrics
	publisher logging.Publisher

	tick   atomic.Uint64
	latest atomic.Pointer[Snapshot]

	dropMu     sync.Mutex
	dropCounts map[string]uint64
}

// NewLoop wraps the provided engine core with a ring-buffer queue and loop.
func NewLoop(core EngineCore, cfg LoopConfig, hooks LoopHooks) *Loop {
	if core == nil {
		return nil
	}
	deps := core.Deps()
	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	loop := &Loop{
		core:       core,
		buffer:     NewCommandBuffer(cfg.CommandCapacity, cfg.PerActorLimit, deps.Metrics),
		hooks:      hooks,
		config:     cfg,
		logger:     telemetry.WithComponent(deps.Logger, "sim"),
		metrics:    deps.Metrics,
		publisher:  publisher,
		dropCounts: make(map[string]uint64),
	}
	initial := core.Snapshot()
	loop.latest.Store(&initial)
	return loop
}

// Deps returns the injected dependencies for the underlying engine.
func (l *Loop) Deps() Deps {
	if l == nil {
		return Deps{}
	}
	return l.core.Deps()
}

// Apply delegates to the underlying engine. Only call it from the loop
// goroutine or before Run starts.
func (l *Loop) Apply(cmds []Command) error {
	if l == nil {
		return nil
	}
	return l.core.Apply(cmds)
}

// Step delegates to the underlying engine. Only call it from the loop
// goroutine or before Run starts.
func (l *Loop) Step() {
	if l == nil {
		return
	}
	l.core.Step()
}

// Snapshot returns the state published after the most recent tick. It is
// safe to call from any goroutine.
func (l *Loop) Snapshot() Snapshot {
	if l == nil {
		return Snapshot{}
	}
	if snap := l.latest.Load(); snap != nil {
		return *snap
	}
	return Snapshot{}
}

// Tick reports the most recently executed tick.
func (l *Loop) Tick() uint64 {
	if l == nil {
		return 0
	}
	return l.tick.Load()
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	return l.buffer.Len()
}

// DrainCommands clears the staged command queue without advancing the engine.
func (l *Loop) DrainCommands() []Command {
	if l == nil {
		return nil
	}
	return l.drainCommands()
}

// Enqueue stages a command, enforcing per-actor throttling and capacity limits.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	if l == nil {
		return false, CommandRejectQueueFull
	}
	if reason := l.buffer.Push(cmd); reason != "" {
		l.reportDrop(reason, cmd, l.countDrop(cmd.ActorID))
		return false, reason
	}
	if step := l.config.WarningStep; step > 0 {
		if length := l.buffer.Len(); length >= step && length%step == 0 {
			l.warnQueue(length)
		}
	}
	return true, ""
}

// Submit stages cmd and waits for its reply.
func (l *Loop) Submit(ctx context.Context, cmd Command) (Reply, error) {
	replies := make(chan Reply, 1)
	cmd.Reply = replies
	if cmd.IssuedAt.IsZero() {
		cmd.IssuedAt = l.clock().Now()
	}
	cmd.OriginTick = l.Tick()
	if ok, reason := l.Enqueue(cmd); !ok {
		return Reply{}, fmt.Errorf("%w: %s", ErrCommandDropped, reason)
	}
	select {
	case reply := <-replies:
		return reply, nil
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}

// Advance executes a single simulation step using the staged commands.
func (l *Loop) Advance(ctx LoopTickContext) LoopStepResult {
	if l == nil {
		return LoopStepResult{}
	}
	commands := l.drainCommands()
	if l.hooks.Prepare != nil {
		l.hooks.Prepare(ctx)
	}
	applyErr := l.core.Apply(commands)
	if applyErr != nil && l.logger != nil {
		l.logger.Printf("tick=%d command errors: %v", ctx.Tick, applyErr)
	}
	l.core.Step()
	l.tick.Store(ctx.Tick)

	snapshot := l.core.Snapshot()
	snapshot.Pending = l.buffer.Len()
	l.latest.Store(&snapshot)
	if l.metrics != nil {
		l.metrics.Add(telemetry.KeyTicks, 1)
	}
	return LoopStepResult{
		Tick:     ctx.Tick,
		Now:      ctx.Now,
		Delta:    ctx.Delta,
		Snapshot: snapshot,
		Commands: commands,
		ApplyErr: applyErr,
	}
}

// Run drives the fixed-timestep loop until the stop channel closes.
func (l *Loop) Run(stop <-chan struct{}) {
	if l == nil {
		return
	}
	tickRate := l.config.TickRate
	if tickRate <= 0 {
		tickRate = 20
	}
	budgetDuration := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(budgetDuration)
	defer ticker.Stop()

	clock := l.clock()
	last := clock.Now()
	budgetSeconds := budgetDuration.Seconds()
	maxDt := budgetSeconds
	if l.config.CatchupMaxTicks > 1 {
		maxDt = budgetSeconds * float64(l.config.CatchupMaxTicks)
	}
	var streak uint64

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := clock.Now()
			dt := now.Sub(last).Seconds()
			clamped := false
			if dt <= 0 {
				dt = budgetSeconds
			} else if dt > maxDt {
				dt = maxDt
				clamped = true
			}
			last = now

			var tick uint64
			if l.hooks.NextTick != nil {
				tick = l.hooks.NextTick()
			} else {
				tick = l.tick.Load() + 1
			}

			start := clock.Now()
			result := l.Advance(LoopTickContext{Tick: tick, Now: now, Delta: dt})
			result.Duration = clock.Now().Sub(start)
			result.Budget = budgetDuration
			result.ClampedDelta = clamped
			result.MaxDelta = maxDt

			if result.Duration > budgetDuration {
				streak++
				l.reportOverrun(result, streak)
			} else {
				streak = 0
			}

			if l.hooks.AfterStep != nil {
				l.hooks.AfterStep(result)
			}
		}
	}
}

func (l *Loop) clock() logging.Clock {
	if clock := l.core.Deps().Clock; clock != nil {
		return clock
	}
	return logging.SystemClock{}
}

func (l *Loop) reportOverrun(result LoopStepResult, streak uint64) {
	if l.metrics != nil {
		l.metrics.Add(telemetry.KeyTickOverruns, 1)
	}
	ratio := 0.0
	if result.Budget > 0 {
		ratio = float64(result.Duration) / float64(result.Budget)
	}
	simulation.TickBudgetOverrun(context.Background(), l.publisher, result.Tick, simulation.TickBudgetOverrunPayload{
		DurationMillis: result.Duration.Milliseconds(),
		BudgetMillis:   result.Budget.Milliseconds(),
		Ratio:          ratio,
		Streak:         streak,
	}, nil)
}

func (l *Loop) drainCommands() []Command {
	return l.buffer.Drain()
}

func (l *Loop) countDrop(actorID string) uint64 {
	if actorID == "" {
		return 0
	}
	l.dropMu.Lock()
	defer l.dropMu.Unlock()
	l.dropCounts[actorID]++
	return l.dropCounts[actorID]
}

func (l *Loop) warnQueue(length int) {
	if l.hooks.OnQueueWarning != nil {
		l.hooks.OnQueueWarning(length)
	}
}

func (l *Loop) reportDrop(reason string, cmd Command, count uint64) {
	if l.metrics != nil {
		l.metrics.Add(telemetry.KeyCommandsDropped, 1)
	}
	if l.hooks.OnCommandDrop != nil {
		l.hooks.OnCommandDrop(reason, cmd)
	}
	if count > 0 && count&(count-1) == 0 {
		simulation.CommandDropped(context.Background(), l.publisher, l.Tick(), cmd.ActorID, simulation.CommandDroppedPayload{
			Command:   string(cmd.Type),
			Reason:    reason,
			RequestID: commandRequestID(cmd),
			Drops:     count,
		}, nil)
	}
	if reason == CommandRejectQueueLimit && count > 0 && count&(count-1) == 0 {
		if l.logger != nil {
			l.logger.Printf(
				"backpressure: dropping command actor=%s type=%s count=%d limit=%d",
				cmd.ActorID,
				cmd.Type,
				count,
				l.config.PerActorLimit,
			)
		}
	}
}

func commandRequestID(cmd Command) string {
	if cmd.RequestID != "" {
		return cmd.RequestID
	}
	if cmd.Request != nil {
		return cmd.Request.ID
	}
	return ""
}

// Ensure Loop implements Engine.
var _ Engine = (*Loop)(nil)

// Ensure Host implements EngineCore.
var _ EngineCore = (*Host)(nil)

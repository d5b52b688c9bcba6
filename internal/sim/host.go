package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"game-interactor/effects/contract"
	"game-interactor/internal/game"
	"game-interactor/internal/interactor"
)

// ErrUnknownCommand reports a command type the host does not handle.
var ErrUnknownCommand = errors.New("sim: unknown command type")

// SteppedWorld is a game world the host advances once per tick.
type SteppedWorld interface {
	game.World
	Step()
}

// Host is the engine core binding a world to its interactor. It must only be
// used from the loop goroutine.
type Host struct {
	world      SteppedWorld
	interactor *interactor.Interactor
	deps       Deps
	tick       uint64
	observers  []func()
}

// NewHost constructs the engine core.
func NewHost(world SteppedWorld, it *interactor.Interactor, deps Deps) (*Host, error) {
	if world == nil {
		return nil, ErrMissingWorld
	}
	if it == nil {
		return nil, errors.New("sim: interactor is nil")
	}
	return &Host{world: world, interactor: it, deps: deps}, nil
}

func (h *Host) Deps() Deps {
	return h.deps
}

// PrepareStep records the tick and reverts timed interactions that are due
// before new commands run.
func (h *Host) PrepareStep(tick uint64, _ time.Time) {
	h.tick = tick
	h.interactor.Advance(context.Background(), tick)
}

// Apply runs commands in FIFO order, replying to each.
func (h *Host) Apply(cmds []Command) error {
	ctx := context.Background()
	var errs []error
	for _, cmd := range cmds {
		reply := Reply{Tick: h.tick}
		switch cmd.Type {
		case CommandApply, CommandQuery:
			if cmd.Request == nil {
				reply.Outcome = invalidOutcome(cmd, errors.New("sim: command carries no request"))
				break
			}
			req := *cmd.Request
			req.Actor = cmd.ActorID
			if cmd.Type == CommandApply {
				reply.Outcome = h.interactor.Apply(ctx, req)
			} else {
				reply.Outcome = h.interactor.Query(ctx, req)
			}
		case CommandRemove:
			reply.Outcome = h.interactor.Remove(ctx, cmd.RequestID, cmd.ActorID)
		case CommandReset:
			reply.Removed = h.interactor.RemoveAll(ctx)
			reply.Outcome = interactor.Outcome{Result: contract.Possible}
		default:
			err := fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
			errs = append(errs, err)
			reply.Outcome = invalidOutcome(cmd, err)
		}
		cmd.reply(reply)
	}
	return errors.Join(errs...)
}

func invalidOutcome(cmd Command, err error) interactor.Outcome {
	return interactor.Outcome{
		RequestID: cmd.RequestID,
		Result:    contract.NotPossible,
		Reason:    err.Error(),
		Err:       err,
	}
}

// OnStep registers fn to run on the loop goroutine after every world step.
// Register observers before the loop starts.
func (h *Host) OnStep(fn func()) {
	if fn != nil {
		h.observers = append(h.observers, fn)
	}
}

// Step advances the world by one tick.
func (h *Host) Step() {
	h.world.Step()
	for _, fn := range h.observers {
		fn()
	}
}

// Snapshot copies the state exposed to remote callers.
func (h *Host) Snapshot() Snapshot {
	return Snapshot{
		Tick:    h.tick,
		Status:  h.world.Status(),
		Save:    summarizeSave(h.world.Save()),
		Player:  *h.world.Player(),
		Toggles: h.world.Modifiers().Toggles,
		Stats:   summarizeStats(&h.world.Modifiers().Stats),
		Active:  h.interactor.Active(),
	}
}

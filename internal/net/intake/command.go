package intake

import (
	"time"

	"game-interactor/internal/net/proto"
	"game-interactor/internal/sim"
)

// CommandRejectInvalid indicates a message that carries no valid command.
const CommandRejectInvalid = "invalid_command"

// Enqueuer stages commands for the simulation loop.
type Enqueuer interface {
	Enqueue(sim.Command) (bool, string)
}

type CommandContext struct {
	Engine Enqueuer
	Tick   func() uint64
	Now    func() time.Time
}

// StageClientCommand validates msg and stages it for clientID. The loop
// delivers the outcome on replies, which must have room for one value.
func StageClientCommand(ctx CommandContext, clientID string, msg proto.ClientMessage, replies chan<- sim.Reply) (sim.Command, bool, string) {
	var zero sim.Command

	command, ok := proto.ClientCommand(msg)
	if !ok {
		return zero, false, CommandRejectInvalid
	}

	command.ActorID = clientID
	command.Reply = replies
	if ctx.Tick != nil {
		command.OriginTick = ctx.Tick()
	}
	if ctx.Now != nil {
		command.IssuedAt = ctx.Now()
	} else {
		command.IssuedAt = time.Now()
	}

	if ctx.Engine == nil {
		return zero, false, sim.CommandRejectQueueFull
	}
	if ok, reason := ctx.Engine.Enqueue(command); !ok {
		return zero, false, reason
	}

	return command, true, ""
}

// Retryable reports whether a staging rejection may clear on its own.
func Retryable(reason string) bool {
	return reason == sim.CommandRejectQueueLimit || reason == sim.CommandRejectQueueFull
}

package sim

import (
	"time"

	"game-interactor/internal/interactor"
)

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandApply  CommandType = "Apply"
	CommandQuery  CommandType = "Query"
	CommandRemove CommandType = "Remove"
	CommandReset  CommandType = "Reset"
)

// Reply carries the result of a command back to its producer.
type Reply struct {
	Tick    uint64             `json:"tick"`
	Outcome interactor.Outcome `json:"outcome"`
	// Removed counts the interactions cleared by a reset.
	Removed int `json:"removed,omitempty"`
}

// Command represents an intent captured for processing on the next tick.
type Command struct {
	OriginTick uint64              `json:"originTick"`
	ActorID    string              `json:"actorId"`
	Type       CommandType         `json:"type"`
	IssuedAt   time.Time           `json:"issuedAt"`
	Request    *interactor.Request `json:"request,omitempty"`
	RequestID  string              `json:"requestId,omitempty"`
	// Reply receives exactly one value once the command ran. Producers must
	// give it room for that value; the loop never blocks on it.
	Reply chan<- Reply `json:"-"`
}

func (c Command) reply(r Reply) {
	if c.Reply == nil {
		return
	}
	select {
	case c.Reply <- r:
	default:
	}
}

package simulation

import (
	"context"

	"game-interactor/logging"
)

const (
	// EventTickBudgetOverrun is emitted when a tick runs longer than its budget.
	EventTickBudgetOverrun logging.EventType = "simulation.tick_budget_overrun"
	// EventCommandDropped is emitted when the loop refuses to stage a command.
	EventCommandDropped logging.EventType = "simulation.command_dropped"
)

// TickBudgetOverrunPayload captures timing details for a tick budget breach.
type TickBudgetOverrunPayload struct {
	DurationMillis int64   `json:"durationMillis"`
	BudgetMillis   int64   `json:"budgetMillis"`
	Ratio          float64 `json:"ratio"`
	Streak         uint64  `json:"streak"`
}

// CommandDroppedPayload describes a command refused by the queue.
type CommandDroppedPayload struct {
	Command   string `json:"command"`
	Reason    string `json:"reason"`
	RequestID string `json:"requestId,omitempty"`
	// Drops is the running total of refused commands for the actor.
	Drops uint64 `json:"drops"`
}

// TickBudgetOverrun publishes a warning when the simulation exceeds the configured tick budget.
func TickBudgetOverrun(ctx context.Context, pub logging.Publisher, tick uint64, payload TickBudgetOverrunPayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventTickBudgetOverrun,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: "loop", Kind: logging.EntityKindWorld},
		Severity: logging.SeverityWarn,
		Payload:  payload,
		Extra:    extra,
	})
}

// CommandDropped publishes a backpressure rejection for actor.
func CommandDropped(ctx context.Context, pub logging.Publisher, tick uint64, actor string, payload CommandDroppedPayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventCommandDropped,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: actor, Kind: logging.EntityKindClient},
		Severity: logging.SeverityWarn,
		Payload:  payload,
		Extra:    extra,
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	event.Category = logging.CategorySimulation
	pub.Publish(ctx, event)
}

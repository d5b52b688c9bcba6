package interactions

import (
	"context"

	"game-interactor/effects/contract"
	"game-interactor/logging"
)

const (
	// EventQueried is emitted when a caller asks whether an interaction could run.
	EventQueried logging.EventType = "interactions.queried"
	// EventApplied is emitted when an interaction changes the game.
	EventApplied logging.EventType = "interactions.applied"
	// EventRejected is emitted when the game refuses an interaction.
	EventRejected logging.EventType = "interactions.rejected"
	// EventRemoved is emitted when an active interaction is reverted.
	EventRemoved logging.EventType = "interactions.removed"
	// EventRemoveRejected is emitted when reverting an interaction is refused.
	EventRemoveRejected logging.EventType = "interactions.remove_rejected"
	// EventExpired is emitted when a timed interaction reaches its expiry tick.
	EventExpired logging.EventType = "interactions.expired"
)

// Payload describes one interaction request and its outcome.
type Payload struct {
	RequestID     string          `json:"requestId"`
	Kind          contract.Kind   `json:"kind"`
	EntryID       string          `json:"entryId,omitempty"`
	Params        contract.Params `json:"params"`
	Result        contract.Result `json:"result"`
	DurationTicks int             `json:"durationTicks,omitempty"`
}

// Target returns the entity reference for the interaction instance.
func (p Payload) Target() logging.EntityRef {
	return logging.EntityRef{ID: p.RequestID, Kind: logging.EntityKindInteraction}
}

// Queried publishes a debug event for a feasibility query.
func Queried(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload Payload, extra map[string]any) {
	publish(ctx, pub, EventQueried, logging.SeverityDebug, tick, actor, payload, extra)
}

// Applied publishes an event for a successful apply.
func Applied(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload Payload, extra map[string]any) {
	publish(ctx, pub, EventApplied, logging.SeverityInfo, tick, actor, payload, extra)
}

// Rejected publishes an event for a refused apply. Permanent refusals are
// reported as warnings.
func Rejected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload Payload, extra map[string]any) {
	severity := logging.SeverityInfo
	if payload.Result == contract.NotPossible {
		severity = logging.SeverityWarn
	}
	publish(ctx, pub, EventRejected, severity, tick, actor, payload, extra)
}

// Removed publishes an event for a successful removal.
func Removed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload Payload, extra map[string]any) {
	publish(ctx, pub, EventRemoved, logging.SeverityInfo, tick, actor, payload, extra)
}

// RemoveRejected publishes a warning when a removal is refused.
func RemoveRejected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload Payload, extra map[string]any) {
	publish(ctx, pub, EventRemoveRejected, logging.SeverityWarn, tick, actor, payload, extra)
}

// Expired publishes an event when a timed interaction is reverted by the
// host clock.
func Expired(ctx context.Context, pub logging.Publisher, tick uint64, payload Payload, extra map[string]any) {
	actor := logging.EntityRef{ID: "host", Kind: logging.EntityKindWorld}
	publish(ctx, pub, EventExpired, logging.SeverityInfo, tick, actor, payload, extra)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, severity logging.Severity, tick uint64, actor logging.EntityRef, payload Payload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:      eventType,
		Tick:      tick,
		Actor:     actor,
		Targets:   []logging.EntityRef{payload.Target()},
		Severity:  severity,
		Category:  logging.CategoryInteractions,
		Payload:   payload,
		Extra:     extra,
		CommandID: payload.RequestID,
	}
	pub.Publish(ctx, event)
}

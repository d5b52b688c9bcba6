package randomizer

import (
	"context"

	"game-interactor/logging"
)

const (
	// EventPondAdvanced is emitted when the fishing pond hands out its next check.
	EventPondAdvanced logging.EventType = "randomizer.pond_advanced"
	// EventFishHeld is emitted when the player lands a fish that maps to a check.
	EventFishHeld logging.EventType = "randomizer.fish_held"
)

// PondPayload describes the pond fish currently on offer.
type PondPayload struct {
	Check  string `json:"check"`
	Params int16  `json:"params"`
	Adult  bool   `json:"adult"`
}

// PondAdvanced publishes the check the pond now offers.
func PondAdvanced(ctx context.Context, pub logging.Publisher, tick uint64, payload PondPayload, extra map[string]any) {
	publish(ctx, pub, EventPondAdvanced, logging.SeverityDebug, tick, payload, extra)
}

// FishHeld publishes the check carried by the fish the player is holding.
func FishHeld(ctx context.Context, pub logging.Publisher, tick uint64, payload PondPayload, extra map[string]any) {
	publish(ctx, pub, EventFishHeld, logging.SeverityInfo, tick, payload, extra)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, severity logging.Severity, tick uint64, payload PondPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: "fishing-pond", Kind: logging.EntityKindWorld},
		Severity: severity,
		Category: logging.CategoryRandomizer,
		Payload:  payload,
		Extra:    extra,
	})
}

package network

import (
	"context"

	"game-interactor/logging"
)

const (
	// EventCommandRejected is emitted when a client message cannot be staged.
	EventCommandRejected logging.EventType = "network.command_rejected"
	// EventMalformedMessage is emitted when a client sends an undecodable frame.
	EventMalformedMessage logging.EventType = "network.malformed_message"
)

// CommandRejectedPayload captures why a client command was dropped.
type CommandRejectedPayload struct {
	RequestID string `json:"requestId,omitempty"`
	Reason    string `json:"reason"`
	Retry     bool   `json:"retry"`
}

// MalformedMessagePayload captures the decoding failure.
type MalformedMessagePayload struct {
	Error string `json:"error"`
	Bytes int    `json:"bytes"`
}

// CommandRejected publishes a warning when a client command is refused before
// reaching the game.
func CommandRejected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CommandRejectedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:      EventCommandRejected,
		Tick:      tick,
		Actor:     actor,
		Severity:  logging.SeverityWarn,
		Category:  logging.CategoryNetwork,
		Payload:   payload,
		Extra:     extra,
		CommandID: payload.RequestID,
	}
	pub.Publish(ctx, event)
}

// MalformedMessage publishes a debug event for an undecodable client frame.
func MalformedMessage(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload MalformedMessagePayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventMalformedMessage,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryNetwork,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

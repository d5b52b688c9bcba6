package lifecycle

import (
	"context"

	"game-interactor/logging"
)

const (
	// EventClientConnected is emitted when a remote trigger client attaches.
	EventClientConnected logging.EventType = "lifecycle.client_connected"
	// EventClientDisconnected is emitted when a remote trigger client leaves.
	EventClientDisconnected logging.EventType = "lifecycle.client_disconnected"
	// EventHostReset is emitted when every active interaction is cleared.
	EventHostReset logging.EventType = "lifecycle.host_reset"
)

// ClientConnectedPayload captures connection metadata for a client.
type ClientConnectedPayload struct {
	RemoteAddr string `json:"remoteAddr"`
}

// ClientDisconnectedPayload captures the reason a client left.
type ClientDisconnectedPayload struct {
	Reason string `json:"reason"`
}

// HostResetPayload records how many interactions were cleared.
type HostResetPayload struct {
	Removed  int `json:"removed"`
	Retained int `json:"retained"`
}

// ClientConnected publishes a client connect event.
func ClientConnected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ClientConnectedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventClientConnected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// ClientDisconnected publishes a client disconnect event.
func ClientDisconnected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ClientDisconnectedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventClientDisconnected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// HostReset publishes an event after the interactor clears its active set.
func HostReset(ctx context.Context, pub logging.Publisher, tick uint64, payload HostResetPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventHostReset,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: "host", Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

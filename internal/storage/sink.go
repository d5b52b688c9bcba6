package storage

import (
	"context"
	"fmt"
	"time"

	"game-interactor/internal/telemetry"
	"game-interactor/logging"
	"game-interactor/logging/interactions"
)

const defaultWriteTimeout = 2 * time.Second

// Sink is a logging sink that appends interaction events to a ledger.
// Events from other categories are ignored.
type Sink struct {
	ledger  Ledger
	metrics telemetry.Metrics
	timeout time.Duration
}

// NewSink wraps ledger as a logging sink.
func NewSink(ledger Ledger, metrics telemetry.Metrics) *Sink {
	return &Sink{ledger: ledger, metrics: metrics, timeout: defaultWriteTimeout}
}

// Write implements logging.Sink.
func (s *Sink) Write(event logging.Event) error {
	if s == nil || s.ledger == nil {
		return nil
	}
	record, ok := RecordFromEvent(event)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.ledger.Append(ctx, record); err != nil {
		return fmt.Errorf("ledger append %s: %w", record.RequestID, err)
	}
	if s.metrics != nil {
		s.metrics.Add(telemetry.KeyLedgerWrites, 1)
	}
	return nil
}

// Close implements logging.Sink. The ledger itself is owned by the caller.
func (s *Sink) Close(context.Context) error {
	return nil
}

// RecordFromEvent converts an interaction event into a ledger record.
func RecordFromEvent(event logging.Event) (Record, bool) {
	if event.Category != logging.CategoryInteractions {
		return Record{}, false
	}
	var payload interactions.Payload
	switch p := event.Payload.(type) {
	case interactions.Payload:
		payload = p
	case *interactions.Payload:
		if p == nil {
			return Record{}, false
		}
		payload = *p
	default:
		return Record{}, false
	}
	record := Record{
		Time:      event.Time,
		Tick:      event.Tick,
		Type:      string(event.Type),
		RequestID: payload.RequestID,
		Kind:      payload.Kind,
		EntryID:   payload.EntryID,
		Actor:     event.Actor.ID,
		Result:    payload.Result,
		Params:    payload.Params,
	}
	if reason, ok := event.Extra["reason"].(string); ok {
		record.Reason = reason
	}
	return record, true
}

var _ logging.Sink = (*Sink)(nil)

package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"game-interactor/effects/contract"
	"game-interactor/logging"
	"game-interactor/logging/interactions"
)

func sampleEvent() logging.Event {
	return logging.Event{
		Type:     "interactions.applied",
		Tick:     42,
		Time:     time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		Actor:    logging.EntityRef{ID: "client-1", Kind: logging.EntityKindClient},
		Targets:  []logging.EntityRef{{ID: "req-1", Kind: logging.EntityKindInteraction}},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryInteractions,
		Payload:  map[string]int{"delta": 5},
	}
}

func TestConsoleSinkFormatsEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, logging.ConsoleConfig{})
	if err := sink.Write(sampleEvent()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	line := buf.String()
	for _, want := range []string{"[interactions.applied]", "tick=42", "actor=client:client-1", "severity=warn", "targets=interaction:req-1", `payload={"delta":5}`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestConsoleSinkColorsSeverity(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, logging.ConsoleConfig{UseColor: true})
	if err := sink.Write(sampleEvent()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), colorYellow+"warn"+colorReset) {
		t.Fatalf("expected colored severity in %q", buf.String())
	}
}

type closingBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closingBuffer) Close() error {
	b.closed = true
	return nil
}

func TestJSONSinkWritesNDJSON(t *testing.T) {
	buf := &closingBuffer{}
	sink := NewJSON(buf, logging.JSONConfig{FlushInterval: time.Hour, MaxBatch: 100})
	if err := sink.Write(sampleEvent()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatal("expected buffered output before close")
	}
	if err := sink.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !buf.closed {
		t.Fatal("expected underlying writer to be closed")
	}

	var decoded map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["type"] != "interactions.applied" || decoded["severity"] != "warn" {
		t.Fatalf("unexpected record %v", decoded)
	}
	if decoded["time"] != "2024-05-06T07:08:09Z" {
		t.Fatalf("unexpected time %v", decoded["time"])
	}
}

func TestJSONSinkFlushesOnBatch(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSON(&buf, logging.JSONConfig{FlushInterval: time.Hour, MaxBatch: 2})
	t.Cleanup(func() { sink.Close(context.Background()) })

	sink.Write(sampleEvent())
	if buf.Len() != 0 {
		t.Fatal("expected first write to stay buffered")
	}
	sink.Write(sampleEvent())
	if lines := strings.Count(buf.String(), "\n"); lines != 2 {
		t.Fatalf("expected two flushed lines, got %d", lines)
	}
}

func TestMemorySinkFiltersAndClones(t *testing.T) {
	sink := NewMemorySink()
	event := sampleEvent()
	event.Extra = map[string]any{"k": "v"}
	sink.Write(event)
	sink.Write(logging.Event{Type: "other"})

	matched := sink.EventsOfType("interactions.applied")
	if len(matched) != 1 {
		t.Fatalf("expected one matching event, got %d", len(matched))
	}
	event.Extra["k"] = "changed"
	if matched[0].Extra["k"] != "v" {
		t.Fatal("expected memory sink to store a copy")
	}
	if len(sink.Events()) != 2 {
		t.Fatalf("expected two events, got %d", len(sink.Events()))
	}
	sink.Reset()
	if len(sink.Events()) != 0 {
		t.Fatal("expected Reset to clear events")
	}
}

func TestConsoleSinkFormatsInteractionPayload(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, logging.ConsoleConfig{})
	event := sampleEvent()
	event.Type = interactions.EventRejected
	event.Payload = interactions.Payload{
		RequestID: "req-9",
		Kind:      "freeze_player",
		EntryID:   "freeze-player",
		Params:    contract.Params{300, 0, 0},
		Result:    contract.TemporarilyNotPossible,
	}
	event.Extra = map[string]any{"reason": "player paused"}
	if err := sink.Write(event); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	line := buf.String()
	for _, want := range []string{"kind=freeze_player", "params=[300,0,0]", "result=temporarily_not_possible", "entry=freeze-player", `reason="player paused"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "payload=") {
		t.Fatalf("interaction payloads should not be printed as JSON: %q", line)
	}
}

func TestMemorySinkWaitFor(t *testing.T) {
	sink := NewMemorySink()
	go func() {
		sink.Write(logging.Event{Type: "other"})
		sink.Write(logging.Event{Type: interactions.EventApplied, CommandID: "req-1"})
	}()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	event, err := sink.WaitFor(ctx, interactions.EventApplied)
	if err != nil {
		t.Fatalf("WaitFor failed: %v", err)
	}
	if event.CommandID != "req-1" || len(sink.ForRequest("req-1")) != 1 {
		t.Fatalf("unexpected event %+v", event)
	}

	expired, cancelExpired := context.WithCancel(context.Background())
	cancelExpired()
	if _, err := sink.WaitFor(expired, interactions.EventExpired); err == nil {
		t.Fatalf("expected context error")
	}
}

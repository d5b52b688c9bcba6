package telemetry

import (
	"bytes"
	"log"
	"testing"

	"game-interactor/logging"
)

func TestWrapLogger(t *testing.T) {
	t.Run("nil logger", func(t *testing.T) {
		WrapLogger(nil).Printf("ignored %d", 42)
	})

	t.Run("component prefix", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithComponent(WrapLogger(log.New(&buf, "", 0)), "sim")
		logger.Printf("tick=%d", 7)
		if got := buf.String(); got != "[sim] tick=7\n" {
			t.Fatalf("unexpected log output: %q", got)
		}
	})

	t.Run("nil component logger", func(t *testing.T) {
		if WithComponent(nil, "sim") != nil {
			t.Fatalf("expected nil logger to stay nil")
		}
	})
}

func TestCountKind(t *testing.T) {
	metrics := logging.Metrics{}
	adapter := WrapMetrics(&metrics)

	CountKind(adapter, KeyInteractionsApplied, "freeze_player")
	CountKind(adapter, KeyInteractionsApplied, "freeze_player")
	CountKind(adapter, KeyInteractionsApplied, "")
	adapter.Store(KeyInteractionsActive, 4)

	snapshot := metrics.Snapshot()
	if got := snapshot[KeyInteractionsApplied]; got != 3 {
		t.Fatalf("applied total = %d, want 3", got)
	}
	if got := snapshot[KindKey(KeyInteractionsApplied, "freeze_player")]; got != 2 {
		t.Fatalf("per-kind total = %d, want 2", got)
	}
	if got := snapshot[KeyInteractionsActive]; got != 4 {
		t.Fatalf("active gauge = %d, want 4", got)
	}

	CountKind(nil, KeyInteractionsApplied, "freeze_player")
	WrapMetrics(nil).Add("ignored", 1)
}

func TestKindKey(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{kind: "freeze_player", want: KeyInteractionsApplied + ".freeze_player"},
		{kind: "  ", want: KeyInteractionsApplied},
	}
	for _, tt := range tests {
		if got := KindKey(KeyInteractionsApplied, tt.kind); got != tt.want {
			t.Fatalf("KindKey(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

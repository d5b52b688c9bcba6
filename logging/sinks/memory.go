package sinks

import (
	"context"
	"sync"

	"game-interactor/logging"
)

// MemorySink keeps every event in memory. Tests use WaitFor to synchronise
// with the asynchronous router.
type MemorySink struct {
	mu      sync.Mutex
	events  []logging.Event
	written chan struct{}
}

func NewMemorySink() *MemorySink {
	return &MemorySink{written: make(chan struct{})}
}

func (s *MemorySink) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, cloneForMemory(event))
	close(s.written)
	s.written = make(chan struct{})
	return nil
}

func (s *MemorySink) Events() []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]logging.Event(nil), s.events...)
}

// EventsOfType returns the recorded events matching eventType in arrival order.
func (s *MemorySink) EventsOfType(eventType logging.EventType) []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matching(func(event logging.Event) bool { return event.Type == eventType })
}

// ForRequest returns the events whose command id is requestID.
func (s *MemorySink) ForRequest(requestID string) []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matching(func(event logging.Event) bool { return event.CommandID == requestID })
}

// WaitFor blocks until an event of eventType has been written or ctx ends.
func (s *MemorySink) WaitFor(ctx context.Context, eventType logging.EventType) (logging.Event, error) {
	for {
		s.mu.Lock()
		found := s.matching(func(event logging.Event) bool { return event.Type == eventType })
		written := s.written
		s.mu.Unlock()
		if len(found) > 0 {
			return found[0], nil
		}
		select {
		case <-written:
		case <-ctx.Done():
			return logging.Event{}, ctx.Err()
		}
	}
}

func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

func (s *MemorySink) Close(context.Context) error {
	return nil
}

func (s *MemorySink) matching(keep func(logging.Event) bool) []logging.Event {
	var out []logging.Event
	for _, event := range s.events {
		if keep(event) {
			out = append(out, event)
		}
	}
	return out
}

func cloneForMemory(event logging.Event) logging.Event {
	cloned := event
	if len(event.Targets) > 0 {
		cloned.Targets = append([]logging.EntityRef(nil), event.Targets...)
	}
	if event.Extra != nil {
		copied := make(map[string]any, len(event.Extra))
		for k, v := range event.Extra {
			copied[k] = v
		}
		cloned.Extra = copied
	}
	return cloned
}

package sim

import (
	"sync"

	"game-interactor/internal/telemetry"
)

// CommandBuffer is the ring of commands waiting for the next tick. It also
// counts the commands each client has pending so one remote caller cannot
// fill the ring. Producers may push concurrently; one goroutine drains.
type CommandBuffer struct {
	mu       sync.Mutex
	ring     []Command
	head     int
	size     int
	perActor map[string]int
	limit    int
	metrics  telemetry.Metrics
}

// NewCommandBuffer sizes the ring to capacity and caps each actor at limit
// pending commands. A limit of zero disables the cap.
func NewCommandBuffer(capacity, limit int, metrics telemetry.Metrics) *CommandBuffer {
	if capacity < 1 {
		capacity = 1
	}
	if limit < 0 {
		limit = 0
	}
	return &CommandBuffer{
		ring:     make([]Command, capacity),
		perActor: make(map[string]int),
		limit:    limit,
		metrics:  metrics,
	}
}

// Capacity reports the ring size.
func (b *CommandBuffer) Capacity() int {
	if b == nil {
		return 0
	}
	return len(b.ring)
}

// Push stages cmd and returns the empty string, or the reject reason when
// the actor is over its limit or the ring is full. Resets skip the actor
// limit.
func (b *CommandBuffer) Push(cmd Command) string {
	if b == nil {
		return CommandRejectQueueFull
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	counted := b.limit > 0 && cmd.ActorID != "" && cmd.Type != CommandReset
	if counted && b.perActor[cmd.ActorID] >= b.limit {
		return CommandRejectQueueLimit
	}
	if b.size == len(b.ring) {
		b.add(telemetry.KeyCommandBufferOverflow, 1)
		return CommandRejectQueueFull
	}
	b.ring[(b.head+b.size)%len(b.ring)] = cmd
	b.size++
	if counted {
		b.perActor[cmd.ActorID]++
	}
	b.store(telemetry.KeyCommandBufferOccupancy, uint64(b.size))
	return ""
}

// Drain empties the ring in arrival order and resets the per-actor counts.
func (b *CommandBuffer) Drain() []Command {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.size == 0 {
		return nil
	}
	out := make([]Command, 0, b.size)
	for i := 0; i < b.size; i++ {
		slot := (b.head + i) % len(b.ring)
		out = append(out, b.ring[slot])
		b.ring[slot] = Command{}
	}
	b.head = (b.head + b.size) % len(b.ring)
	b.size = 0
	clear(b.perActor)
	b.store(telemetry.KeyCommandBufferOccupancy, 0)
	return out
}

// Len reports the staged command count.
func (b *CommandBuffer) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// PendingFor reports how many commands actorID has staged against its limit.
func (b *CommandBuffer) PendingFor(actorID string) int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.perActor[actorID]
}

func (b *CommandBuffer) add(key string, delta uint64) {
	if b.metrics != nil {
		b.metrics.Add(key, delta)
	}
}

func (b *CommandBuffer) store(key string, value uint64) {
	if b.metrics != nil {
		b.metrics.Store(key, value)
	}
}

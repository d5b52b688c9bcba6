// Package interactor dispatches interaction requests against a game world.
//
// An Interactor is owned by a single goroutine (the simulation loop). It
// resolves requests through the effect registry and the optional catalog,
// tracks applied removable interactions, and reverts timed ones as the host
// clock advances.
package interactor

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"game-interactor/effects/catalog"
	"game-interactor/effects/contract"
	"game-interactor/internal/game"
	"game-interactor/internal/telemetry"
	"game-interactor/logging"
	"game-interactor/logging/interactions"
	"game-interactor/logging/lifecycle"
)

// Options carries the ambient dependencies of an Interactor.
type Options struct {
	Publisher logging.Publisher
	Metrics   telemetry.Metrics
	// NewID generates request ids for requests that omit one.
	NewID func() string
}

const resetReason = "host reset"

type tracked struct {
	seq       uint64
	id        string
	entry     string
	actor     string
	instance  *contract.Instance[game.World]
	appliedAt uint64
	expiresAt uint64
}

// Interactor runs interactions against a world.
type Interactor struct {
	world     game.World
	index     map[contract.Kind]contract.Definition[game.World]
	catalog   *catalog.Resolver
	publisher logging.Publisher
	metrics   telemetry.Metrics
	newID     func() string

	tick   uint64
	seq    uint64
	active map[string]*tracked
}

// New validates reg and binds it to world. The catalog may be nil, in which
// case only kind requests are accepted.
func New(world game.World, reg contract.Registry[game.World], resolver *catalog.Resolver, opts Options) (*Interactor, error) {
	if world == nil {
		return nil, errors.New("interactor: world is nil")
	}
	index, err := reg.Index()
	if err != nil {
		return nil, fmt.Errorf("interactor: %w", err)
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}
	return &Interactor{
		world:     world,
		index:     index,
		catalog:   resolver,
		publisher: publisher,
		metrics:   opts.Metrics,
		newID:     newID,
		active:    make(map[string]*tracked),
	}, nil
}

// Tick returns the last tick passed to Advance.
func (i *Interactor) Tick() uint64 {
	return i.tick
}

type resolved struct {
	def      contract.Definition[game.World]
	entry    string
	params   contract.Params
	duration int
}

func (i *Interactor) resolve(req Request) (resolved, error) {
	var out resolved
	kind := req.Kind
	if req.Entry != "" {
		entry, ok := i.catalog.Resolve(req.Entry)
		if !ok {
			return out, fmt.Errorf("%w: %q", ErrUnknownEntry, req.Entry)
		}
		if entry.Definition.Disabled {
			return out, fmt.Errorf("%w: %q", ErrEntryDisabled, req.Entry)
		}
		if kind != "" && kind != entry.Kind {
			return out, fmt.Errorf("%w: %q is %q", ErrKindMismatch, req.Entry, entry.Kind)
		}
		params, err := entry.Params(req.Params)
		if err != nil {
			return out, err
		}
		kind = entry.Kind
		out.entry = entry.ID
		out.params = params
		out.duration = entry.Definition.DurationTicks
	} else {
		if kind == "" {
			return out, ErrMissingTarget
		}
		if len(req.Params) > contract.ParamCount {
			return out, fmt.Errorf("%w: %d supplied", catalog.ErrTooManyParams, len(req.Params))
		}
		out.params = contract.ParamsFrom(req.Params...)
	}

	def, ok := i.index[kind]
	if !ok {
		return out, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	out.def = def
	if req.DurationTicks > 0 {
		out.duration = req.DurationTicks
	}
	if out.duration > 0 && !def.Removable() {
		return out, fmt.Errorf("%w: %q", ErrDurationNotRemovable, kind)
	}
	return out, nil
}

func (i *Interactor) requestID(req Request) string {
	if req.ID != "" {
		return req.ID
	}
	return i.newID()
}

func rejected(id string, req Request, err error) Outcome {
	return Outcome{
		RequestID: id,
		Kind:      req.Kind,
		Entry:     req.Entry,
		Params:    contract.ParamsFrom(req.Params...),
		Result:    contract.NotPossible,
		Reason:    err.Error(),
		Err:       err,
	}
}

// Query reports whether req could be applied now without changing the world.
func (i *Interactor) Query(ctx context.Context, req Request) Outcome {
	id := i.requestID(req)
	res, err := i.resolve(req)
	if err != nil {
		outcome := rejected(id, req, err)
		i.count(telemetry.KeyInteractionsQueried, outcome.Kind)
		interactions.Queried(ctx, i.publisher, i.tick, actorRef(req.Actor), payloadFor(outcome, 0), nil)
		return outcome
	}
	instance := res.def.Instantiate(res.params)
	outcome := Outcome{
		RequestID: id,
		Kind:      res.def.Kind,
		Entry:     res.entry,
		Params:    res.params,
		Result:    instance.CanBeApplied(i.world),
		Removable: instance.Removable(),
	}
	i.count(telemetry.KeyInteractionsQueried, outcome.Kind)
	interactions.Queried(ctx, i.publisher, i.tick, actorRef(req.Actor), payloadFor(outcome, res.duration), nil)
	return outcome
}

// Apply runs req. Successful removable interactions stay active until
// removed or, when a duration is known, until Advance reaches their expiry.
func (i *Interactor) Apply(ctx context.Context, req Request) Outcome {
	id := i.requestID(req)
	actor := actorRef(req.Actor)
	if _, exists := i.active[id]; exists {
		outcome := rejected(id, req, fmt.Errorf("%w: %q", ErrDuplicateRequest, id))
		i.recordRejection(ctx, actor, outcome, 0)
		return outcome
	}
	res, err := i.resolve(req)
	if err != nil {
		outcome := rejected(id, req, err)
		i.recordRejection(ctx, actor, outcome, 0)
		return outcome
	}

	instance := res.def.Instantiate(res.params)
	res.duration = trackedDuration(instance, res.duration)
	outcome := Outcome{
		RequestID: id,
		Kind:      res.def.Kind,
		Entry:     res.entry,
		Params:    res.params,
		Result:    instance.Apply(i.world),
		Removable: instance.Removable(),
	}
	if outcome.Result != contract.Possible {
		i.recordRejection(ctx, actor, outcome, res.duration)
		return outcome
	}

	if outcome.Removable {
		i.seq++
		entry := &tracked{
			seq:       i.seq,
			id:        id,
			entry:     res.entry,
			actor:     req.Actor,
			instance:  instance,
			appliedAt: i.tick,
		}
		if res.duration > 0 {
			entry.expiresAt = i.tick + uint64(res.duration)
		}
		i.active[id] = entry
		outcome.Active = true
		outcome.ExpiresAt = entry.expiresAt
		i.storeActive()
	}
	i.count(telemetry.KeyInteractionsApplied, outcome.Kind)
	interactions.Applied(ctx, i.publisher, i.tick, actor, payloadFor(outcome, res.duration), nil)
	return outcome
}

// trackedDuration caps the requested duration at the lifetime of a timed
// status, so the interaction leaves the active set when the host ends it.
func trackedDuration(instance *contract.Instance[game.World], requested int) int {
	lifetime, ok := instance.Lifetime()
	if !ok || lifetime <= 0 {
		return requested
	}
	if requested <= 0 || requested > lifetime {
		return lifetime
	}
	return requested
}

func (i *Interactor) recordRejection(ctx context.Context, actor logging.EntityRef, outcome Outcome, duration int) {
	if outcome.Result == contract.TemporarilyNotPossible {
		i.count(telemetry.KeyInteractionsRetry, outcome.Kind)
	} else {
		i.count(telemetry.KeyInteractionsRejected, outcome.Kind)
	}
	var extra map[string]any
	if outcome.Reason != "" {
		extra = map[string]any{"reason": outcome.Reason}
	}
	interactions.Rejected(ctx, i.publisher, i.tick, actor, payloadFor(outcome, duration), extra)
}

// Remove reverts the active interaction with the given request id. Unknown
// ids report NotPossible. A TemporarilyNotPossible result keeps the
// interaction active so the caller can retry.
func (i *Interactor) Remove(ctx context.Context, requestID string, actorID string) Outcome {
	actor := actorRef(actorID)
	entry, ok := i.active[requestID]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrNotActive, requestID)
		outcome := Outcome{RequestID: requestID, Result: contract.NotPossible, Reason: err.Error(), Err: err}
		i.count(telemetry.KeyInteractionsRemoveRejected, "")
		interactions.RemoveRejected(ctx, i.publisher, i.tick, actor, payloadFor(outcome, 0), map[string]any{"reason": outcome.Reason})
		return outcome
	}

	outcome := entry.outcome(entry.instance.Remove(i.world))
	switch outcome.Result {
	case contract.Possible:
		i.untrack(requestID)
		i.count(telemetry.KeyInteractionsRemoved, outcome.Kind)
		interactions.Removed(ctx, i.publisher, i.tick, actor, payloadFor(outcome, 0), nil)
	case contract.TemporarilyNotPossible:
		outcome.Active = true
		i.count(telemetry.KeyInteractionsRemoveRejected, outcome.Kind)
		interactions.RemoveRejected(ctx, i.publisher, i.tick, actor, payloadFor(outcome, 0), nil)
	default:
		// The host already undid it; nothing left to revert.
		i.untrack(requestID)
		outcome.Reason = "interaction can no longer be removed"
		i.count(telemetry.KeyInteractionsRemoveRejected, outcome.Kind)
		interactions.RemoveRejected(ctx, i.publisher, i.tick, actor, payloadFor(outcome, 0), map[string]any{"reason": outcome.Reason})
	}
	return outcome
}

// Advance moves the interactor clock to tick and reverts every timed
// interaction that is due. Interactions the game cannot release yet stay
// due and are retried on the next call; ones the game already ended are
// dropped with a NotPossible outcome.
func (i *Interactor) Advance(ctx context.Context, tick uint64) []Outcome {
	if tick > i.tick {
		i.tick = tick
	}
	var due []*tracked
	for _, entry := range i.active {
		if entry.expiresAt > 0 && entry.expiresAt <= i.tick {
			due = append(due, entry)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(a, b int) bool {
		if due[a].expiresAt != due[b].expiresAt {
			return due[a].expiresAt < due[b].expiresAt
		}
		return due[a].seq < due[b].seq
	})

	outcomes := make([]Outcome, 0, len(due))
	for _, entry := range due {
		outcome := entry.outcome(entry.instance.Remove(i.world))
		switch outcome.Result {
		case contract.Possible:
			i.untrack(entry.id)
			i.count(telemetry.KeyInteractionsExpired, outcome.Kind)
			interactions.Expired(ctx, i.publisher, i.tick, payloadFor(outcome, 0), nil)
		case contract.TemporarilyNotPossible:
			outcome.Active = true
		default:
			// The game ended it on its own schedule.
			i.untrack(entry.id)
			outcome.Reason = "ended by host"
			i.count(telemetry.KeyInteractionsExpired, outcome.Kind)
			interactions.Expired(ctx, i.publisher, i.tick, payloadFor(outcome, 0), map[string]any{"reason": outcome.Reason})
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// RemoveAll reverts every active interaction, as on a host reset. It returns
// the number removed; interactions the game cannot release yet remain active.
// Every interaction gets a removed or remove-rejected event.
func (i *Interactor) RemoveAll(ctx context.Context) int {
	entries := i.sortedActive()
	removed := 0
	for _, entry := range entries {
		actor := actorRef(entry.actor)
		outcome := entry.outcome(entry.instance.Remove(i.world))
		extra := map[string]any{"reason": resetReason}
		switch outcome.Result {
		case contract.Possible:
			i.untrack(entry.id)
			removed++
			i.count(telemetry.KeyInteractionsRemoved, outcome.Kind)
			interactions.Removed(ctx, i.publisher, i.tick, actor, payloadFor(outcome, 0), extra)
		case contract.TemporarilyNotPossible:
			outcome.Active = true
			i.count(telemetry.KeyInteractionsRemoveRejected, outcome.Kind)
			interactions.RemoveRejected(ctx, i.publisher, i.tick, actor, payloadFor(outcome, 0), extra)
		default:
			i.untrack(entry.id)
			extra["ended"] = true
			i.count(telemetry.KeyInteractionsRemoveRejected, outcome.Kind)
			interactions.RemoveRejected(ctx, i.publisher, i.tick, actor, payloadFor(outcome, 0), extra)
		}
	}
	lifecycle.HostReset(ctx, i.publisher, i.tick, lifecycle.HostResetPayload{Removed: removed, Retained: len(i.active)}, nil)
	return removed
}

// Active returns the tracked interactions in application order.
func (i *Interactor) Active() []ActiveInteraction {
	entries := i.sortedActive()
	out := make([]ActiveInteraction, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ActiveInteraction{
			RequestID: entry.id,
			Kind:      entry.instance.Kind(),
			Entry:     entry.entry,
			Params:    entry.instance.Params(),
			Actor:     entry.actor,
			AppliedAt: entry.appliedAt,
			ExpiresAt: entry.expiresAt,
		})
	}
	return out
}

func (i *Interactor) sortedActive() []*tracked {
	entries := make([]*tracked, 0, len(i.active))
	for _, entry := range i.active {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].seq < entries[b].seq })
	return entries
}

func (i *Interactor) untrack(id string) {
	delete(i.active, id)
	i.storeActive()
}

func (i *Interactor) storeActive() {
	if i.metrics != nil {
		i.metrics.Store(telemetry.KeyInteractionsActive, uint64(len(i.active)))
	}
}

func (i *Interactor) count(key string, kind contract.Kind) {
	telemetry.CountKind(i.metrics, key, string(kind))
}

func (t *tracked) outcome(result contract.Result) Outcome {
	return Outcome{
		RequestID: t.id,
		Kind:      t.instance.Kind(),
		Entry:     t.entry,
		Params:    t.instance.Params(),
		Result:    result,
		Removable: true,
		ExpiresAt: t.expiresAt,
	}
}

func payloadFor(outcome Outcome, duration int) interactions.Payload {
	return interactions.Payload{
		RequestID:     outcome.RequestID,
		Kind:          outcome.Kind,
		EntryID:       outcome.Entry,
		Params:        outcome.Params,
		Result:        outcome.Result,
		DurationTicks: duration,
	}
}

func actorRef(id string) logging.EntityRef {
	if id == "" {
		return logging.EntityRef{ID: "local", Kind: logging.EntityKindClient}
	}
	return logging.EntityRef{ID: id, Kind: logging.EntityKindClient}
}

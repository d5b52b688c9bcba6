package interactor

import (
	"errors"

	"game-interactor/effects/contract"
)

var (
	// ErrMissingTarget reports a request naming neither a kind nor a catalog entry.
	ErrMissingTarget = errors.New("interactor: request names no kind or entry")
	// ErrUnknownKind reports a kind absent from the registry.
	ErrUnknownKind = errors.New("interactor: unknown kind")
	// ErrUnknownEntry reports a catalog id that does not resolve.
	ErrUnknownEntry = errors.New("interactor: unknown catalog entry")
	// ErrEntryDisabled reports a catalog entry switched off by configuration.
	ErrEntryDisabled = errors.New("interactor: catalog entry disabled")
	// ErrKindMismatch reports a request whose kind disagrees with its entry.
	ErrKindMismatch = errors.New("interactor: kind does not match catalog entry")
	// ErrDurationNotRemovable reports a duration on an interaction with no inverse.
	ErrDurationNotRemovable = errors.New("interactor: duration requires a removable kind")
	// ErrDuplicateRequest reports a request id that is already active.
	ErrDuplicateRequest = errors.New("interactor: request id already active")
	// ErrNotActive reports a removal for a request id that is not tracked.
	ErrNotActive = errors.New("interactor: request is not active")
)

// Request asks for an interaction by kind or by catalog entry id. Params left
// empty fall back to the entry defaults.
type Request struct {
	ID            string        `json:"id,omitempty"`
	Entry         string        `json:"entry,omitempty"`
	Kind          contract.Kind `json:"kind,omitempty"`
	Params        []int32       `json:"params,omitempty"`
	DurationTicks int           `json:"durationTicks,omitempty"`
	Actor         string        `json:"-"`
}

// Outcome reports what happened to a request. Requests that never reach the
// game carry NotPossible and a Reason.
type Outcome struct {
	RequestID string          `json:"requestId"`
	Kind      contract.Kind   `json:"kind,omitempty"`
	Entry     string          `json:"entry,omitempty"`
	Params    contract.Params `json:"params"`
	Result    contract.Result `json:"result"`
	Removable bool            `json:"removable"`
	Active    bool            `json:"active"`
	ExpiresAt uint64          `json:"expiresAt,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Err       error           `json:"-"`
}

// Retry reports whether the caller should resubmit later.
func (o Outcome) Retry() bool {
	return o.Result.Retryable()
}

// ActiveInteraction is a snapshot of one applied removable interaction.
type ActiveInteraction struct {
	RequestID string          `json:"requestId"`
	Kind      contract.Kind   `json:"kind"`
	Entry     string          `json:"entry,omitempty"`
	Params    contract.Params `json:"params"`
	Actor     string          `json:"actor,omitempty"`
	AppliedAt uint64          `json:"appliedAt"`
	ExpiresAt uint64          `json:"expiresAt,omitempty"`
}

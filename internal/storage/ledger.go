// Package storage defines the persisted interaction ledger.
package storage

import (
	"context"
	"errors"
	"time"

	"game-interactor/effects/contract"
)

// ErrNotFound is returned when no ledger rows match a lookup.
var ErrNotFound = errors.New("storage: not found")

// Record is one persisted interaction event.
type Record struct {
	ID        int64           `json:"id"`
	Time      time.Time       `json:"time"`
	Tick      uint64          `json:"tick"`
	Type      string          `json:"type"`
	RequestID string          `json:"requestId"`
	Kind      contract.Kind   `json:"kind"`
	EntryID   string          `json:"entryId,omitempty"`
	Actor     string          `json:"actor"`
	Result    contract.Result `json:"result"`
	Params    contract.Params `json:"params"`
	Reason    string          `json:"reason,omitempty"`
}

// Ledger appends and reads interaction records.
type Ledger interface {
	Append(ctx context.Context, record Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	ByRequest(ctx context.Context, requestID string) ([]Record, error)
}

// Package sqlite persists the interaction ledger in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"game-interactor/effects/contract"
	"game-interactor/internal/storage"
	"game-interactor/internal/storage/sqlite/migrations"
	"game-interactor/internal/storage/sqlitemigrate"

	_ "modernc.org/sqlite"
)

// ErrNotConfigured is returned by methods on a nil or closed store.
var ErrNotConfigured = errors.New("sqlite: storage is not configured")

// Store provides SQLite-backed interaction ledger persistence.
type Store struct {
	db *sql.DB
}

// Open opens the ledger at path and applies migrations. ":memory:" opens a
// private in-memory database.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), db, migrations.FS, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append persists one interaction record.
func (s *Store) Append(ctx context.Context, record storage.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return ErrNotConfigured
	}
	record.Type = strings.TrimSpace(record.Type)
	record.RequestID = strings.TrimSpace(record.RequestID)
	if record.Type == "" {
		return fmt.Errorf("event type is required")
	}
	if record.RequestID == "" {
		return fmt.Errorf("request id is required")
	}
	if !record.Result.Valid() {
		return fmt.Errorf("invalid result code 0x%02x", uint8(record.Result))
	}
	if record.Time.IsZero() {
		record.Time = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO interactions (
	recorded_at,
	tick,
	event_type,
	request_id,
	kind,
	entry_id,
	actor,
	result,
	param0,
	param1,
	param2,
	reason
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		record.Time.UTC().UnixMilli(),
		int64(record.Tick),
		record.Type,
		record.RequestID,
		string(record.Kind),
		record.EntryID,
		record.Actor,
		record.Result.String(),
		record.Params[0],
		record.Params[1],
		record.Params[2],
		record.Reason,
	)
	if err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}

const selectColumns = `
SELECT
	id,
	recorded_at,
	tick,
	event_type,
	request_id,
	kind,
	entry_id,
	actor,
	result,
	param0,
	param1,
	param2,
	reason
FROM interactions
`

// Recent lists the newest records first.
func (s *Store) Recent(ctx context.Context, limit int) ([]storage.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+"ORDER BY id DESC\nLIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	return scanRecords(rows, limit)
}

// ByRequest lists every record for one request in the order it was written.
func (s *Store) ByRequest(ctx context.Context, requestID string) ([]storage.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, ErrNotConfigured
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+"WHERE request_id = ?\nORDER BY id ASC", strings.TrimSpace(requestID))
	if err != nil {
		return nil, fmt.Errorf("list request %s: %w", requestID, err)
	}
	records, err := scanRecords(rows, 4)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, storage.ErrNotFound
	}
	return records, nil
}

func scanRecords(rows *sql.Rows, capacity int) ([]storage.Record, error) {
	defer rows.Close()

	records := make([]storage.Record, 0, capacity)
	for rows.Next() {
		var (
			record     storage.Record
			recordedAt int64
			tick       int64
			kind       string
			result     string
		)
		if err := rows.Scan(
			&record.ID,
			&recordedAt,
			&tick,
			&record.Type,
			&record.RequestID,
			&kind,
			&record.EntryID,
			&record.Actor,
			&result,
			&record.Params[0],
			&record.Params[1],
			&record.Params[2],
			&record.Reason,
		); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		parsed, ok := contract.ParseResult(result)
		if !ok {
			return nil, fmt.Errorf("scan interaction %d: unknown result %q", record.ID, result)
		}
		record.Result = parsed
		record.Kind = contract.Kind(kind)
		record.Tick = uint64(tick)
		record.Time = time.UnixMilli(recordedAt).UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return records, nil
}

var _ storage.Ledger = (*Store)(nil)

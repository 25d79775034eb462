package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/parley/parley/internal/core"
)

// SaveCheckpoint persists a full-transcript snapshot for threadID under the
// next step marker. Step computation and insert are a single statement, so
// concurrent saves contend only as plain writers (busy_timeout applies; a
// read-snapshot transaction would fail its lock upgrade with SQLITE_BUSY
// instead of waiting), and a turn that fails mid-save never leaves a partial
// snapshot visible to LatestTranscript: either the row commits whole or the
// prior checkpoint stays latest.
func (db *DB) SaveCheckpoint(ctx context.Context, threadID string, transcript []core.Message) error {
	if threadID == "" {
		return fmt.Errorf("save checkpoint: empty thread id")
	}
	raw, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("save checkpoint: encode transcript: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO checkpoints (thread_id, step, transcript)
		 SELECT ?, COALESCE(MAX(step), 0) + 1, ? FROM checkpoints WHERE thread_id = ?`,
		threadID, string(raw), threadID,
	); err != nil {
		return fmt.Errorf("save checkpoint: insert: %w", err)
	}
	return nil
}

// LatestTranscript returns the most recent transcript snapshot for threadID,
// or an empty transcript if the id has never been checkpointed.
func (db *DB) LatestTranscript(ctx context.Context, threadID string) ([]core.Message, error) {
	var raw string
	err := db.QueryRowContext(ctx,
		`SELECT transcript FROM checkpoints WHERE thread_id = ? ORDER BY step DESC LIMIT 1`, threadID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	var transcript []core.Message
	if err := json.Unmarshal([]byte(raw), &transcript); err != nil {
		return nil, fmt.Errorf("load checkpoint: decode transcript: %w", err)
	}
	return transcript, nil
}

// LatestStep returns the highest step marker for threadID (0 if unseen).
func (db *DB) LatestStep(ctx context.Context, threadID string) (int64, error) {
	var step int64
	err := db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(step), 0) FROM checkpoints WHERE thread_id = ?`, threadID,
	).Scan(&step)
	if err != nil {
		return 0, err
	}
	return step, nil
}

// ListThreadIDs returns the distinct thread ids with at least one checkpoint.
// The DISTINCT scan runs against idx_checkpoints_thread rather than reading
// every snapshot row.
func (db *DB) ListThreadIDs(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT thread_id FROM checkpoints ORDER BY thread_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ListThreadIDsPage returns one page of distinct thread ids for callers that
// enumerate large stores incrementally.
func (db *DB) ListThreadIDsPage(ctx context.Context, limit, offset int) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT thread_id FROM checkpoints ORDER BY thread_id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CheckpointStore is the persistence contract for the turn loop (extendable storage).
type CheckpointStore interface {
	SaveCheckpoint(ctx context.Context, threadID string, transcript []core.Message) error
	LatestTranscript(ctx context.Context, threadID string) ([]core.Message, error)
	ListThreadIDs(ctx context.Context) ([]string, error)
}

// Ensure *DB implements CheckpointStore.
var _ CheckpointStore = (*DB)(nil)

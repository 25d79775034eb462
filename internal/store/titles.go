package store

import (
	"context"
	"database/sql"
)

// ThreadTitle returns the cached title for threadID, or "" if none exists.
func (db *DB) ThreadTitle(ctx context.Context, threadID string) (string, error) {
	var title string
	err := db.QueryRowContext(ctx,
		`SELECT title FROM thread_titles WHERE thread_id = ?`, threadID,
	).Scan(&title)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return title, nil
}

// SaveThreadTitle upserts the title for threadID. Last writer wins: two
// concurrent first turns on the same new thread id silently overwrite each
// other, no error.
func (db *DB) SaveThreadTitle(ctx context.Context, threadID, title string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO thread_titles (thread_id, title) VALUES (?, ?)`,
		threadID, title)
	return err
}

// TitleStore is the title persistence contract.
type TitleStore interface {
	ThreadTitle(ctx context.Context, threadID string) (string, error)
	SaveThreadTitle(ctx context.Context, threadID, title string) error
}

var _ TitleStore = (*DB)(nil)

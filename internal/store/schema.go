package store

const schema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	thread_id TEXT NOT NULL,
	step INTEGER NOT NULL,
	transcript TEXT NOT NULL, -- JSON array of core.Message
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (thread_id, step)
);

CREATE INDEX IF NOT EXISTS idx_checkpoints_thread ON checkpoints(thread_id);

CREATE TABLE IF NOT EXISTS thread_titles (
	thread_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

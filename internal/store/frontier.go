package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/nao1215/linkpatrol/internal/model"
)

// Frontier is the durable set of discovered-but-not-yet-visited URLs.
// Entries are keyed by URL; re-discovering a queued URL is a no-op.
type Frontier struct {
	db   *sql.DB
	path string
}

// OpenFrontier opens or creates the frontier store at the given path.
func OpenFrontier(path string, opts Options) (*Frontier, error) {
	db, err := open(path, opts)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS frontier (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		trail TEXT NOT NULL DEFAULT '[]',
		discovered_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create frontier table: %w", err)
	}

	return &Frontier{db: db, path: path}, nil
}

// Close closes the underlying store file.
func (f *Frontier) Close() error {
	return f.db.Close()
}

// InsertIfAbsent adds the task unless its URL is already queued.
// It returns true when a new entry was created.
//
// The visited check against the result store is the engine's job; the
// frontier only guarantees that a URL appears at most once as a key.
func (f *Frontier) InsertIfAbsent(ctx context.Context, task model.Task) (bool, error) {
	trailJSON, err := json.Marshal(task.Trail)
	if err != nil {
		return false, fmt.Errorf("failed to serialize trail: %w", err)
	}

	result, err := f.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO frontier (url, trail) VALUES (?, ?)`,
		task.URL, string(trailJSON),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert frontier entry: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return n > 0, nil
}

// Pop removes and returns one pending task. It returns ErrEmptyFrontier when
// no entries remain.
//
// Pop order is oldest-discovered-first (insertion rowid order), which makes
// the crawl roughly breadth-first. The contract only requires some
// documented order; correctness never depends on it.
//
// The entry is gone once Pop returns. A crash between Pop and the matching
// result-store Put loses that single URL until another page rediscovers it,
// which is the accepted degraded behavior.
func (f *Frontier) Pop(ctx context.Context) (model.Task, error) {
	var (
		id        int64
		task      model.Task
		trailJSON string
	)

	row := f.db.QueryRowContext(ctx,
		`SELECT id, url, trail FROM frontier ORDER BY id LIMIT 1`)
	if err := row.Scan(&id, &task.URL, &trailJSON); err != nil {
		if err == sql.ErrNoRows {
			return model.Task{}, ErrEmptyFrontier
		}
		return model.Task{}, fmt.Errorf("failed to pop frontier entry: %w", err)
	}

	if err := json.Unmarshal([]byte(trailJSON), &task.Trail); err != nil {
		return model.Task{}, fmt.Errorf("failed to parse trail for %s: %w", task.URL, err)
	}

	if _, err := f.db.ExecContext(ctx, `DELETE FROM frontier WHERE id = ?`, id); err != nil {
		return model.Task{}, fmt.Errorf("failed to remove frontier entry: %w", err)
	}

	return task, nil
}

// Has reports whether a URL is currently queued.
func (f *Frontier) Has(ctx context.Context, url string) (bool, error) {
	var count int
	err := f.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM frontier WHERE url = ?`, url).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check frontier entry: %w", err)
	}
	return count > 0, nil
}

// Size returns the number of pending entries.
func (f *Frontier) Size(ctx context.Context) (int, error) {
	var count int
	if err := f.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM frontier`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count frontier entries: %w", err)
	}
	return count, nil
}

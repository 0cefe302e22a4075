package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/nao1215/linkpatrol/internal/model"
)

// Results is the durable mapping from visited URL to its record.
// A URL is written at most once per crawl in normal operation; a resumed
// crawl never touches keys that already exist.
type Results struct {
	db   *sql.DB
	path string
}

// OpenResults opens or creates the result store at the given path.
func OpenResults(path string, opts Options) (*Results, error) {
	db, err := open(path, opts)
	if err != nil {
		return nil, err
	}

	// The status lives in its own nullable column so the summary report can
	// group by it in SQL. NULL marks records that errored before receiving
	// any HTTP status.
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		url TEXT PRIMARY KEY,
		status INTEGER,
		record TEXT NOT NULL,
		stored_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_results_status ON results(status);
	`
	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create results table: %w", err)
	}

	return &Results{db: db, path: path}, nil
}

// Close closes the underlying store file.
func (r *Results) Close() error {
	return r.db.Close()
}

// Put durably writes the record under its URL. When Put returns, the record
// has been committed with synchronous=FULL and survives an immediate crash.
func (r *Results) Put(ctx context.Context, rec *model.Record) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	var status sql.NullInt64
	if rec.HasStatus() {
		status = sql.NullInt64{Int64: int64(rec.Status), Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO results (url, status, record) VALUES (?, ?, ?)`,
		rec.URL, status, string(recordJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to store record for %s: %w", rec.URL, err)
	}
	return nil
}

// Contains reports whether a URL has already been visited.
func (r *Results) Contains(ctx context.Context, url string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM results WHERE url = ?`, url).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check result entry: %w", err)
	}
	return count > 0, nil
}

// Get returns the record for a visited URL, or ErrNotFound.
func (r *Results) Get(ctx context.Context, url string) (*model.Record, error) {
	var recordJSON string
	err := r.db.QueryRowContext(ctx,
		`SELECT record FROM results WHERE url = ?`, url).Scan(&recordJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record for %s: %w", url, err)
	}

	var rec model.Record
	if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
		return nil, fmt.Errorf("failed to parse record for %s: %w", url, err)
	}
	return &rec, nil
}

// Each calls fn for every stored record. Each invocation is a fresh pass
// over the store; iteration order is unspecified. Returning an error from fn
// stops the pass and surfaces that error.
func (r *Results) Each(ctx context.Context, fn func(url string, rec *model.Record) error) error {
	rows, err := r.db.QueryContext(ctx, `SELECT url, record FROM results`)
	if err != nil {
		return fmt.Errorf("failed to iterate results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			url        string
			recordJSON string
		)
		if err := rows.Scan(&url, &recordJSON); err != nil {
			return fmt.Errorf("failed to scan result row: %w", err)
		}

		var rec model.Record
		if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
			return fmt.Errorf("failed to parse record for %s: %w", url, err)
		}

		if err := fn(url, &rec); err != nil {
			return err
		}
	}

	return rows.Err()
}

// Count returns the number of visited URLs.
func (r *Results) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return count, nil
}

// StatusCounts groups visited URLs by HTTP status code. Records that never
// received a status are reported under key 0.
func (r *Results) StatusCounts(ctx context.Context) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM results GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to group results by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var (
			status sql.NullInt64
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status group: %w", err)
		}
		if status.Valid {
			counts[int(status.Int64)] = n
		} else {
			counts[0] = n
		}
	}

	return counts, rows.Err()
}

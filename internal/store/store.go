package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Sentinel errors returned by the stores.
var (
	// ErrEmptyFrontier is returned by Frontier.Pop when no entries remain.
	// It is the normal loop-termination signal, not a failure.
	ErrEmptyFrontier = errors.New("frontier is empty")

	// ErrNotFound is returned by Results.Get when the URL was never visited.
	ErrNotFound = errors.New("record not found")
)

// Options configures how a store file is opened.
type Options struct {
	// CreateIfNotExists creates the store file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// FrontierPath returns the frontier store file for a crawl name.
func FrontierPath(dir, name string) string {
	return filepath.Join(dir, name+".frontier")
}

// ResultsPath returns the result store file for a crawl name.
func ResultsPath(dir, name string) string {
	return filepath.Join(dir, name+".results")
}

// open opens or creates a SQLite store file and applies the pragmas both
// stores rely on. The caller owns the returned handle.
//
// synchronous=FULL matters here: a committed write must already be on disk
// when Put returns, otherwise a crash immediately afterwards could lose a
// record the frontier no longer holds.
func open(path string, opts Options) (*sql.DB, error) {
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("store not found at %s (use CreateIfNotExists option to create)", path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check store path: %w", err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	// mode=rw prevents silently creating a fresh empty store when the
	// caller expects existing state.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = path + "?mode=rwc"
	} else {
		dsn = path + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// SQLite only supports one writer; a single connection also serializes
	// the pop/insert paths under concurrent workers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA synchronous=FULL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

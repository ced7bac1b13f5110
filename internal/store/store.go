// Package store provides SQLite-backed persistence for Tasker.
//
// The task list is persisted as one JSON-encoded entry in a key-value table,
// written in full after every mutation. Unreadable or missing state loads as
// an empty list; persistence problems never surface to the user.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/tasker-app/tasker/internal/models"
	_ "modernc.org/sqlite"
)

// tasksKey is the fixed name of the persisted task list entry.
const tasksKey = "tasker-tasks"

// Store provides access to the Tasker SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Open with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		name TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Load reads the persisted task list. A missing entry or unparseable value
// yields an empty list, never an error: starting fresh beats refusing to
// start.
func (s *Store) Load() []models.Task {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE name = ?`, tasksKey).Scan(&value)
	if err == sql.ErrNoRows {
		return []models.Task{}
	}
	if err != nil {
		log.Printf("load tasks: %v (starting empty)", err)
		return []models.Task{}
	}

	var tasks []models.Task
	if err := json.Unmarshal(value, &tasks); err != nil {
		log.Printf("parse stored tasks: %v (starting empty)", err)
		return []models.Task{}
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks
}

// Save writes the full task list, replacing any previous entry.
func (s *Store) Save(tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	value, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO kv (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		tasksKey, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// Package history keeps a best-effort audit trail of registry operations
// in a local sqlite database. Failures here must never fail the operation
// being recorded; callers log and move on.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Event is one recorded registry operation.
type Event struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"` // install, hoist, nuke
	Name      string    `json:"name,omitempty"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the sqlite-backed event log.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at dbPath, creating the
// parent directory and schema as needed.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// Single connection for WAL mode simplicity.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS events (
		id         TEXT PRIMARY KEY,
		action     TEXT NOT NULL,
		name       TEXT,
		location   TEXT,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at)`)
	if err != nil {
		return fmt.Errorf("create events index: %w", err)
	}
	return nil
}

// Record appends one event.
func (s *Store) Record(action, name, location string) error {
	_, err := s.db.Exec(
		`INSERT INTO events (id, action, name, location, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), action, name, location, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(limit int) ([]Event, error) {
	// rowid order, not created_at: trimmed-nanosecond timestamps do not
	// sort lexicographically.
	rows, err := s.db.Query(
		`SELECT id, action, name, location, created_at FROM events ORDER BY rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var name, location sql.NullString
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Action, &name, &location, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Name = name.String
		e.Location = location.String
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = t
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

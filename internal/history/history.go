// Package history stores saved hunt sessions in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fakeyudi/huntsplit/internal/current"
	"github.com/fakeyudi/huntsplit/internal/report"
)

var (
	// ErrNotFound indicates no saved session matches the id.
	ErrNotFound = errors.New("saved session not found")
	// ErrAmbiguousID indicates an id prefix matches more than one session.
	ErrAmbiguousID = errors.New("id prefix matches more than one saved session")
)

// Entry is one saved session.
type Entry struct {
	ID      string          `json:"id"`
	SavedAt time.Time       `json:"saved_at"`
	Session *report.Session `json:"session"`
}

// Store is a SQLite-backed session history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath is history.db in the huntsplit data directory.
func DefaultPath() (string, error) {
	dir, err := current.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		saved_at INTEGER NOT NULL,
		start_time INTEGER NOT NULL,
		player_count INTEGER NOT NULL,
		session_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_saved ON sessions(saved_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_time DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save adds sess to the history under a fresh id.
func (s *Store) Save(ctx context.Context, sess *report.Session) (Entry, error) {
	payload, err := json.Marshal(sess)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal session: %w", err)
	}

	e := Entry{
		ID:      uuid.New().String(),
		SavedAt: s.now().UTC().Truncate(time.Second),
		Session: sess,
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, saved_at, start_time, player_count, session_json)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.SavedAt.Unix(), sess.StartTime.Unix(), len(sess.Players), string(payload))
	if err != nil {
		return Entry{}, fmt.Errorf("save session: %w", err)
	}
	return e, nil
}

// Get returns the entry whose id equals id or, failing that, is the only
// one starting with it.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Entry{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, saved_at, session_json FROM sessions
		WHERE id = ? OR substr(id, 1, ?) = ?
		ORDER BY id = ? DESC
		LIMIT 2
	`, id, len(id), id, id)
	if err != nil {
		return Entry{}, fmt.Errorf("get session: %w", err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return Entry{}, err
	}

	switch {
	case len(entries) == 0:
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case entries[0].ID == id:
		return entries[0], nil
	case len(entries) > 1:
		return Entry{}, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
	return entries[0], nil
}

// List returns saved sessions, newest first. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, saved_at, session_json FROM sessions
		ORDER BY saved_at DESC, start_time DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return scanEntries(rows)
}

// Delete removes the entry matched by id (exact or unique prefix).
func (s *Store) Delete(ctx context.Context, id string) (Entry, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, e.ID); err != nil {
		return Entry{}, fmt.Errorf("delete session: %w", err)
	}
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			savedAt int64
			payload string
		)
		if err := rows.Scan(&e.ID, &savedAt, &payload); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var sess report.Session
		if err := json.Unmarshal([]byte(payload), &sess); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", e.ID, err)
		}
		e.SavedAt = time.Unix(savedAt, 0).UTC()
		e.Session = &sess
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Package current keeps the most recently parsed hunt session on disk so
// follow-up commands can work on it without re-reading the report.
package current

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fakeyudi/huntsplit/internal/report"
)

const fileName = "current.json"

// ErrNoSession is returned by Get when nothing has been parsed yet.
var ErrNoSession = errors.New("no current session")

// Record is the persisted current session together with where it came from.
type Record struct {
	Source   string          `json:"source"`
	ParsedAt time.Time       `json:"parsed_at"`
	Warnings []string        `json:"warnings,omitempty"`
	Session  *report.Session `json:"session"`
}

// Store is the current-session slot in a data directory.
type Store struct {
	dir string
}

// Open returns the Store in DataDir, creating the directory if needed.
func Open() (*Store, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	return OpenDir(dir)
}

// OpenDir returns a Store keeping its file in dir.
func OpenDir(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// DataDir is $XDG_DATA_HOME/huntsplit, or ~/.local/share/huntsplit.
func DataDir() (string, error) {
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return filepath.Join(base, "huntsplit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "huntsplit"), nil
}

// Path is the file backing the store.
func (st *Store) Path() string {
	return filepath.Join(st.dir, fileName)
}

// Put replaces the current session. ParsedAt defaults to now.
func (st *Store) Put(rec Record) error {
	if rec.Session == nil {
		return errors.New("current: nil session")
	}
	if rec.ParsedAt.IsZero() {
		rec.ParsedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode current session: %w", err)
	}
	if err := replaceFile(st.Path(), data); err != nil {
		return fmt.Errorf("write current session: %w", err)
	}
	return nil
}

// Get returns the current session, or ErrNoSession.
func (st *Store) Get() (Record, error) {
	data, err := os.ReadFile(st.Path())
	switch {
	case errors.Is(err, os.ErrNotExist):
		return Record{}, ErrNoSession
	case err != nil:
		return Record{}, fmt.Errorf("read current session: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode current session %s: %w", st.Path(), err)
	}
	if rec.Session == nil {
		return Record{}, fmt.Errorf("decode current session %s: no session recorded", st.Path())
	}
	return rec, nil
}

// Clear forgets the current session. It reports whether there was one.
func (st *Store) Clear() (bool, error) {
	err := os.Remove(st.Path())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("clear current session: %w", err)
	}
	return true, nil
}

// replaceFile writes data next to path and renames it into place, so a
// reader never sees a half-written file.
func replaceFile(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(f.Name())
		return err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return err
	}
	return nil
}

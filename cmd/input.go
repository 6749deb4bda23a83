package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/huntsplit/internal/current"
	"github.com/fakeyudi/huntsplit/internal/history"
	"github.com/fakeyudi/huntsplit/internal/report"
)

// readSession parses the session at path. An empty path or "-" reads report
// text from stdin. Warnings are printed to stderr as they are found and
// also returned.
func readSession(cmd *cobra.Command, path string) (*report.Session, []string, error) {
	var warnings []string
	warn := func(msg string) {
		warnings = append(warnings, msg)
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
	}

	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
		s, err := (&report.TextParser{Warn: warn}).Parse(data)
		return s, warnings, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, nil, err
	}
	s, err := report.ParserFor(path, warn).Parse(data)
	return s, warnings, err
}

// sessionFromArgs reads the session named by args[0], or the current
// session when no file is given.
func sessionFromArgs(cmd *cobra.Command, args []string) (*report.Session, []string, string, error) {
	if len(args) > 0 {
		s, warnings, err := readSession(cmd, args[0])
		return s, warnings, args[0], err
	}
	rec, err := loadCurrent()
	if err != nil {
		return nil, nil, "", err
	}
	return rec.Session, rec.Warnings, rec.Source, nil
}

func loadCurrent() (current.Record, error) {
	store, err := current.Open()
	if err != nil {
		return current.Record{}, err
	}
	rec, err := store.Get()
	if errors.Is(err, current.ErrNoSession) {
		return rec, fmt.Errorf("no current session: pass a report file or run 'huntsplit parse' first")
	}
	return rec, err
}

// saveCurrent makes s the current session. source names where it was read
// from; stdin is recorded as "stdin".
func saveCurrent(s *report.Session, source string, warnings []string) error {
	if source == "" || source == "-" {
		source = "stdin"
	}
	store, err := current.Open()
	if err != nil {
		return err
	}
	return store.Put(current.Record{Source: source, Warnings: warnings, Session: s})
}

// openHistory opens the configured history database.
func openHistory() (*history.Store, error) {
	path := cfg.HistoryPath
	if path == "" {
		p, err := history.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolving history path: %w", err)
		}
		path = p
	}
	return history.Open(path)
}

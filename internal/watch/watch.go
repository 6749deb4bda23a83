// Package watch re-reads a hunt report whenever the game client rewrites it.
package watch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fakeyudi/huntsplit/internal/logging"
)

const defaultDebounce = 75 * time.Millisecond

// Watcher follows a single file. The parent directory is watched rather
// than the file itself so that editors and clients which replace the file
// via rename are still picked up.
type Watcher struct {
	Path     string
	Debounce time.Duration // quiet period after the last event; 0 means defaultDebounce
	Logger   *slog.Logger
}

// Run calls onChange with the file contents each time the file is written
// or created, until ctx is cancelled. Bursts of events inside the debounce
// window collapse into one call, and contents identical to the previous
// delivery are skipped.
func (w *Watcher) Run(ctx context.Context, onChange func([]byte)) error {
	log := logging.Component(w.Logger, "watch")

	target, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.Path, err)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dir := filepath.Dir(target)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Debug("watching", "path", target)

	var (
		fire <-chan time.Time
		last []byte
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fire = time.After(debounce)
			}

		case <-fire:
			fire = nil
			data, err := os.ReadFile(target)
			if err != nil {
				log.Warn("read failed", "path", target, "err", err)
				continue
			}
			if last != nil && bytes.Equal(data, last) {
				continue
			}
			last = data
			log.Debug("file changed", "path", target, "bytes", len(data))
			onChange(data)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; continue watching.
			log.Warn("watcher error", "err", err)
		}
	}
}

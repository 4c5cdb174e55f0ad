package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces the burst of events one save produces
// (temp file, rename, WAL append).
const DefaultWatchDebounce = 150 * time.Millisecond

// Watch blocks until ctx is done, calling onChange after writes to any of
// paths settle for debounce. SQLite sidecar files (path-wal, path-shm) count
// as writes to path. Parent directories are watched so that rename-based
// replacement is observed.
func Watch(ctx context.Context, paths []string, debounce time.Duration, onChange func()) error {
	if len(paths) == 0 {
		return fmt.Errorf("watch: no paths")
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", p, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !matchesTarget(targets, ev.Name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching state files: %w", err)
		}
	}
}

func matchesTarget(targets map[string]bool, name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if targets[abs] {
		return true
	}
	for t := range targets {
		if strings.HasPrefix(abs, t+"-") {
			return true
		}
	}
	return false
}

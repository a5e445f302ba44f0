// Package watch re-runs a callback whenever the repository changes on disk.
// It backs the `recent --watch` mode.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thiagokokada/git-branches-go/internal/debounce"
)

// DefaultDebounceDelay coalesces the event bursts a single git command tends
// to produce into one re-run.
const DefaultDebounceDelay = 350 * time.Millisecond

// Run invokes fn once immediately, then again (debounced) every time the
// repository changes, until ctx is cancelled.
func Run(ctx context.Context, repoPath string, delay time.Duration, fn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()

	for _, path := range Paths(repoPath) {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}

	d := debounce.New(delay, fn)
	defer d.Stop()

	fn()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ShouldIgnore(ev.Name) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			d.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

// Paths returns what to watch for a repository root: the .git directory when
// present, otherwise the root itself (bare repository or detached gitdir).
func Paths(root string) []string {
	if root == "" {
		return nil
	}
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		return []string{gitDir}
	}
	return []string{root}
}

// ShouldIgnore filters out the transient files git creates while writing refs.
func ShouldIgnore(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}

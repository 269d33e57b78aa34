package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// DefaultWatchDebounce batches the bursts of events editors emit on save.
const DefaultWatchDebounce = 200 * time.Millisecond

// StateWatcher reports changes to a state file.
type StateWatcher interface {
	// Watch sends one notification per debounced burst of changes to path.
	// The channel closes when ctx is done or the watcher fails.
	Watch(ctx context.Context, path m.Path) (<-chan struct{}, error)
}

type fileWatcher struct {
	debounce time.Duration
}

// NewStateWatcher constructs an fsnotify-backed StateWatcher.
func NewStateWatcher(debounce time.Duration) StateWatcher {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	return &fileWatcher{debounce: debounce}
}

// Watch watches the directory of path, so files that are replaced by rename
// or created later are still seen.
func (w *fileWatcher) Watch(ctx context.Context, path m.Path) (<-chan struct{}, error) {
	target, err := filepath.Abs(string(path))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	slog.Debug("Watching state file", "path", target, "debounce", w.debounce)

	changes := make(chan struct{}, 1)

	go w.run(ctx, watcher, target, changes)

	return changes, nil
}

func (w *fileWatcher) run(ctx context.Context, watcher *fsnotify.Watcher, target string, changes chan<- struct{}) {
	defer close(changes)
	defer func() {
		if err := watcher.Close(); err != nil {
			slog.Error("Failed to close watcher", "error", err)
		}
	}()

	// Armed by the first matching event.
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if !isStateChange(event, target) {
				continue
			}

			slog.Debug("State file event", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			slog.Error("Watcher error", "error", err)

		case <-timer.C:
			select {
			case changes <- struct{}{}:
			default:
				// A notification is already pending.
			}
		}
	}
}

func isStateChange(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}

	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

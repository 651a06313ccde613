package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config wires a Watcher to its caller.
type Config struct {
	// Match selects the files whose changes are reported.
	Match func(path string) bool
	// SkipDir keeps a directory and its subtree out of the watch set.
	SkipDir func(path string) bool
	// OnChange receives each debounced batch of changed paths, sorted.
	OnChange func(paths []string)
	Debounce time.Duration
	Log      *slog.Logger
}

// Watcher batches file system events for matching source files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	cfg      Config
	mu       sync.Mutex
	pending  map[string]time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewWatcher(cfg Config) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if cfg.Debounce <= 0 {
		cfg.Debounce = 200 * time.Millisecond
	}
	if cfg.Match == nil {
		cfg.Match = func(string) bool { return true }
	}
	if cfg.SkipDir == nil {
		cfg.SkipDir = func(string) bool { return false }
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	return &Watcher{
		watcher: fsWatcher,
		cfg:     cfg,
		pending: make(map[string]time.Time),
		stopCh:  make(chan struct{}),
	}, nil
}

// Watch blocks until ctx is done or Stop is called.
func (w *Watcher) Watch(ctx context.Context, dirs []string) error {
	for _, dir := range dirs {
		if err := w.addDirRecursive(dir); err != nil {
			w.cfg.Log.Warn("failed to watch directory", "dir", dir, "error", err)
		}
	}

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.cfg.Log.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
	})
}

func (w *Watcher) addDirRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.cfg.SkipDir(path) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := statDir(event.Name); err == nil && info {
			if !w.cfg.SkipDir(event.Name) {
				if err := w.addDirRecursive(event.Name); err != nil {
					w.cfg.Log.Warn("failed to watch new directory", "dir", event.Name, "error", err)
				}
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !w.cfg.Match(event.Name) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(max(w.cfg.Debounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			if batch := w.takeReady(time.Now()); len(batch) > 0 && w.cfg.OnChange != nil {
				w.cfg.OnChange(batch)
			}
		}
	}
}

// takeReady removes and returns the paths quiet for at least the debounce
// interval.
func (w *Watcher) takeReady(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.cfg.Debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}

func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports images created in a directory after startup. Paths are
// buffered until the UI thread drains them.
type Watcher struct {
	w      *fsnotify.Watcher
	logger *slog.Logger

	mu      sync.Mutex
	pending []string
	seen    map[string]struct{}
}

// NewWatcher starts watching dir. known lists paths already in the catalog.
func NewWatcher(dir string, known []string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	seen := make(map[string]struct{}, len(known))
	for _, p := range known {
		seen[p] = struct{}{}
	}
	return &Watcher{w: fw, logger: logger, seen: seen}, nil
}

// Run consumes filesystem events until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.logger.Warn("image watcher error", "error", err)
		}
	}
}

// handle queues images that appeared in the directory. A file moved in
// arrives as Create; Rename carries the old name of a file moved away.
func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		w.offer(ev.Name)
	}
}

func (w *Watcher) offer(path string) {
	if !IsImage(path) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, dup := w.seen[path]; dup {
		return
	}
	w.seen[path] = struct{}{}
	w.pending = append(w.pending, path)
	w.logger.Debug("new image detected", "path", path)
}

// Drain returns and clears the images detected since the previous call.
func (w *Watcher) Drain() []string {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.pending
	w.pending = nil
	return out
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	return w.w.Close()
}

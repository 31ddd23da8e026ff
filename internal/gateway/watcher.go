package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileHandler processes one inbound file.
type FileHandler func(ctx context.Context, name string, data []byte) error

// InboxWatcher hands files dropped into a directory to a handler once they
// stop changing. Handled files are moved to the done directory, or to the
// failed directory when the handler returns an error.
type InboxWatcher struct {
	dir     string
	done    string
	failed  string
	settle  time.Duration
	handler FileHandler
	logger  *log.Logger
}

// NewInboxWatcher watches dir. Processed files go to dir/done and
// dir/failed.
func NewInboxWatcher(dir string, handler FileHandler, logger *log.Logger) (*InboxWatcher, error) {
	if dir == "" {
		return nil, errors.New("inbox watcher: directory is required")
	}
	if handler == nil {
		return nil, errors.New("inbox watcher: nil handler")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	w := &InboxWatcher{
		dir:     dir,
		done:    filepath.Join(dir, "done"),
		failed:  filepath.Join(dir, "failed"),
		settle:  300 * time.Millisecond,
		handler: handler,
		logger:  logger,
	}
	for _, d := range []string{w.dir, w.done, w.failed} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("could not create %s: %w", d, err)
		}
	}
	return w, nil
}

// SetSettle changes how long a file must stay unchanged before it is
// handled.
func (w *InboxWatcher) SetSettle(d time.Duration) {
	w.settle = d
}

// Run handles files already in the directory and then watches it until ctx
// is done.
func (w *InboxWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not start watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("could not watch %s: %w", w.dir, err)
	}
	w.logger.Printf("watcher: watching dir=%s", w.dir)

	pending := map[string]time.Time{}
	entries, err := readDir(w.dir)
	if err != nil {
		return fmt.Errorf("could not list %s: %w", w.dir, err)
	}
	for _, e := range entries {
		pending[filepath.Join(w.dir, e.Name())] = time.Now()
	}

	tick := w.settle / 2
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				if hidden(filepath.Base(ev.Name)) {
					continue
				}
				pending[ev.Name] = time.Now()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("watcher: watch error err=%v", err)
		case now := <-ticker.C:
			for name, seen := range pending {
				if now.Sub(seen) < w.settle {
					continue
				}
				delete(pending, name)
				w.handle(ctx, name)
			}
		}
	}
}

func (w *InboxWatcher) handle(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Printf("watcher: read failed file=%s err=%v", name, err)
		return
	}
	target := w.done
	if err := w.handler(ctx, name, data); err != nil {
		w.logger.Printf("watcher: handler failed file=%s err=%v", name, err)
		target = w.failed
	}
	if err := os.Rename(path, filepath.Join(target, name)); err != nil {
		w.logger.Printf("watcher: move failed file=%s err=%v", name, err)
	}
}

package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	slogctx "github.com/veqryn/slog-context"
)

// ChangeFunc is called after the watched file settles following a change.
type ChangeFunc func(ctx context.Context) error

// Watcher reruns a callback whenever a single file changes. Bursts of events
// (editors often write, chmod and rename in quick succession) are collapsed
// into one call after the debounce interval. Calls never overlap.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange ChangeFunc
	fs       *fsnotify.Watcher

	mu     sync.Mutex
	timer  *time.Timer
	closed bool

	// running serializes onChange; inflight lets Close wait for it.
	running  sync.Mutex
	inflight sync.WaitGroup
}

// New starts watching path. The parent directory is watched rather than the
// file itself so that editors replacing the file are still seen.
func New(path string, debounce time.Duration, onChange ChangeFunc) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		fs:       fs,
	}, nil
}

// Watch blocks, dispatching changes, until ctx is cancelled or the
// underlying watcher fails.
func (w *Watcher) Watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			slogctx.Debug(ctx, "file event", "op", event.Op.String(), "path", event.Name)
			w.schedule(ctx)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			slogctx.Error(ctx, "watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.run(ctx) })
}

// run calls onChange once any earlier call has returned.
func (w *Watcher) run(ctx context.Context) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.inflight.Add(1)
	w.mu.Unlock()
	defer w.inflight.Done()

	w.running.Lock()
	defer w.running.Unlock()

	if ctx.Err() != nil {
		return
	}
	if err := w.onChange(ctx); err != nil {
		slogctx.Error(ctx, "regeneration failed", "error", err)
	}
}

// Close stops any pending callback, waits for one already running and
// releases the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.inflight.Wait()
	return w.fs.Close()
}

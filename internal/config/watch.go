package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/postforge/internal/engine/debounce"
)

// DefaultReloadDelay is how long writes must settle before a reload.
const DefaultReloadDelay = 150 * time.Millisecond

// ChangeFunc receives a reloaded configuration, or the error that
// prevented loading it.
type ChangeFunc func(cfg *Config, err error)

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithReloadDelay sets the settle delay.
func WithReloadDelay(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.delay = d
		}
	}
}

// WithLoader sets the loader used for reloads.
func WithLoader(l *Loader) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.loader = l
		}
	}
}

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	path     string
	loader   *Loader
	delay    time.Duration
	onChange ChangeFunc

	fsw      *fsnotify.Watcher
	reload   *debounce.Debouncer[fsnotify.Op]
	closeCh  chan struct{}
	closedWg sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// Watch starts watching path. The parent directory is watched so editors
// that replace the file by rename are seen. The directory must exist.
func Watch(path string, onChange ChangeFunc, opts ...WatchOption) (*Watcher, error) {
	if path == "" {
		path = DefaultPath()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		loader:   NewLoader(),
		delay:    DefaultReloadDelay,
		onChange: onChange,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw
	w.reload = debounce.New(w.delay, func(fsnotify.Op) { w.fire() })

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	w.reload.Stop()
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) ||
				ev.Op.Has(fsnotify.Rename) || ev.Op.Has(fsnotify.Remove) {
				w.reload.Push(ev.Op)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.notify(nil, fmt.Errorf("watching %s: %w", w.path, err))
		}
	}
}

func (w *Watcher) fire() {
	cfg, err := w.loader.Load(w.path)
	w.notify(cfg, err)
}

func (w *Watcher) notify(cfg *Config, err error) {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed || w.onChange == nil {
		return
	}
	w.onChange(cfg, err)
}

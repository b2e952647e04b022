package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Gaurav-Gosain/panels/internal/events"
)

// ErrWatcherClosed is returned by Start after Close.
var ErrWatcherClosed = errors.New("config watcher is closed")

// ReloadDelay coalesces the burst of events an editor save produces.
const ReloadDelay = 150 * time.Millisecond

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	path     string
	onChange func(*UserConfig)
	onError  func(error)

	fs        *fsnotify.Watcher
	debouncer *events.Debouncer

	mu      sync.Mutex
	started bool
	closed  bool
	done    chan struct{}
}

// NewWatcher watches path. onChange receives each successfully parsed
// config and onError each failure; both run off the caller's goroutine.
func NewWatcher(path string, onChange func(*UserConfig), onError func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Editors replace the file on save, so watch the directory.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Watcher{
		path:      filepath.Clean(path),
		onChange:  onChange,
		onError:   onError,
		fs:        fw,
		debouncer: events.NewDebouncer(ReloadDelay),
		done:      make(chan struct{}),
	}, nil
}

// Start runs the event loop in a goroutine.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if w.started {
		return nil
	}
	w.started = true
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				w.debouncer.Trigger(w.reload)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.onError(fmt.Errorf("watch config: %w", err))
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		w.onError(fmt.Errorf("read config: %w", err))
		return
	}
	cfg, err := Parse(data)
	if err != nil {
		w.onError(err)
		return
	}
	w.onChange(cfg)
}

// Close stops the watcher and drops any pending reload.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	started := w.started
	w.mu.Unlock()

	err := w.fs.Close()
	if started {
		<-w.done
	}
	w.debouncer.Cancel()
	return err
}

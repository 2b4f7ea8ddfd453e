// Package watcher reports changes to the JSON file open in the viewer.
//
// fsnotify watches the file's directory, which also catches the
// write-to-temp-and-rename pattern editors use. When fsnotify is unavailable,
// or JV_FORCE_POLL is set, the file is polled by modification time and size.
// Bursts of events are debounced into one Changed event.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/jsonview/pkg/debug"
)

// DefaultPollInterval is the polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// EventKind says what happened to the watched file.
type EventKind int

const (
	Changed EventKind = iota
	Removed
	Failed
)

func (k EventKind) String() string {
	switch k {
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	default:
		return "failed"
	}
}

// Event is delivered on the Events channel.
type Event struct {
	Kind EventKind
	Path string
	Err  error // ErrFileRemoved for Removed, the cause for Failed
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher monitors one file.
type Watcher struct {
	path         string
	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool

	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	polling   bool
	lastMtime time.Time
	lastSize  int64

	mu      sync.RWMutex
	cancel  context.CancelFunc
	started bool
	events  chan Event
}

// New creates a watcher for path. Nothing is watched until Start.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:         abs,
		pollInterval: DefaultPollInterval,
		events:       make(chan Event, 4),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounce)
	return w, nil
}

// Start begins watching until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	info, err := os.Stat(w.path)
	switch {
	case err == nil:
		w.lastMtime, w.lastSize = info.ModTime(), info.Size()
	case os.IsPermission(err):
		return ErrPermission
	default:
		// Not created yet.
		w.lastMtime, w.lastSize = time.Time{}, 0
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.polling = w.forcePoll || envBool("JV_FORCE_POLL")

	if !w.polling {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			err = fsw.Add(filepath.Dir(w.path))
			if err != nil {
				fsw.Close()
			}
		}
		if err != nil {
			debug.Log("watcher: fsnotify unavailable for %s, polling: %v", w.path, err)
			w.polling = true
		} else {
			w.fsWatcher = fsw
			go w.watchFsnotify(ctx, fsw)
		}
	}
	if w.polling {
		go w.watchPolling(ctx)
	}

	w.started = true
	return nil
}

// Stop stops watching. The Events channel stays open so a receiver blocked
// on it is not woken with a zero Event.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.debouncer.Cancel()
	w.started = false
}

// Events returns the channel events are delivered on.
func (w *Watcher) Events() <-chan Event { return w.events }

// Path returns the absolute watched path.
func (w *Watcher) Path() string { return w.path }

// IsPolling reports whether the watcher fell back to polling.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// IsStarted reports whether the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// PollInterval returns the interval used in polling mode.
func (w *Watcher) PollInterval() time.Duration { return w.pollInterval }

func (w *Watcher) watchFsnotify(ctx context.Context, fsw *fsnotify.Watcher) {
	target := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove):
				// A rename-over shows up as Remove followed by Create.
				w.debouncer.Trigger(w.checkExists)
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create), ev.Has(fsnotify.Rename):
				w.debouncer.Trigger(w.checkExists)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.emit(Event{Kind: Failed, Path: w.path, Err: err})
		}
	}
}

// checkExists turns a settled burst of fsnotify events into one event.
func (w *Watcher) checkExists() {
	if _, err := os.Stat(w.path); err != nil {
		if os.IsNotExist(err) {
			w.emit(Event{Kind: Removed, Path: w.path, Err: ErrFileRemoved})
			return
		}
		w.emit(Event{Kind: Failed, Path: w.path, Err: err})
		return
	}
	w.emit(Event{Kind: Changed, Path: w.path})
}

func (w *Watcher) watchPolling(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	info, err := os.Stat(w.path)
	if err != nil {
		w.mu.Lock()
		hadFile := !w.lastMtime.IsZero()
		w.lastMtime, w.lastSize = time.Time{}, 0
		w.mu.Unlock()

		switch {
		case os.IsNotExist(err):
			if hadFile {
				w.emit(Event{Kind: Removed, Path: w.path, Err: ErrFileRemoved})
			}
		case os.IsPermission(err):
			w.emit(Event{Kind: Failed, Path: w.path, Err: ErrPermission})
		default:
			w.emit(Event{Kind: Failed, Path: w.path, Err: err})
		}
		return
	}

	w.mu.Lock()
	changed := !info.ModTime().Equal(w.lastMtime) || info.Size() != w.lastSize
	w.lastMtime, w.lastSize = info.ModTime(), info.Size()
	w.mu.Unlock()

	if changed {
		w.debouncer.Trigger(func() { w.emit(Event{Kind: Changed, Path: w.path}) })
	}
}

// emit delivers ev unless the watcher was stopped. A full channel drops the
// event; the receiver re-reads the file anyway.
func (w *Watcher) emit(ev Event) {
	if !w.IsStarted() {
		return
	}
	select {
	case w.events <- ev:
	default:
		debug.Log("watcher: dropped %s event for %s", ev.Kind, ev.Path)
	}
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

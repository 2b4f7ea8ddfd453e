package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var callCount atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { callCount.Add(1) })
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if count := callCount.Load(); count != 1 {
		t.Errorf("expected 1 callback invocation, got %d", count)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool
	d.Trigger(func() { called.Store(true) })
	d.Cancel()
	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not have been invoked after cancel")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	d := NewDebouncer(0)
	if d.Duration() != DefaultDebounceDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDebounceDuration, d.Duration())
	}
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func waitFor(t *testing.T, w *Watcher, kind EventKind) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s event", kind)
			return Event{}
		}
	}
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	path := writeDoc(t, `{"a": 1}`)

	w, err := New(path, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"a": 2}`), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitFor(t, w, Changed)
	if ev.Path != w.Path() {
		t.Errorf("expected path %s, got %s", w.Path(), ev.Path)
	}
}

func TestWatcher_PollingDetectsChange(t *testing.T) {
	path := writeDoc(t, `[]`)

	w, err := New(path,
		WithDebounce(20*time.Millisecond),
		WithPollInterval(50*time.Millisecond),
		WithForcePoll(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("expected watcher to be in polling mode")
	}
	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`[1, 2, 3]`), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, w, Changed)
}

func TestWatcher_EnvForcePolling(t *testing.T) {
	t.Setenv("JV_FORCE_POLL", "1")
	path := writeDoc(t, `{}`)

	w, err := New(path, WithPollInterval(25*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling when JV_FORCE_POLL is set")
	}
}

func TestWatcher_FileRemoved(t *testing.T) {
	path := writeDoc(t, `{}`)

	w, err := New(path,
		WithDebounce(20*time.Millisecond),
		WithPollInterval(50*time.Millisecond),
		WithForcePoll(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(20 * time.Millisecond)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	ev := waitFor(t, w, Removed)
	if ev.Err != ErrFileRemoved {
		t.Errorf("expected ErrFileRemoved, got %v", ev.Err)
	}
}

func TestWatcher_ContextCancelStopsDelivery(t *testing.T) {
	path := writeDoc(t, `{}`)

	w, err := New(path,
		WithDebounce(10*time.Millisecond),
		WithPollInterval(20*time.Millisecond),
		WithForcePoll(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	cancel()
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"late": true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		t.Errorf("expected no event after cancel, got %s", ev.Kind)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_StartStop(t *testing.T) {
	path := writeDoc(t, `{}`)

	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if w.IsStarted() {
		t.Error("watcher should not be started initially")
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !w.IsStarted() {
		t.Error("watcher should be started after Start()")
	}
	if err := w.Start(context.Background()); err != ErrAlreadyStarted {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	w.Stop()
	if w.IsStarted() {
		t.Error("watcher should not be started after Stop()")
	}
	// Double stop should be safe
	w.Stop()
}

func TestWatcher_PathAndInterval(t *testing.T) {
	path := writeDoc(t, `{}`)

	w, err := New(path, WithPollInterval(500*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	abs, _ := filepath.Abs(path)
	if w.Path() != abs {
		t.Errorf("expected path %s, got %s", abs, w.Path())
	}
	if w.PollInterval() != 500*time.Millisecond {
		t.Errorf("expected poll interval 500ms, got %v", w.PollInterval())
	}
}

func TestEventKindString(t *testing.T) {
	tests := map[EventKind]string{Changed: "changed", Removed: "removed", Failed: "failed"}
	for k, want := range tests {
		if k.String() != want {
			t.Errorf("expected %q, got %q", want, k.String())
		}
	}
}

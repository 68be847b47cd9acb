package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if n := calls.Load(); n != 1 {
		t.Errorf("expected 1 callback invocation, got %d", n)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool
	d.Trigger(func() { called.Store(true) })
	d.Cancel()

	time.Sleep(100 * time.Millisecond)
	if called.Load() {
		t.Error("callback should not run after Cancel")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	if d := NewDebouncer(0); d.Duration() != DefaultDebounceDuration {
		t.Errorf("expected %v, got %v", DefaultDebounceDuration, d.Duration())
	}
}

// nextMsg runs one WaitCmd and returns its message, failing after timeout.
func nextMsg(t *testing.T, w *Watcher, timeout time.Duration) tea.Msg {
	t.Helper()
	ch := make(chan tea.Msg, 1)
	cmd := w.WaitCmd()
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatal("watcher produced no message")
		return nil
	}
}

func polling(w *Watcher) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

func started(w *Watcher) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.json")
	writeFile(t, path, `{"analysis": []}`)

	w, err := New(path, WithDebounceDuration(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, `{"analysis": [{"course": "A"}]}`)

	msg, ok := nextMsg(t, w, time.Second).(ChangedMsg)
	if !ok {
		t.Fatalf("expected ChangedMsg, got %T", msg)
	}
	if msg.Path != w.Path() {
		t.Errorf("path = %q, want %q", msg.Path, w.Path())
	}
}

func TestWatcher_PollingFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.json")
	writeFile(t, path, "initial")

	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(30*time.Millisecond),
		WithDebounceDuration(20*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !polling(w) {
		t.Fatal("expected polling mode")
	}

	time.Sleep(50 * time.Millisecond)
	writeFile(t, path, "a longer payload than before")

	if _, ok := nextMsg(t, w, time.Second).(ChangedMsg); !ok {
		t.Fatal("polling watcher did not report the change")
	}
}

func TestWatcher_EnvForcePoll(t *testing.T) {
	t.Setenv("UNIMATCH_FORCE_POLL", "yes")
	path := filepath.Join(t.TempDir(), "insights.json")
	writeFile(t, path, "x")

	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !polling(w) {
		t.Error("UNIMATCH_FORCE_POLL should force polling")
	}
}

func TestWatcher_FileRemovedIsDelivered(t *testing.T) {
	for _, forcePoll := range []bool{true, false} {
		t.Run(fmt.Sprintf("poll=%v", forcePoll), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "insights.json")
			writeFile(t, path, "x")

			w, err := New(path,
				WithForcePoll(forcePoll),
				WithPollInterval(20*time.Millisecond),
			)
			if err != nil {
				t.Fatal(err)
			}
			if err := w.Start(); err != nil {
				t.Fatal(err)
			}
			defer w.Stop()

			time.Sleep(50 * time.Millisecond)
			if err := os.Remove(path); err != nil {
				t.Fatal(err)
			}

			msg, ok := nextMsg(t, w, 2*time.Second).(ErrorMsg)
			if !ok {
				t.Fatalf("expected ErrorMsg, got %T", msg)
			}
			if !errors.Is(msg.Err, ErrFileRemoved) {
				t.Errorf("expected ErrFileRemoved, got %v", msg.Err)
			}
		})
	}
}

func TestWatcher_MissingFileAppears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.json")

	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithDebounceDuration(10*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start on missing file: %v", err)
	}
	defer w.Stop()

	writeFile(t, path, "null")
	if _, ok := nextMsg(t, w, time.Second).(ChangedMsg); !ok {
		t.Fatal("creation was not reported")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.json")
	writeFile(t, path, "x")

	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if started(w) {
		t.Error("should not be started before Start")
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start: expected ErrAlreadyStarted, got %v", err)
	}
	w.Stop()
	w.Stop()
	if started(w) {
		t.Error("should be stopped")
	}
	if err := w.Start(); err != nil {
		t.Errorf("restart after Stop: %v", err)
	}
	w.Stop()
}

func TestWaitCmdNilWatcher(t *testing.T) {
	var w *Watcher
	if w.WaitCmd() != nil {
		t.Error("nil watcher should yield a nil command")
	}
}

func TestWatcher_PathIsAbsolute(t *testing.T) {
	w, err := New("relative.json")
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(w.Path()) {
		t.Errorf("expected absolute path, got %q", w.Path())
	}
}

func TestFSType(t *testing.T) {
	tests := []struct {
		t      FSType
		name   string
		remote bool
	}{
		{FSTypeUnknown, "unknown", false},
		{FSTypeLocal, "local", false},
		{FSTypeNFS, "nfs", true},
		{FSTypeSMB, "smb", true},
		{FSTypeFUSE, "fuse", true},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.t.IsRemote(); got != tt.remote {
			t.Errorf("%s IsRemote() = %v, want %v", tt.name, got, tt.remote)
		}
	}
}

func TestEnvBool(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " on "} {
		t.Setenv("UNIMATCH_TEST_BOOL", v)
		if !envBool("UNIMATCH_TEST_BOOL") {
			t.Errorf("envBool(%q) = false", v)
		}
	}
	for _, v := range []string{"", "0", "no", "maybe"} {
		t.Setenv("UNIMATCH_TEST_BOOL", v)
		if envBool("UNIMATCH_TEST_BOOL") {
			t.Errorf("envBool(%q) = true", v)
		}
	}
}

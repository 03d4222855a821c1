// # internal/watcher/watcher_test.go
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDebounceCollapsesEvents(t *testing.T) {
	changes := make(chan []string, 4)
	w, err := New(50*time.Millisecond, []string{"__pycache__"},
		func(path string) bool { return strings.HasSuffix(path, ".py") },
		func(paths []string) { changes <- paths })
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.scheduleChange("a.py")
	w.scheduleChange("b.py")
	w.scheduleChange("a.py")

	select {
	case paths := <-changes:
		if len(paths) != 2 {
			t.Errorf("expected 2 deduplicated paths, got %v", paths)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced flush never fired")
	}

	select {
	case paths := <-changes:
		t.Errorf("unexpected second flush: %v", paths)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchDeliversWrites(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "mod.py")

	changes := make(chan []string, 4)
	w, err := New(50*time.Millisecond, nil,
		func(path string) bool { return strings.HasSuffix(path, ".py") },
		func(paths []string) { changes <- paths })
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(root); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(target, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changes:
		found := false
		for _, p := range paths {
			if p == target {
				found = true
			}
			if strings.HasSuffix(p, ".txt") {
				t.Errorf("non-matching file delivered: %s", p)
			}
		}
		if !found {
			t.Errorf("expected %s in %v", target, paths)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change delivered")
	}
}

func TestLimiterCapsRate(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow() {
		t.Fatal("first run should be allowed")
	}
	if l.Allow() {
		t.Error("second immediate run should be limited")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
}

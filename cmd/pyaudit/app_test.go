// # cmd/pyaudit/app_test.go
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pyaudit/internal/config"
	"pyaudit/internal/history"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAppRunOnceWritesArtifacts(t *testing.T) {
	tmpDir := t.TempDir()

	os.WriteFile(filepath.Join(tmpDir, "a.py"), []byte("import b\n"), 0o644)
	os.WriteFile(filepath.Join(tmpDir, "b.py"), []byte("import a\n"), 0o644)

	cfg := config.Default()
	cfg.Root = tmpDir
	cfg.Output.JSON = filepath.Join(tmpDir, "report.json")
	cfg.Output.DOT = filepath.Join(tmpDir, "graph.dot")
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(tmpDir, "history.db")

	app, err := NewApp(cfg, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	rep, err := app.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(rep.Cycles) != 1 {
		t.Errorf("expected 1 cycle, got %d", len(rep.Cycles))
	}
	if !rep.HasFindings() {
		t.Error("cycle should trip the quality gate")
	}

	if _, err := os.Stat(cfg.Output.JSON); err != nil {
		t.Error("JSON artifact was not written")
	}
	data, err := os.ReadFile(cfg.Output.DOT)
	if err != nil {
		t.Fatal("DOT artifact was not written")
	}
	if !strings.Contains(string(data), "digraph") {
		t.Error("DOT artifact has unexpected content")
	}
}

func TestAppRunOnceRecordsSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "main.py"), []byte("x = 1\nprint(x)\n"), 0o644)

	cfg := config.Default()
	cfg.Root = tmpDir
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(tmpDir, "history.db")

	app, err := NewApp(cfg, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	rep, err := app.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Close(); err != nil {
		t.Fatal(err)
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	snaps, err := store.LoadSnapshots(filepath.Base(tmpDir), time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	if snaps[0].RunID != rep.RunID {
		t.Errorf("snapshot run id = %q, want %q", snaps[0].RunID, rep.RunID)
	}
	if snaps[0].FileCount != 1 {
		t.Errorf("snapshot file count = %d, want 1", snaps[0].FileCount)
	}
}

func TestAppHandleChangesReruns(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "main.py")
	os.WriteFile(target, []byte("x = 1\nprint(x)\n"), 0o644)

	cfg := config.Default()
	cfg.Root = tmpDir

	app, err := NewApp(cfg, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	first, err := app.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	os.WriteFile(target, []byte("x = 1\nprint(y)\n"), 0o644)
	app.HandleChanges([]string{target})

	app.mu.Lock()
	second := app.lastReport
	app.mu.Unlock()

	if second == nil || second.RunID == first.RunID {
		t.Fatal("change batch did not produce a fresh report")
	}
	if len(second.Undefined) != 1 || second.Undefined[0].Symbol != "y" {
		t.Errorf("expected undefined y after edit, got %+v", second.Undefined)
	}
}

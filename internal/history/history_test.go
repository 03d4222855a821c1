// # internal/history/history_test.go
package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"pyaudit/internal/analyzer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	store := openTestStore(t)

	snap := Snapshot{
		RunID:          uuid.NewString(),
		Timestamp:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		FileCount:      42,
		UndefinedCount: 3,
		UnusedCount:    7,
		CycleCount:     1,
		AvgInstability: 0.4,
		MaxInstability: 1.0,
		Duration:       120 * time.Millisecond,
	}
	if err := store.SaveSnapshot("myproject", snap); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadSnapshots("myproject", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(got))
	}
	if got[0].RunID != snap.RunID {
		t.Errorf("run id = %q, want %q", got[0].RunID, snap.RunID)
	}
	if got[0].FileCount != 42 || got[0].UndefinedCount != 3 || got[0].CycleCount != 1 {
		t.Errorf("counts mismatch: %+v", got[0])
	}
	if got[0].MaxInstability != 1.0 {
		t.Errorf("max instability = %v", got[0].MaxInstability)
	}
	if got[0].Duration != 120*time.Millisecond {
		t.Errorf("duration = %v", got[0].Duration)
	}
}

func TestSaveSnapshotUpsertsByRunID(t *testing.T) {
	store := openTestStore(t)

	snap := Snapshot{RunID: uuid.NewString(), Timestamp: time.Now().UTC(), FileCount: 1}
	if err := store.SaveSnapshot("", snap); err != nil {
		t.Fatal(err)
	}
	snap.FileCount = 2
	if err := store.SaveSnapshot("", snap); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadSnapshots("default", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 snapshot after upsert, got %d", len(got))
	}
	if got[0].FileCount != 2 {
		t.Errorf("file count = %d, want 2", got[0].FileCount)
	}
}

func TestLoadSnapshotsSince(t *testing.T) {
	store := openTestStore(t)

	old := Snapshot{RunID: uuid.NewString(), Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	recent := Snapshot{RunID: uuid.NewString(), Timestamp: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	for _, s := range []Snapshot{old, recent} {
		if err := store.SaveSnapshot("p", s); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.LoadSnapshots("p", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].RunID != recent.RunID {
		t.Errorf("since filter returned %d snapshots", len(got))
	}
}

func TestSaveSnapshotRequiresRunID(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveSnapshot("p", Snapshot{}); err == nil {
		t.Fatal("expected error for empty run id")
	}
}

func TestFromReport(t *testing.T) {
	r := &analyzer.Report{
		RunID:        uuid.NewString(),
		FilesScanned: 5,
		Undefined:    []analyzer.UndefinedSymbol{{Symbol: "x"}},
		Cycles:       [][]string{{"a.py", "b.py", "a.py"}},
		Coupling: []analyzer.CouplingRow{
			{Instability: 0.5},
			{Instability: 1.0},
		},
	}

	snap := FromReport(r)
	if snap.RunID != r.RunID {
		t.Error("run id not carried over")
	}
	if snap.UndefinedCount != 1 || snap.CycleCount != 1 || snap.FileCount != 5 {
		t.Errorf("counts mismatch: %+v", snap)
	}
	if snap.AvgInstability != 0.75 || snap.MaxInstability != 1.0 {
		t.Errorf("instability mismatch: %+v", snap)
	}
}

package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveRun(RunRecord{Mode: "arena", Seed: 1, Score: score, Outcome: OutcomeDied}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	if _, err := store.SaveRun(RunRecord{Mode: "extraction", Score: 500, Cash: 40, Outcome: OutcomeExtracted}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	runs, err := store.TopRuns("arena", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}
	expected := []int{200, 100, 50}
	for i, r := range runs {
		if r.Score != expected[i] {
			t.Errorf("runs[%d].Score = %d, expected %d", i, r.Score, expected[i])
		}
		if r.ID == "" {
			t.Errorf("runs[%d] has no ID", i)
		}
	}

	ext, err := store.TopRuns("extraction", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(ext) != 1 || ext[0].Cash != 40 || ext[0].Outcome != OutcomeExtracted {
		t.Errorf("extraction runs = %+v", ext)
	}
}

func TestStoreRunByID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(RunRecord{Mode: "arena", Seed: 42, Score: 7, Kills: 3, Ticks: 1234})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	r, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if r == nil {
		t.Fatal("RunByID() returned nil")
	}
	if r.Seed != 42 || r.Kills != 3 || r.Ticks != 1234 {
		t.Errorf("RunByID() = %+v", r)
	}
	if r.Outcome != OutcomeAbandoned {
		t.Errorf("Outcome = %q, expected %q", r.Outcome, OutcomeAbandoned)
	}

	missing, err := store.RunByID("nope")
	if err != nil || missing != nil {
		t.Errorf("RunByID(nope) = %v, %v, expected nil, nil", missing, err)
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 15 {
		if _, err := store.SaveRun(RunRecord{Mode: "arena", Score: i * 10}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.TopRuns("arena", 5)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 5 {
		t.Errorf("Expected 5 runs, got %d", len(runs))
	}
	if runs[0].Score != 140 {
		t.Errorf("Expected top score 140, got %d", runs[0].Score)
	}

	recent, err := store.RecentRuns(0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 15 {
		t.Errorf("Expected 15 recent runs, got %d", len(recent))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("arena")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for empty mode, got %d", high)
	}

	store.SaveRun(RunRecord{Mode: "arena", Score: 100})
	store.SaveRun(RunRecord{Mode: "arena", Score: 300})
	store.SaveRun(RunRecord{Mode: "arena", Score: 200})

	high, err = store.HighScore("arena")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score 300, got %d", high)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{Mode: "arena", Score: 100})
	store.SaveRun(RunRecord{Mode: "extraction", Score: 100})

	if err := store.ClearRuns("arena"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	runs, _ := store.TopRuns("arena", 10)
	if len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}
	runs, _ = store.TopRuns("extraction", 10)
	if len(runs) != 1 {
		t.Errorf("Expected extraction runs to survive, got %d", len(runs))
	}
}

func TestStoreModeStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{Mode: "extraction", Score: 100, Cash: 30, Outcome: OutcomeExtracted})
	store.SaveRun(RunRecord{Mode: "extraction", Score: 300, Cash: 50, Outcome: OutcomeDied})
	store.SaveRun(RunRecord{Mode: "arena", Score: 10, Outcome: OutcomeDied})

	stats, err := store.GetAllModesStats()
	if err != nil {
		t.Fatalf("GetAllModesStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected stats for 2 modes, got %d", len(stats))
	}

	ext := stats["extraction"]
	if ext.RunsCount != 2 || ext.Extracted != 1 || ext.HighScore != 300 {
		t.Errorf("extraction stats = %+v", ext)
	}
	if ext.AvgScore != 200 {
		t.Errorf("AvgScore = %v, expected 200", ext.AvgScore)
	}
	if ext.TotalCash != 80 {
		t.Errorf("TotalCash = %d, expected 80", ext.TotalCash)
	}
	if stats["arena"].Extracted != 0 {
		t.Errorf("arena Extracted = %d, expected 0", stats["arena"].Extracted)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

package storage

import (
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(ts time.Time, accuracy float64) RunRecord {
	return RunRecord{
		Timestamp:      ts,
		Rows:           891,
		Folds:          3,
		Members:        3,
		Seed:           1,
		Accuracy:       accuracy,
		FoldAccuracies: []float64{0.80, 0.78, 0.82},
		Predictions:    []int{0, 1, 1, 0},
	}
}

func TestStoreRunAndGetRuns(t *testing.T) {
	store := testStore(t)

	base := time.Now()
	for i := 0; i < 3; i++ {
		record := sampleRecord(base.Add(time.Duration(i)*time.Second), 0.78+float64(i)*0.01)
		if err := store.StoreRun(record); err != nil {
			t.Fatalf("Failed to store run %d: %v", i, err)
		}
	}

	runs, err := store.GetRuns(base.Add(-time.Second), base.Add(10*time.Second))
	if err != nil {
		t.Fatalf("Failed to get runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}

	// Cursor iteration returns oldest first.
	for i := 1; i < len(runs); i++ {
		if runs[i].Timestamp.Before(runs[i-1].Timestamp) {
			t.Error("Runs should be ordered oldest first")
		}
	}

	if runs[0].Rows != 891 || runs[0].Folds != 3 || runs[0].Members != 3 {
		t.Errorf("Run fields not round-tripped: %+v", runs[0])
	}
	if len(runs[0].FoldAccuracies) != 3 {
		t.Errorf("Expected 3 fold accuracies, got %d", len(runs[0].FoldAccuracies))
	}
}

func TestGetRunsTimeRange(t *testing.T) {
	store := testStore(t)

	base := time.Now()
	for i := 0; i < 5; i++ {
		record := sampleRecord(base.Add(time.Duration(i)*time.Minute), 0.80)
		if err := store.StoreRun(record); err != nil {
			t.Fatalf("Failed to store run: %v", err)
		}
	}

	runs, err := store.GetRuns(base.Add(time.Minute), base.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("Failed to get runs: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("Expected 3 runs in range, got %d", len(runs))
	}
}

func TestLatestRun(t *testing.T) {
	store := testStore(t)

	if _, found, err := store.LatestRun(); err != nil {
		t.Fatalf("LatestRun failed on empty store: %v", err)
	} else if found {
		t.Error("Expected no run in an empty archive")
	}

	base := time.Now()
	if err := store.StoreRun(sampleRecord(base, 0.78)); err != nil {
		t.Fatalf("Failed to store run: %v", err)
	}
	if err := store.StoreRun(sampleRecord(base.Add(time.Second), 0.81)); err != nil {
		t.Fatalf("Failed to store run: %v", err)
	}

	record, found, err := store.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if !found {
		t.Fatal("Expected a latest run")
	}
	if record.Accuracy != 0.81 {
		t.Errorf("Expected latest accuracy 0.81, got %v", record.Accuracy)
	}
}

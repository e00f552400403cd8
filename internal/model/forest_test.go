package model

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func forestTrainingData() (*mat.Dense, []float64) {
	X := mat.NewDense(8, 1, []float64{1, 2, 2, 3, 10, 11, 11, 12})
	y := []float64{1, 1, 1, 1, 5, 5, 5, 5}
	return X, y
}

func TestForest_RegressionSeparatesGroups(t *testing.T) {
	X, y := forestTrainingData()

	forest := NewForest(Regression, 50, 5, 1)
	if err := forest.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := forest.Predict(mat.NewDense(2, 1, []float64{2, 11}))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	// Bootstrap noise allows some drift, but the groups must stay apart.
	if preds[0] > 3 {
		t.Errorf("low-group prediction too high: %.4f", preds[0])
	}
	if preds[1] < 3 {
		t.Errorf("high-group prediction too low: %.4f", preds[1])
	}
}

func TestForest_ClassificationBinaryOutput(t *testing.T) {
	X, _ := forestTrainingData()
	y := []float64{0, 0, 0, 0, 1, 1, 1, 1}

	forest := NewForest(Classification, 50, 5, 1)
	if err := forest.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := forest.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i, p := range preds {
		if p != 0 && p != 1 {
			t.Errorf("row %d: classifier output must be binary, got %.4f", i, p)
		}
	}
}

func TestForest_DeterministicWithSeed(t *testing.T) {
	X, y := forestTrainingData()
	probe := mat.NewDense(3, 1, []float64{1, 6, 12})

	run := func() []float64 {
		forest := NewForest(Regression, 30, 5, 42)
		if err := forest.Fit(X, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		preds, err := forest.Predict(probe)
		if err != nil {
			t.Fatalf("Predict failed: %v", err)
		}
		return preds
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("prediction %d differs across identically seeded fits: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestForest_EmptyInput(t *testing.T) {
	forest := NewForest(Regression, 10, 5, 1)
	if err := forest.Fit(nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestForest_DimensionMismatch(t *testing.T) {
	X, y := forestTrainingData()

	forest := NewForest(Regression, 10, 5, 1)
	if err := forest.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := forest.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

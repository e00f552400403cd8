package model

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLogistic_SeparableData(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{-3, -2, -1, 1, 2, 3})
	y := []float64{0, 0, 0, 1, 1, 1}

	clf := NewLogistic(0.5, 2000, 1)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i, want := range y {
		if preds[i] != want {
			t.Errorf("row %d: expected %.0f, got %.0f", i, want, preds[i])
		}
	}
}

func TestLogistic_ProbabilitiesBounded(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{-1, 0, 0, 1, 1, 0, 2, 1})
	y := []float64{0, 0, 1, 1}

	clf := NewLogistic(0.1, 500, 1)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	probs, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	for i, p := range probs {
		if p < 0 || p > 1 {
			t.Errorf("row %d: probability out of bounds: %.6f", i, p)
		}
	}
}

func TestLogistic_DeterministicWithSeed(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{-2, -1, 1, 2})
	y := []float64{0, 0, 1, 1}

	run := func() []float64 {
		clf := NewLogistic(0.1, 200, 7)
		if err := clf.Fit(X, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		probs, err := clf.PredictProba(X)
		if err != nil {
			t.Fatalf("PredictProba failed: %v", err)
		}
		return probs
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("probability %d differs across identically seeded fits", i)
		}
	}
}

func TestLogistic_BoundaryProbabilityDecidesNo(t *testing.T) {
	// Zero weights score every row at 0, putting the probability at
	// exactly 0.5; the strict threshold maps that to class 0.
	clf := &Logistic{w: []float64{0}, b: 0}

	preds, err := clf.Predict(mat.NewDense(3, 1, []float64{-3, 0, 7}))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i, p := range preds {
		if p != 0 {
			t.Errorf("row %d: boundary probability must decide 0, got %.0f", i, p)
		}
	}
}

func TestLogistic_DimensionMismatch(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{-1, 0, 0, 1, 1, 0, 2, 1})
	y := []float64{0, 0, 1, 1}

	clf := NewLogistic(0.1, 100, 1)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := clf.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestLogistic_PredictBeforeFit(t *testing.T) {
	clf := NewLogistic(0.1, 100, 1)
	_, err := clf.Predict(mat.NewDense(1, 1, []float64{1}))
	if !errors.Is(err, ErrNotFitted) {
		t.Errorf("expected ErrNotFitted, got %v", err)
	}
}

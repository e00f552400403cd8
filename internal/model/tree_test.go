package model

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestTree_RegressionSplit(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 10, 11, 12})
	y := []float64{1, 1, 1, 5, 5, 5}

	tree := NewTree(Regression, 0, 1)
	if err := tree.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := tree.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i, want := range y {
		if math.Abs(preds[i]-want) > 1e-9 {
			t.Errorf("row %d: expected %.1f, got %.4f", i, want, preds[i])
		}
	}
}

func TestTree_ClassificationSplit(t *testing.T) {
	X := mat.NewDense(8, 2, []float64{
		0, 1,
		0, 2,
		1, 1,
		1, 2,
		5, 1,
		5, 2,
		6, 1,
		6, 2,
	})
	y := []float64{0, 0, 0, 0, 1, 1, 1, 1}

	tree := NewTree(Classification, 0, 7)
	if err := tree.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := tree.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i, want := range y {
		if preds[i] != want {
			t.Errorf("row %d: expected %.0f, got %.0f", i, want, preds[i])
		}
	}
}

func TestTree_MaxDepthLimitsGrowth(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := []float64{1, 2, 3, 4}

	tree := NewTree(Regression, 1, 1)
	if err := tree.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// Depth 1 allows a single split: at most two distinct outputs.
	preds, err := tree.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	distinct := map[float64]bool{}
	for _, p := range preds {
		distinct[p] = true
	}
	if len(distinct) > 2 {
		t.Errorf("expected at most 2 leaf values at depth 1, got %d", len(distinct))
	}
}

func TestTree_EmptyInput(t *testing.T) {
	tree := NewTree(Regression, 0, 1)
	if err := tree.Fit(mat.NewDense(1, 1, []float64{1}), nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for mismatched targets, got %v", err)
	}
}

func TestTree_DimensionMismatch(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{1, 0, 2, 0, 3, 1, 4, 1})
	y := []float64{1, 2, 3, 4}

	tree := NewTree(Regression, 0, 1)
	if err := tree.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := tree.Predict(mat.NewDense(2, 3, []float64{1, 0, 0, 2, 0, 0}))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestTree_PredictBeforeFit(t *testing.T) {
	tree := NewTree(Regression, 0, 1)
	_, err := tree.Predict(mat.NewDense(1, 1, []float64{1}))
	if !errors.Is(err, ErrNotFitted) {
		t.Errorf("expected ErrNotFitted, got %v", err)
	}
}

// Package model provides the predictive models used by the survival
// pipeline. All models share one contract: Fit learns from a feature
// matrix and a target vector, Predict maps a feature matrix of the same
// width to one output per row. Classifiers emit values in {0, 1},
// regressors emit continuous values. The age-filling regressor and the
// survival classifiers are both instances of this contract.
package model

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidInput is returned when Fit or Predict receives an empty
	// matrix, or when targets and rows disagree in length.
	ErrInvalidInput = errors.New("model: invalid input")

	// ErrDimensionMismatch is returned when a predict-time column count
	// disagrees with the column count seen during Fit.
	ErrDimensionMismatch = errors.New("model: dimension mismatch")

	// ErrNotFitted is returned when Predict is called before Fit.
	ErrNotFitted = errors.New("model: not fitted")
)

// Model is the shared fit/predict contract.
type Model interface {
	Fit(X *mat.Dense, y []float64) error
	Predict(X *mat.Dense) ([]float64, error)
}

// Task selects what a tree-based model optimizes for.
type Task int

const (
	Regression Task = iota
	Classification
)

// checkFit validates the inputs common to every Fit implementation.
func checkFit(X *mat.Dense, y []float64) (rows, cols int, err error) {
	if X == nil {
		return 0, 0, ErrInvalidInput
	}
	rows, cols = X.Dims()
	if rows == 0 || cols == 0 {
		return 0, 0, ErrInvalidInput
	}
	if len(y) != rows {
		return 0, 0, ErrInvalidInput
	}
	return rows, cols, nil
}

// checkPredict validates a predict-time matrix against the fitted width.
func checkPredict(X *mat.Dense, fittedCols int) (rows int, err error) {
	if fittedCols == 0 {
		return 0, ErrNotFitted
	}
	if X == nil {
		return 0, ErrInvalidInput
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return 0, ErrInvalidInput
	}
	if cols != fittedCols {
		return 0, ErrDimensionMismatch
	}
	return rows, nil
}

package crossval

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"titanic-ml/internal/model"
)

// MetricsInterface defines the metrics methods needed by the evaluator.
type MetricsInterface interface {
	ModelFitsInc()
	PredictionsAdd(float64)
	FoldAccuracyObserve(float64)
	CVAccuracySet(float64)
}

// Ensemble combines independently configured classifiers. Each member's
// binary outputs are averaged elementwise and thresholded at 0.5; an
// average of exactly 0.5 decides "no" (0). Members are re-fit on every
// fold during cross-validation and once on the full set for final
// training, never incrementally updated.
type Ensemble struct {
	members []model.Model
	metrics MetricsInterface
}

// Result holds the outcome of a cross-validation run. Predictions are
// concatenated in original row order.
type Result struct {
	Accuracy       float64
	FoldAccuracies []float64
	Predictions    []float64
}

// NewEnsemble builds an ensemble over the given members.
func NewEnsemble(members []model.Model) *Ensemble {
	return NewEnsembleWithMetrics(members, nil)
}

// NewEnsembleWithMetrics attaches a metrics sink; nil disables tracking.
func NewEnsembleWithMetrics(members []model.Model, metrics MetricsInterface) *Ensemble {
	return &Ensemble{members: members, metrics: metrics}
}

// CrossValidate fits every member on each fold's training rows, predicts
// its test rows, and combines the member outputs into one binary
// prediction per row. Accuracy is 1 − Σ|prediction − label| / N, which
// for binary labels equals plain 0/1 accuracy.
func (e *Ensemble) CrossValidate(X *mat.Dense, y []float64, folds []Fold) (Result, error) {
	if len(e.members) == 0 {
		return Result{}, fmt.Errorf("ensemble has no members")
	}
	rows, _ := X.Dims()
	if len(y) != rows {
		return Result{}, fmt.Errorf("labels length %d does not match %d rows", len(y), rows)
	}
	if len(folds) == 0 {
		return Result{}, fmt.Errorf("no folds to evaluate")
	}

	result := Result{
		Predictions:    make([]float64, rows),
		FoldAccuracies: make([]float64, 0, len(folds)),
	}

	for f, fold := range folds {
		trainX := takeRows(X, fold.Train)
		trainY := takeValues(y, fold.Train)
		testX := takeRows(X, fold.Test)

		combined, err := e.fitPredict(trainX, trainY, testX)
		if err != nil {
			return Result{}, fmt.Errorf("fold %d: %w", f, err)
		}

		var wrong float64
		for k, i := range fold.Test {
			result.Predictions[i] = combined[k]
			wrong += math.Abs(combined[k] - y[i])
		}
		foldAcc := 1 - wrong/float64(len(fold.Test))
		result.FoldAccuracies = append(result.FoldAccuracies, foldAcc)

		if e.metrics != nil {
			e.metrics.FoldAccuracyObserve(foldAcc)
		}

		log.Info().
			Int("fold", f).
			Int("train_rows", len(fold.Train)).
			Int("test_rows", len(fold.Test)).
			Float64("accuracy", foldAcc).
			Msg("Fold evaluated")
	}

	var wrong float64
	for i := range y {
		wrong += math.Abs(result.Predictions[i] - y[i])
	}
	result.Accuracy = 1 - wrong/float64(rows)

	if e.metrics != nil {
		e.metrics.CVAccuracySet(result.Accuracy)
	}

	return result, nil
}

// Fit trains every member once on the full feature matrix; no accuracy
// is computed.
func (e *Ensemble) Fit(X *mat.Dense, y []float64) error {
	if len(e.members) == 0 {
		return fmt.Errorf("ensemble has no members")
	}
	for m, member := range e.members {
		if err := member.Fit(X, y); err != nil {
			return fmt.Errorf("member %d: %w", m, err)
		}
		if e.metrics != nil {
			e.metrics.ModelFitsInc()
		}
	}
	return nil
}

// Predict averages the fitted members' binary outputs and thresholds at
// 0.5. Strictly greater than 0.5 decides 1, everything else 0.
func (e *Ensemble) Predict(X *mat.Dense) ([]float64, error) {
	if len(e.members) == 0 {
		return nil, fmt.Errorf("ensemble has no members")
	}
	rows, _ := X.Dims()
	sum := make([]float64, rows)

	for m, member := range e.members {
		preds, err := member.Predict(X)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", m, err)
		}
		for i, p := range preds {
			sum[i] += p
		}
	}

	out := make([]float64, rows)
	n := float64(len(e.members))
	for i := range sum {
		if sum[i]/n > 0.5 {
			out[i] = 1
		}
	}

	if e.metrics != nil {
		e.metrics.PredictionsAdd(float64(rows))
	}
	return out, nil
}

func (e *Ensemble) fitPredict(trainX *mat.Dense, trainY []float64, testX *mat.Dense) ([]float64, error) {
	for m, member := range e.members {
		if err := member.Fit(trainX, trainY); err != nil {
			return nil, fmt.Errorf("member %d fit: %w", m, err)
		}
		if e.metrics != nil {
			e.metrics.ModelFitsInc()
		}
	}
	return e.Predict(testX)
}

func takeRows(X *mat.Dense, idx []int) *mat.Dense {
	_, cols := X.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	for k, i := range idx {
		out.SetRow(k, X.RawRowView(i))
	}
	return out
}

func takeValues(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = y[i]
	}
	return out
}

// Package features derives the fixed-width numeric feature matrix the
// classifiers consume from raw passenger records, filling missing values
// along the way. The age gap is filled by an auxiliary bagged-tree
// regression model trained on the records where age is present.
package features

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"titanic-ml/internal/dataset"
	"titanic-ml/internal/model"
)

// ErrEmptyPartition is returned when every record is missing its age:
// the auxiliary regressor has nothing to train on. This is a fatal
// configuration error, never silently defaulted.
var ErrEmptyPartition = errors.New("features: no complete records to train age imputer")

// MetricsInterface defines the metrics methods needed by the imputer.
type MetricsInterface interface {
	ImputationsInc()
	ImputedAgesAdd(float64)
}

// AgeImputer fills missing ages with predictions from a bagged-tree
// regression over {SibSp, Parch, Fare, Pclass}. The model is trained
// fresh on every call and not reused downstream.
type AgeImputer struct {
	Trees    int
	MaxDepth int
	Seed     int64
	metrics  MetricsInterface
}

// NewAgeImputer returns an imputer building a forest of the given size.
func NewAgeImputer(trees, maxDepth int, seed int64) *AgeImputer {
	return NewAgeImputerWithMetrics(trees, maxDepth, seed, nil)
}

// NewAgeImputerWithMetrics attaches a metrics sink; nil disables tracking.
func NewAgeImputerWithMetrics(trees, maxDepth int, seed int64, metrics MetricsInterface) *AgeImputer {
	return &AgeImputer{Trees: trees, MaxDepth: maxDepth, Seed: seed, metrics: metrics}
}

// regression features per record: SibSp, Parch, Fare, Pclass
const imputerFeatures = 4

// Fill writes a predicted age into every record whose age is missing,
// leaving present ages and all other attributes untouched, and returns
// the fitted regressor. When no age is missing it returns (nil, nil)
// without fitting: calling the regressor with zero rows is undefined and
// is avoided by construction. Fare must already be filled.
func (ai *AgeImputer) Fill(passengers []dataset.Passenger) (model.Model, error) {
	var complete, incomplete []int
	for i := range passengers {
		if math.IsNaN(passengers[i].Age) {
			incomplete = append(incomplete, i)
		} else {
			complete = append(complete, i)
		}
	}

	if len(incomplete) == 0 {
		return nil, nil
	}
	if len(complete) == 0 {
		return nil, ErrEmptyPartition
	}

	X := imputerMatrix(passengers, complete)
	y := make([]float64, len(complete))
	for k, i := range complete {
		y[k] = passengers[i].Age
	}

	reg := model.NewForest(model.Regression, ai.Trees, ai.MaxDepth, ai.Seed)
	if err := reg.Fit(X, y); err != nil {
		return nil, fmt.Errorf("failed to fit age regressor: %w", err)
	}

	preds, err := reg.Predict(imputerMatrix(passengers, incomplete))
	if err != nil {
		return nil, fmt.Errorf("failed to predict missing ages: %w", err)
	}
	for k, i := range incomplete {
		passengers[i].Age = preds[k]
	}

	if ai.metrics != nil {
		ai.metrics.ImputationsInc()
		ai.metrics.ImputedAgesAdd(float64(len(incomplete)))
	}

	log.Debug().
		Int("complete", len(complete)).
		Int("imputed", len(incomplete)).
		Int("trees", ai.Trees).
		Msg("Missing ages imputed")

	return reg, nil
}

func imputerMatrix(passengers []dataset.Passenger, idx []int) *mat.Dense {
	X := mat.NewDense(len(idx), imputerFeatures, nil)
	for k, i := range idx {
		p := passengers[i]
		X.SetRow(k, []float64{
			float64(p.SibSp),
			float64(p.Parch),
			p.Fare,
			float64(p.Pclass),
		})
	}
	return X
}

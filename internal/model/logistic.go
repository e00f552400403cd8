package model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Logistic is a binary logistic regression classifier trained with
// full-batch gradient descent. Weights are initialized from a seeded
// source so a fixed Seed reproduces the same fit.
type Logistic struct {
	LearningRate float64
	Epochs       int
	Seed         int64

	w []float64
	b float64
}

// NewLogistic returns a classifier with the given training schedule.
func NewLogistic(learningRate float64, epochs int, seed int64) *Logistic {
	return &Logistic{LearningRate: learningRate, Epochs: epochs, Seed: seed}
}

func (m *Logistic) Fit(X *mat.Dense, y []float64) error {
	rows, cols, err := checkFit(X, y)
	if err != nil {
		return err
	}
	if m.LearningRate <= 0 {
		m.LearningRate = 0.1
	}
	if m.Epochs <= 0 {
		m.Epochs = 500
	}

	rnd := rand.New(rand.NewSource(m.Seed))
	m.w = make([]float64, cols)
	for i := range m.w {
		m.w[i] = rnd.NormFloat64() * 0.01
	}
	m.b = 0

	grad := make([]float64, cols)
	n := float64(rows)

	for epoch := 0; epoch < m.Epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradB float64

		for i := 0; i < rows; i++ {
			row := X.RawRowView(i)
			d := sigmoid(m.score(row)) - y[i]
			for j, v := range row {
				grad[j] += d * v
			}
			gradB += d
		}

		for j := range m.w {
			m.w[j] -= m.LearningRate * grad[j] / n
		}
		m.b -= m.LearningRate * gradB / n
	}
	return nil
}

// Predict returns one binary label per row. The threshold is strict:
// a probability of exactly 0.5 maps to class 0.
func (m *Logistic) Predict(X *mat.Dense) ([]float64, error) {
	probs, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	for i, p := range probs {
		if p > 0.5 {
			probs[i] = 1
		} else {
			probs[i] = 0
		}
	}
	return probs, nil
}

// PredictProba returns the positive-class probability per row.
func (m *Logistic) PredictProba(X *mat.Dense) ([]float64, error) {
	rows, err := checkPredict(X, len(m.w))
	if err != nil {
		return nil, err
	}
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = sigmoid(m.score(X.RawRowView(i)))
	}
	return out, nil
}

func (m *Logistic) score(row []float64) float64 {
	s := m.b
	for j, v := range row {
		s += m.w[j] * v
	}
	return s
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

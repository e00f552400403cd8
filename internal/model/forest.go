package model

import (
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Forest is a bagged ensemble of decision trees. Each tree is trained on
// a bootstrap sample drawn with a per-tree seeded source, so a fixed
// Seed yields an identical forest on every Fit. With Task == Regression
// the prediction is the mean of the tree outputs; with Classification
// the tree votes are averaged and thresholded at 0.5.
type Forest struct {
	Task            Task
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	Seed            int64

	trees     []*Tree
	nFeatures int
}

// NewForest returns a forest with the given task, size and seed.
func NewForest(task Task, trees, maxDepth int, seed int64) *Forest {
	return &Forest{
		Task:            task,
		Trees:           trees,
		MaxDepth:        maxDepth,
		MinSamplesSplit: 2,
		Seed:            seed,
	}
}

func (f *Forest) Fit(X *mat.Dense, y []float64) error {
	rows, cols, err := checkFit(X, y)
	if err != nil {
		return err
	}
	if f.Trees <= 0 {
		f.Trees = 100
	}
	f.nFeatures = cols
	f.trees = make([]*Tree, f.Trees)

	var wg sync.WaitGroup
	errCh := make(chan error, f.Trees)

	for i := 0; i < f.Trees; i++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()

			// Per-tree source keeps bootstrap draws independent of
			// scheduling order.
			rnd := rand.New(rand.NewSource(f.Seed + int64(k)))

			Xb := mat.NewDense(rows, cols, nil)
			yb := make([]float64, rows)
			for j := 0; j < rows; j++ {
				src := rnd.Intn(rows)
				Xb.SetRow(j, X.RawRowView(src))
				yb[j] = y[src]
			}

			tree := &Tree{
				Task:            f.Task,
				MaxDepth:        f.MaxDepth,
				MinSamplesSplit: f.MinSamplesSplit,
				MaxFeatures:     f.MaxFeatures,
				Seed:            f.Seed + int64(k),
			}
			if err := tree.Fit(Xb, yb); err != nil {
				errCh <- err
				return
			}
			f.trees[k] = tree
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			f.trees = nil
			return err
		}
	}
	return nil
}

func (f *Forest) Predict(X *mat.Dense) ([]float64, error) {
	rows, err := checkPredict(X, f.nFeatures)
	if err != nil {
		return nil, err
	}
	if len(f.trees) == 0 {
		return nil, ErrNotFitted
	}

	sum := make([]float64, rows)
	for _, tree := range f.trees {
		preds, err := tree.Predict(X)
		if err != nil {
			return nil, err
		}
		for i, p := range preds {
			sum[i] += p
		}
	}

	out := make([]float64, rows)
	m := float64(len(f.trees))
	for i := range sum {
		avg := sum[i] / m
		if f.Task == Classification {
			if avg > 0.5 {
				out[i] = 1
			} else {
				out[i] = 0
			}
		} else {
			out[i] = avg
		}
	}
	return out, nil
}

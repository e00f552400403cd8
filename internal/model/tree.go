package model

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Tree is a CART decision tree. With Task == Regression it minimizes
// within-node variance and predicts the leaf mean; with Classification
// it minimizes Gini impurity over binary labels and predicts the leaf
// majority class.
type Tree struct {
	Task            Task
	MaxDepth        int   // 0 means unlimited
	MinSamplesSplit int   // below this a node becomes a leaf
	MaxFeatures     int   // features examined per split, 0 means all
	Seed            int64 // feature subsampling seed

	root      *treeNode
	nFeatures int
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// NewTree returns a tree with the given task and sensible defaults.
func NewTree(task Task, maxDepth int, seed int64) *Tree {
	return &Tree{
		Task:            task,
		MaxDepth:        maxDepth,
		MinSamplesSplit: 2,
		Seed:            seed,
	}
}

func (t *Tree) Fit(X *mat.Dense, y []float64) error {
	rows, cols, err := checkFit(X, y)
	if err != nil {
		return err
	}
	if t.MinSamplesSplit < 2 {
		t.MinSamplesSplit = 2
	}
	t.nFeatures = cols

	idx := make([]int, rows)
	for i := range idx {
		idx[i] = i
	}
	rnd := rand.New(rand.NewSource(t.Seed))
	t.root = t.build(X, y, idx, 0, rnd)
	return nil
}

func (t *Tree) Predict(X *mat.Dense) ([]float64, error) {
	rows, err := checkPredict(X, t.nFeatures)
	if err != nil {
		return nil, err
	}
	if t.root == nil {
		return nil, ErrNotFitted
	}
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		n := t.root
		for !n.leaf {
			if X.At(i, n.feature) < n.threshold {
				n = n.left
			} else {
				n = n.right
			}
		}
		out[i] = n.value
	}
	return out, nil
}

func (t *Tree) build(X *mat.Dense, y []float64, idx []int, depth int, rnd *rand.Rand) *treeNode {
	n := &treeNode{value: t.leafValue(y, idx)}

	if len(idx) < t.MinSamplesSplit ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) ||
		t.impurity(y, idx) <= 1e-7 {
		n.leaf = true
		return n
	}

	feature, threshold, ok := t.bestSplit(X, y, idx, rnd)
	if !ok {
		n.leaf = true
		return n
	}

	var left, right []int
	for _, i := range idx {
		if X.At(i, feature) < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		n.leaf = true
		return n
	}

	n.feature = feature
	n.threshold = threshold
	n.left = t.build(X, y, left, depth+1, rnd)
	n.right = t.build(X, y, right, depth+1, rnd)
	return n
}

// bestSplit scans candidate features for the threshold with the largest
// impurity reduction. Thresholds are midpoints between consecutive
// distinct feature values; rows with value below the threshold go left.
func (t *Tree) bestSplit(X *mat.Dense, y []float64, idx []int, rnd *rand.Rand) (int, float64, bool) {
	features := make([]int, t.nFeatures)
	for i := range features {
		features[i] = i
	}
	maxFeatures := t.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > t.nFeatures {
		maxFeatures = t.nFeatures
	}
	if maxFeatures < t.nFeatures {
		rnd.Shuffle(len(features), func(i, j int) {
			features[i], features[j] = features[j], features[i]
		})
		features = features[:maxFeatures]
	}

	type pair struct{ x, y float64 }
	pairs := make([]pair, len(idx))

	parent := t.impurity(y, idx)
	total := float64(len(idx))

	bestGain := 1e-10
	bestFeature, bestThreshold := -1, 0.0

	for _, f := range features {
		for k, i := range idx {
			pairs[k] = pair{X.At(i, f), y[i]}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].x < pairs[b].x })
		if pairs[len(pairs)-1].x <= pairs[0].x+1e-12 {
			continue // constant feature
		}

		// Running sums for the left partition; the right partition is
		// derived from the totals.
		var sumAll, sumSqAll float64
		for _, p := range pairs {
			sumAll += p.y
			sumSqAll += p.y * p.y
		}

		var sumL, sumSqL float64
		for k := 0; k < len(pairs)-1; k++ {
			sumL += pairs[k].y
			sumSqL += pairs[k].y * pairs[k].y
			if pairs[k+1].x <= pairs[k].x+1e-12 {
				continue // not a distinct boundary
			}

			nL := float64(k + 1)
			nR := total - nL
			impL := t.partitionImpurity(sumL, sumSqL, nL)
			impR := t.partitionImpurity(sumAll-sumL, sumSqAll-sumSqL, nR)
			gain := parent - (nL/total)*impL - (nR/total)*impR
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (pairs[k].x + pairs[k+1].x) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

// partitionImpurity computes impurity from running sums. For regression
// this is the variance; for binary classification sum equals the count
// of ones, giving the Gini index 2p(1-p).
func (t *Tree) partitionImpurity(sum, sumSq, n float64) float64 {
	if n == 0 {
		return 0
	}
	if t.Task == Classification {
		p := sum / n
		return 2 * p * (1 - p)
	}
	mean := sum / n
	v := sumSq/n - mean*mean
	if v < 0 {
		v = 0
	}
	return v
}

func (t *Tree) impurity(y []float64, idx []int) float64 {
	var sum, sumSq float64
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	return t.partitionImpurity(sum, sumSq, float64(len(idx)))
}

// leafValue is the mean target for regression, the majority class for
// classification.
func (t *Tree) leafValue(y []float64, idx []int) float64 {
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	mean := sum / float64(len(idx))
	if t.Task == Classification {
		if mean > 0.5 {
			return 1
		}
		return 0
	}
	if math.IsNaN(mean) {
		return 0
	}
	return mean
}

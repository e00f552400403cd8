// Package crossval partitions row indices into folds and drives the
// per-fold training and evaluation of the classifier ensemble.
package crossval

import (
	"fmt"
)

// Fold is one train/test split of the full index range. Across all
// folds the test sets are pairwise disjoint and cover every index
// exactly once; each train set is the complement of its test set.
type Fold struct {
	Train []int
	Test  []int
}

// Partition splits the indices {0, ..., n-1} into k folds. Shuffling is
// disabled: fold boundaries follow original record order, with the first
// n%k folds one element larger. The seed takes no part in the assignment
// while shuffling is off; it is kept in the signature so a configured
// seed is carried alongside the fold count and the output stays a pure
// function of (n, k, seed).
func Partition(n, k int, seed int64) ([]Fold, error) {
	_ = seed

	if k < 2 {
		return nil, fmt.Errorf("fold count must be at least 2, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("cannot split %d rows into %d folds", n, k)
	}

	folds := make([]Fold, k)
	base := n / k
	extra := n % k

	start := 0
	for f := 0; f < k; f++ {
		size := base
		if f < extra {
			size++
		}
		stop := start + size

		test := make([]int, 0, size)
		train := make([]int, 0, n-size)
		for i := 0; i < n; i++ {
			if i >= start && i < stop {
				test = append(test, i)
			} else {
				train = append(train, i)
			}
		}
		folds[f] = Fold{Train: train, Test: test}
		start = stop
	}

	return folds, nil
}

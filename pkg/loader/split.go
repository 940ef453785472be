package loader

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

var (
	ErrFolds       = errors.New("loader: need at least 2 folds")
	ErrSmallClass  = errors.New("loader: class has fewer rows than folds")
	ErrNoRows      = errors.New("loader: no rows to split")
	ErrBadFraction = errors.New("loader: test fraction must be in (0, 1)")
)

// Fold holds the row indices of one cross-validation split. Both slices are
// sorted ascending.
type Fold struct {
	Train []int
	Valid []int
}

// StratifiedKFold partitions the rows of y into k folds so that every fold
// keeps roughly the class ratio of y. The same seed always yields the same
// folds. Every row lands in exactly one validation set.
func StratifiedKFold(y []int, k int, seed int64) ([]Fold, error) {
	assign, err := FoldAssignment(y, k, seed)
	if err != nil {
		return nil, err
	}
	folds := make([]Fold, k)
	for i, f := range assign {
		folds[f].Valid = append(folds[f].Valid, i)
		for g := range folds {
			if g != f {
				folds[g].Train = append(folds[g].Train, i)
			}
		}
	}
	return folds, nil
}

// FoldAssignment returns, for every row, the index of the fold whose
// validation set holds it.
func FoldAssignment(y []int, k int, seed int64) ([]int, error) {
	if k < 2 {
		return nil, ErrFolds
	}
	if len(y) == 0 {
		return nil, ErrNoRows
	}
	byClass := classIndices(y)
	for _, c := range sortedKeys(byClass) {
		if len(byClass[c]) < k {
			return nil, fmt.Errorf("%w: class %d has %d rows, %d folds", ErrSmallClass, c, len(byClass[c]), k)
		}
	}

	rnd := rand.New(rand.NewSource(seed))
	assign := make([]int, len(y))
	next := 0
	for _, c := range sortedKeys(byClass) {
		idx := byClass[c]
		rnd.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		// continue the round robin across classes so fold sizes differ by at most one
		for _, i := range idx {
			assign[i] = next % k
			next++
		}
	}
	return assign, nil
}

// StratifiedSplit holds out roughly testFraction of every class.
func StratifiedSplit(y []int, testFraction float64, seed int64) (train, test []int, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, ErrBadFraction
	}
	if len(y) == 0 {
		return nil, nil, ErrNoRows
	}
	rnd := rand.New(rand.NewSource(seed))
	byClass := classIndices(y)
	for _, c := range sortedKeys(byClass) {
		idx := byClass[c]
		rnd.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		nTest := int(float64(len(idx))*testFraction + 0.5)
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

// Take gathers the rows of X listed in idx without copying them.
func Take(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for k, i := range idx {
		out[k] = X[i]
	}
	return out
}

// TakeInts gathers y[idx].
func TakeInts(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for k, i := range idx {
		out[k] = y[i]
	}
	return out
}

func classIndices(y []int) map[int][]int {
	byClass := make(map[int][]int)
	for i, v := range y {
		byClass[v] = append(byClass[v], i)
	}
	return byClass
}

func sortedKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for c := range m {
		keys = append(keys, c)
	}
	sort.Ints(keys)
	return keys
}

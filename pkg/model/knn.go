package model

import (
	"math"
	"runtime"
	"sort"
	"sync"
)

// KNN is a lazy nearest-neighbour classifier. PredictProba is the
// inverse-distance weighted share of positive labels among the K nearest
// training rows.
type KNN struct {
	K int
	X [][]float64
	y []int
}

func NewKNN(k int) *KNN {
	return &KNN{K: k}
}

// Fit stores the training rows.
func (m *KNN) Fit(X [][]float64, y []int) error {
	if _, err := checkXY(X, y); err != nil {
		return err
	}
	m.X = X
	m.y = y
	return nil
}

// PredictProba splits the query rows across GOMAXPROCS workers.
func (m *KNN) PredictProba(X [][]float64) ([]float64, error) {
	if m.X == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(m.X[0])); err != nil {
		return nil, err
	}

	out := make([]float64, len(X))
	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, len(X))
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				out[i] = m.predictSingle(X[i])
			}
		}(start, end)
	}

	wg.Wait()
	return out, nil
}

func (m *KNN) predictSingle(xi []float64) float64 {
	type pair struct {
		d float64
		v int
	}
	k := max(min(m.K, len(m.X)), 1)

	// sorted window of the k closest rows seen so far
	nbrs := make([]pair, 0, k+1)
	for j, xj := range m.X {
		d := euclidSquared(xi, xj)
		if len(nbrs) == k && d >= nbrs[k-1].d {
			continue
		}
		pos := sort.Search(len(nbrs), func(a int) bool { return nbrs[a].d > d })
		nbrs = append(nbrs, pair{})
		copy(nbrs[pos+1:], nbrs[pos:])
		nbrs[pos] = pair{d: d, v: m.y[j]}
		if len(nbrs) > k {
			nbrs = nbrs[:k]
		}
	}

	// an exact match decides on its own
	for _, p := range nbrs {
		if p.d == 0 {
			exact, hits := 0.0, 0.0
			for _, q := range nbrs {
				if q.d == 0 {
					hits++
					exact += float64(q.v)
				}
			}
			return exact / hits
		}
	}

	num, den := 0.0, 0.0
	for _, p := range nbrs {
		w := 1 / math.Sqrt(p.d)
		num += w * float64(p.v)
		den += w
	}
	return num / den
}

// euclidSquared avoids the square root during neighbour comparisons.
func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

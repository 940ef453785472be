package model

import (
	"math/rand"

	"github.com/GeekyRiolu/personality-prediction/pkg/NeuralNetwork"
)

// GradientBoosting is a binary gradient-boosted tree ensemble on the
// logistic loss.
type GradientBoosting struct {
	NEstimators    int
	LearningRate   float64
	MaxDepth       int
	MinSamplesLeaf int
	Subsample      float64 // fraction of rows per round, 1 => all
	RandomState    int64

	base        float64
	trees       []*regressionTree
	nFeatures   int
	importances []float64
}

func NewGradientBoosting(nEstimators int, lr float64, maxDepth int, seed int64) *GradientBoosting {
	return &GradientBoosting{
		NEstimators:    nEstimators,
		LearningRate:   lr,
		MaxDepth:       maxDepth,
		MinSamplesLeaf: 5,
		Subsample:      0.8,
		RandomState:    seed,
	}
}

func (m *GradientBoosting) Fit(X [][]float64, y []int) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	n := len(X)
	pos := positives(y)
	if pos == 0 || pos == n {
		return ErrOneClass
	}
	m.nFeatures = p
	m.importances = make([]float64, p)
	m.base = NeuralNetwork.Logit(float64(pos) / float64(n))
	m.trees = m.trees[:0]

	rnd := rand.New(rand.NewSource(m.RandomState))
	raw := make([]float64, n)
	for i := range raw {
		raw[i] = m.base
	}
	grad := make([]float64, n)
	hess := make([]float64, n)
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	for round := 0; round < m.NEstimators; round++ {
		for i := range raw {
			pr := NeuralNetwork.Sigmoid(raw[i])
			grad[i] = float64(y[i]) - pr
			hess[i] = pr * (1 - pr)
		}
		idx := all
		if m.Subsample > 0 && m.Subsample < 1 {
			perm := rnd.Perm(n)
			idx = perm[:max(1, int(m.Subsample*float64(n)))]
		}
		tree := &regressionTree{maxDepth: m.MaxDepth, minLeaf: max(1, m.MinSamplesLeaf)}
		tree.fit(X, grad, hess, idx, m.importances)
		for i := range raw {
			raw[i] += m.LearningRate * tree.predict(X[i])
		}
		m.trees = append(m.trees, tree)
	}
	return nil
}

func (m *GradientBoosting) PredictProba(X [][]float64) ([]float64, error) {
	if m.trees == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, m.nFeatures); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, x := range X {
		s := m.base
		for _, t := range m.trees {
			s += m.LearningRate * t.predict(x)
		}
		out[i] = NeuralNetwork.Sigmoid(s)
	}
	return out, nil
}

func (m *GradientBoosting) FeatureImportances() []float64 {
	out := append([]float64(nil), m.importances...)
	total := 0.0
	for _, v := range out {
		total += v
	}
	if total > 0 {
		for j := range out {
			out[j] /= total
		}
	}
	return out
}

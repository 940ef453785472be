package model

import (
	"math/rand"

	"github.com/GeekyRiolu/personality-prediction/pkg/NeuralNetwork"
	"github.com/GeekyRiolu/personality-prediction/pkg/data"
	"github.com/GeekyRiolu/personality-prediction/pkg/optim"
)

// LinearSVM is a soft-margin linear SVM trained by subgradient descent on
// the hinge loss. It only produces decision values; wrap it in
// PlattCalibrated for probabilities.
type LinearSVM struct {
	Lambda      float64 // L2 regularisation strength
	Lr          float64
	Epochs      int
	BatchSize   int
	RandomState int64

	W []float64
	B float64
}

func NewLinearSVM(lambda, lr float64, epochs, batchSize int, seed int64) *LinearSVM {
	return &LinearSVM{Lambda: lambda, Lr: lr, Epochs: epochs, BatchSize: batchSize, RandomState: seed}
}

func (m *LinearSVM) Fit(X [][]float64, y []int) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	signed := make([]float64, len(y))
	for i, v := range y {
		signed[i] = float64(2*v - 1)
	}
	m.W = make([]float64, p)
	m.B = 0
	rnd := rand.New(rand.NewSource(m.RandomState))

	for ep := 0; ep < m.Epochs; ep++ {
		// decaying step keeps the subgradient method from oscillating
		lr := m.Lr / (1 + float64(ep)*0.1)
		opt := &optim.SGD{LearningRate: lr, L2: m.Lambda}
		batches, _ := data.Batches(X, signed, m.BatchSize, rnd)
		for batch := range batches {
			scores := linearScores(batch.X, m.W, m.B)
			_, g := NeuralNetwork.Hinge(batch.Y, scores)
			opt.Step(m.W, linearGradient(batch.X, g))
			gb := 0.0
			for _, v := range g {
				gb += v
			}
			m.B -= lr * gb
		}
	}
	return nil
}

func (m *LinearSVM) DecisionFunction(X [][]float64) ([]float64, error) {
	if m.W == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(m.W)); err != nil {
		return nil, err
	}
	return linearScores(X, m.W, m.B), nil
}

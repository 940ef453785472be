package model

import (
	"math/rand"

	"github.com/GeekyRiolu/personality-prediction/pkg/NeuralNetwork"
	"github.com/GeekyRiolu/personality-prediction/pkg/data"
	"github.com/GeekyRiolu/personality-prediction/pkg/optim"
	"github.com/GeekyRiolu/personality-prediction/pkg/stats"
)

// LogisticRegression is a binary logistic model trained with mini-batch SGD
// and L2 weight decay.
type LogisticRegression struct {
	W           []float64
	B           float64
	Lr          float64
	Epochs      int
	BatchSize   int
	L2          float64
	RandomState int64
}

// NewLogisticRegression stores the hyperparameters; weights are sized on Fit.
func NewLogisticRegression(lr float64, epochs, batchSize int, seed int64) *LogisticRegression {
	return &LogisticRegression{Lr: lr, Epochs: epochs, BatchSize: batchSize, L2: 1e-4, RandomState: seed}
}

func (m *LogisticRegression) Fit(X [][]float64, y []int) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	m.W = make([]float64, p)
	m.B = 0
	opt := optim.NewSGD(m.Lr)
	opt.L2 = m.L2
	rnd := rand.New(rand.NewSource(m.RandomState))
	yf := stats.Ints(y)

	for ep := 0; ep < m.Epochs; ep++ {
		batches, _ := data.Batches(X, yf, m.BatchSize, rnd)
		for batch := range batches {
			z := linearScores(batch.X, m.W, m.B)
			for i := range z {
				z[i] = NeuralNetwork.Sigmoid(z[i])
			}
			_, dz := NeuralNetwork.BCE(batch.Y, z)
			opt.Step(m.W, linearGradient(batch.X, dz))
			m.B -= m.Lr * stats.Sum(dz)
		}
	}
	return nil
}

// DecisionFunction returns the logits X*W + B.
func (m *LogisticRegression) DecisionFunction(X [][]float64) ([]float64, error) {
	if m.W == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(m.W)); err != nil {
		return nil, err
	}
	return linearScores(X, m.W, m.B), nil
}

func (m *LogisticRegression) PredictProba(X [][]float64) ([]float64, error) {
	z, err := m.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	for i := range z {
		z[i] = NeuralNetwork.Sigmoid(z[i])
	}
	return z, nil
}

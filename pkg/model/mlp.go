package model

import (
	"math"
	"math/rand"

	"github.com/GeekyRiolu/personality-prediction/pkg/NeuralNetwork"
	"github.com/GeekyRiolu/personality-prediction/pkg/core"
	"github.com/GeekyRiolu/personality-prediction/pkg/data"
	"github.com/GeekyRiolu/personality-prediction/pkg/optim"
	"github.com/GeekyRiolu/personality-prediction/pkg/stats"
)

// MLP is a one-hidden-layer perceptron with ReLU units and a sigmoid output,
// trained on binary cross-entropy with Adam.
type MLP struct {
	Hidden      int
	Lr          float64
	Epochs      int
	BatchSize   int
	L2          float64
	RandomState int64

	w1 *core.Matrix // p x Hidden
	b1 []float64
	w2 []float64
	b2 []float64
}

func NewMLP(hidden int, lr float64, epochs, batchSize int, seed int64) *MLP {
	return &MLP{Hidden: hidden, Lr: lr, Epochs: epochs, BatchSize: batchSize, L2: 1e-4, RandomState: seed}
}

func (m *MLP) Fit(X [][]float64, y []int) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	h := max(m.Hidden, 1)
	rnd := rand.New(rand.NewSource(m.RandomState))

	// He initialisation for the ReLU layer
	scale := math.Sqrt(2 / float64(p))
	m.w1 = core.RandomMatrix(p, h, func() float64 { return rnd.NormFloat64() * scale })
	m.b1 = make([]float64, h)
	outScale := math.Sqrt(1 / float64(h))
	m.w2 = make([]float64, h)
	for j := range m.w2 {
		m.w2[j] = rnd.NormFloat64() * outScale
	}
	m.b2 = make([]float64, 1)

	optW1, optB1 := optim.NewAdam(m.Lr), optim.NewAdam(m.Lr)
	optW2, optB2 := optim.NewAdam(m.Lr), optim.NewAdam(m.Lr)
	optW1.L2, optW2.L2 = m.L2, m.L2

	yf := stats.Ints(y)
	for ep := 0; ep < m.Epochs; ep++ {
		batches, stop := data.Batches(X, yf, m.BatchSize, rnd)
		for batch := range batches {
			xb := core.FromRows(batch.X)
			pre, hid, out, err := m.forward(xb)
			if err != nil {
				close(stop)
				return err
			}
			_, dz := NeuralNetwork.BCE(batch.Y, out)

			// output layer
			gW2 := make([]float64, h)
			for i, d := range dz {
				for j, a := range hid.Row(i) {
					gW2[j] += a * d
				}
			}
			gB2 := []float64{stats.Sum(dz)}

			// back through the ReLU
			dHid := core.NewMatrix(hid.R, h)
			for i, d := range dz {
				row := dHid.Row(i)
				for j := range row {
					row[j] = d * m.w2[j] * NeuralNetwork.ReLUPrime(pre.At(i, j))
				}
			}
			gW1, err := core.MatMul(xb.Transpose(), dHid)
			if err != nil {
				close(stop)
				return err
			}

			optW1.Step(m.w1.Data, gW1.Data)
			optB1.Step(m.b1, dHid.ColSums())
			optW2.Step(m.w2, gW2)
			optB2.Step(m.b2, gB2)
		}
	}
	return nil
}

// forward returns the hidden pre-activations, the hidden activations and the
// output probabilities for a batch.
func (m *MLP) forward(xb *core.Matrix) (pre, hid *core.Matrix, out []float64, err error) {
	pre, err = core.MatMul(xb, m.w1)
	if err != nil {
		return nil, nil, nil, err
	}
	if err = pre.AddRowVector(m.b1); err != nil {
		return nil, nil, nil, err
	}
	hid = pre.Clone()
	hid.Apply(NeuralNetwork.ReLU)

	out = make([]float64, hid.R)
	for i := range out {
		z := m.b2[0]
		for j, a := range hid.Row(i) {
			z += a * m.w2[j]
		}
		out[i] = NeuralNetwork.Sigmoid(z)
	}
	return pre, hid, out, nil
}

func (m *MLP) PredictProba(X [][]float64) ([]float64, error) {
	if m.w1 == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, m.w1.R); err != nil {
		return nil, err
	}
	if len(X) == 0 {
		return []float64{}, nil
	}
	_, _, out, err := m.forward(core.FromRows(X))
	return out, err
}

package NeuralNetwork

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSigmoidStable(t *testing.T) {
	assert.InDelta(t, 0.5, Sigmoid(0), 1e-12)
	assert.False(t, math.IsNaN(Sigmoid(-1000)))
	assert.InDelta(t, 0, Sigmoid(-1000), 1e-12)
	assert.InDelta(t, 1, Sigmoid(1000), 1e-12)
	assert.InDelta(t, 2.0, Logit(Sigmoid(2.0)), 1e-9)
}

func TestBCEGradient(t *testing.T) {
	loss, grad := BCE([]float64{1, 0}, []float64{0.9, 0.2})
	want := -(math.Log(0.9) + math.Log(0.8)) / 2
	assert.InDelta(t, want, loss, 1e-12)
	assert.InDelta(t, -0.05, grad[0], 1e-12)
	assert.InDelta(t, 0.1, grad[1], 1e-12)
}

func TestHinge(t *testing.T) {
	loss, grad := Hinge([]float64{1, -1, 1}, []float64{2, 0.5, 0})
	assert.InDelta(t, (0+1.5+1)/3, loss, 1e-12)
	assert.Equal(t, 0.0, grad[0])
	assert.InDelta(t, 1.0/3, grad[1], 1e-12)
	assert.InDelta(t, -1.0/3, grad[2], 1e-12)
}

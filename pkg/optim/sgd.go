package optim

import "math"

// Optimizer updates weights in place from their gradients.
type Optimizer interface {
	Step(weights, grads []float64)
}

// SGD is plain stochastic gradient descent with optional L2 weight decay.
type SGD struct {
	LearningRate float64
	L2           float64
}

func NewSGD(lr float64) *SGD { return &SGD{LearningRate: lr} }

func (o *SGD) Step(weights, grads []float64) {
	for i := range weights {
		weights[i] -= o.LearningRate * (grads[i] + o.L2*weights[i])
	}
}

// Adam keeps first and second moment estimates per parameter. One Adam value
// must be used for exactly one parameter slice.
type Adam struct {
	LearningRate float64
	Beta1, Beta2 float64
	Epsilon      float64
	L2           float64

	m, v []float64
	t    int
}

func NewAdam(lr float64) *Adam {
	return &Adam{LearningRate: lr, Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-8}
}

func (o *Adam) Step(weights, grads []float64) {
	if len(o.m) != len(weights) {
		o.m = make([]float64, len(weights))
		o.v = make([]float64, len(weights))
		o.t = 0
	}
	o.t++
	c1 := 1 - math.Pow(o.Beta1, float64(o.t))
	c2 := 1 - math.Pow(o.Beta2, float64(o.t))
	for i := range weights {
		g := grads[i] + o.L2*weights[i]
		o.m[i] = o.Beta1*o.m[i] + (1-o.Beta1)*g
		o.v[i] = o.Beta2*o.v[i] + (1-o.Beta2)*g*g
		mHat := o.m[i] / c1
		vHat := o.v[i] / c2
		weights[i] -= o.LearningRate * mHat / (math.Sqrt(vHat) + o.Epsilon)
	}
}

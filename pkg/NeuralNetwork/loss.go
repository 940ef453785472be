package NeuralNetwork

import "math"

const probEps = 1e-12

// BCE returns binary cross-entropy over sigmoid outputs together with its
// gradient with respect to the pre-sigmoid logits.
func BCE(yTrue, yPred []float64) (float64, []float64) {
	n := len(yTrue)
	s := 0.0
	grad := make([]float64, n)

	for i := range n {
		p := math.Min(math.Max(yPred[i], probEps), 1-probEps)
		y := yTrue[i]
		s += -(y*math.Log(p) + (1-y)*math.Log(1-p))
		grad[i] = (p - y) / float64(n)
	}
	return s / float64(n), grad
}

// Hinge returns the mean hinge loss for labels in {-1,+1} and the per-sample
// subgradient with respect to the decision values.
func Hinge(ySigned, scores []float64) (float64, []float64) {
	n := len(ySigned)
	s := 0.0
	grad := make([]float64, n)
	for i := range n {
		margin := ySigned[i] * scores[i]
		if margin < 1 {
			s += 1 - margin
			grad[i] = -ySigned[i] / float64(n)
		}
	}
	return s / float64(n), grad
}

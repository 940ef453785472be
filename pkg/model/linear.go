package model

import "gonum.org/v1/gonum/mat"

// denseFrom copies row-major samples into a gonum matrix.
func denseFrom(X [][]float64) *mat.Dense {
	p := len(X[0])
	flat := make([]float64, 0, len(X)*p)
	for _, row := range X {
		flat = append(flat, row...)
	}
	return mat.NewDense(len(X), p, flat)
}

// linearScores returns X*w + b.
func linearScores(X [][]float64, w []float64, b float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	var z mat.VecDense
	z.MulVec(denseFrom(X), mat.NewVecDense(len(w), w))
	out := make([]float64, len(X))
	for i := range out {
		out[i] = z.AtVec(i) + b
	}
	return out
}

// linearGradient returns X^T d, the weight gradient of a linear model for
// per-sample loss derivatives d.
func linearGradient(X [][]float64, d []float64) []float64 {
	var g mat.VecDense
	g.MulVec(denseFrom(X).T(), mat.NewVecDense(len(d), d))
	return append([]float64(nil), g.RawVector().Data...)
}

package model

import "errors"

var (
	ErrEmpty     = errors.New("model: empty training set")
	ErrMismatch  = errors.New("model: X and y length mismatch")
	ErrWidth     = errors.New("model: inconsistent number of features")
	ErrNotFitted = errors.New("model: not fitted")
	ErrOneClass  = errors.New("model: training labels contain a single class")
)

// Classifier is a binary classifier producing P(y=1).
type Classifier interface {
	Fit(X [][]float64, y []int) error
	PredictProba(X [][]float64) ([]float64, error)
}

// Scorer produces uncalibrated decision values (larger means class 1).
type Scorer interface {
	Fit(X [][]float64, y []int) error
	DecisionFunction(X [][]float64) ([]float64, error)
}

// Importancer exposes per-feature importances summing to 1.
type Importancer interface {
	FeatureImportances() []float64
}

// checkXY validates a training set and returns its feature count.
func checkXY(X [][]float64, y []int) (int, error) {
	if len(X) == 0 {
		return 0, ErrEmpty
	}
	if len(X) != len(y) {
		return 0, ErrMismatch
	}
	p := len(X[0])
	for _, row := range X {
		if len(row) != p {
			return 0, ErrWidth
		}
	}
	return p, nil
}

func checkWidth(X [][]float64, p int) error {
	for _, row := range X {
		if len(row) != p {
			return ErrWidth
		}
	}
	return nil
}

func positives(y []int) int {
	n := 0
	for _, v := range y {
		if v == 1 {
			n++
		}
	}
	return n
}

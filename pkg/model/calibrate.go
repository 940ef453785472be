package model

import (
	"errors"
	"math"

	"github.com/GeekyRiolu/personality-prediction/pkg/NeuralNetwork"
	"github.com/GeekyRiolu/personality-prediction/pkg/loader"
)

// PlattCalibrated turns a Scorer into a Classifier by fitting a sigmoid
// P(y=1|s) = 1 / (1 + exp(-(A*s + B))) on out-of-fold decision values.
// The wrapped scorer is then refit on all rows.
type PlattCalibrated struct {
	New   func() Scorer
	Folds int
	Seed  int64

	A, B float64
	base Scorer
}

func NewPlattCalibrated(newScorer func() Scorer, folds int, seed int64) *PlattCalibrated {
	return &PlattCalibrated{New: newScorer, Folds: folds, Seed: seed}
}

func (c *PlattCalibrated) Fit(X [][]float64, y []int) error {
	if _, err := checkXY(X, y); err != nil {
		return err
	}
	pos := positives(y)
	if pos == 0 || pos == len(y) {
		return ErrOneClass
	}

	scores := make([]float64, len(y))
	folds, err := loader.StratifiedKFold(y, max(c.Folds, 2), c.Seed)
	switch {
	case errors.Is(err, loader.ErrSmallClass):
		// too few rows for internal folds: calibrate on in-sample scores
		s := c.New()
		if err := s.Fit(X, y); err != nil {
			return err
		}
		if scores, err = s.DecisionFunction(X); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		for _, f := range folds {
			s := c.New()
			if err := s.Fit(loader.Take(X, f.Train), loader.TakeInts(y, f.Train)); err != nil {
				return err
			}
			part, err := s.DecisionFunction(loader.Take(X, f.Valid))
			if err != nil {
				return err
			}
			for k, i := range f.Valid {
				scores[i] = part[k]
			}
		}
	}

	c.A, c.B = fitSigmoid(scores, y)
	c.base = c.New()
	return c.base.Fit(X, y)
}

func (c *PlattCalibrated) PredictProba(X [][]float64) ([]float64, error) {
	if c.base == nil {
		return nil, ErrNotFitted
	}
	s, err := c.base.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	for i := range s {
		s[i] = NeuralNetwork.Sigmoid(c.A*s[i] + c.B)
	}
	return s, nil
}

// fitSigmoid runs Newton iterations on the regularised targets from Platt
// (1999), using the Lin, Lin and Weng formulation.
func fitSigmoid(s []float64, y []int) (a, b float64) {
	nPos := float64(positives(y))
	nNeg := float64(len(y)) - nPos
	hi := (nPos + 1) / (nPos + 2)
	lo := 1 / (nNeg + 2)
	t := make([]float64, len(y))
	for i, v := range y {
		if v == 1 {
			t[i] = hi
		} else {
			t[i] = lo
		}
	}

	loss := func(a, b float64) float64 {
		l := 0.0
		for i := range s {
			f := a*s[i] + b
			// log(1+exp(f)) - t*f written to avoid overflow
			if f >= 0 {
				l += (1-t[i])*f + math.Log1p(math.Exp(-f))
			} else {
				l += -t[i]*f + math.Log1p(math.Exp(f))
			}
		}
		return l
	}

	a, b = 1, math.Log((nPos+1)/(nNeg+1))
	const sigma = 1e-12
	cur := loss(a, b)
	for iter := 0; iter < 100; iter++ {
		h11, h22, h21, g1, g2 := sigma, sigma, 0.0, 0.0, 0.0
		for i := range s {
			p := NeuralNetwork.Sigmoid(a*s[i] + b)
			d1 := p - t[i]
			d2 := p * (1 - p)
			h11 += s[i] * s[i] * d2
			h22 += d2
			h21 += s[i] * d2
			g1 += s[i] * d1
			g2 += d1
		}
		if math.Abs(g1) < 1e-5 && math.Abs(g2) < 1e-5 {
			break
		}
		det := h11*h22 - h21*h21
		if det == 0 {
			break
		}
		da := -(h22*g1 - h21*g2) / det
		db := -(-h21*g1 + h11*g2) / det
		gd := g1*da + g2*db

		step := 1.0
		for step >= 1e-10 {
			na, nb := a+step*da, b+step*db
			nl := loss(na, nb)
			if nl < cur+1e-4*step*gd {
				a, b, cur = na, nb, nl
				break
			}
			step /= 2
		}
		if step < 1e-10 {
			break
		}
	}
	return a, b
}

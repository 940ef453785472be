package dataprep

import (
	"errors"
	"math"

	"github.com/GeekyRiolu/personality-prediction/pkg/data"
	"github.com/GeekyRiolu/personality-prediction/pkg/stats"
)

var ErrImputerNotFitted = errors.New("dataprep: imputer not fitted")

// MedianImputer fills NaN cells with per-column medians learned from the
// training frame. A column that is entirely missing falls back to 0.
type MedianImputer struct {
	Columns []string
	Medians map[string]float64
}

func (m *MedianImputer) Fit(f *data.Frame, cols []string) error {
	m.Columns = append([]string(nil), cols...)
	m.Medians = make(map[string]float64, len(cols))
	for _, c := range cols {
		col, err := f.Column(c)
		if err != nil {
			return err
		}
		med, ok := stats.NanMedian(col)
		if !ok {
			med = 0
		}
		m.Medians[c] = med
	}
	return nil
}

// Transform returns a copy of f with missing values filled.
func (m *MedianImputer) Transform(f *data.Frame) (*data.Frame, error) {
	if m.Medians == nil {
		return nil, ErrImputerNotFitted
	}
	out := f.Clone()
	for _, c := range m.Columns {
		col, err := out.Column(c)
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			if math.IsNaN(v) {
				col[i] = m.Medians[c]
			}
		}
	}
	return out, nil
}

package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptive(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.Equal(t, 5.0, Mean(x))
	assert.InDelta(t, 4.0, Variance(x), 1e-12)
	assert.InDelta(t, 2.0, Std(x), 1e-12)
	assert.Equal(t, 4.5, Median(x))

	lo, hi := MinMax([]float64{math.NaN(), 3, -1})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 3.0, hi)
}

func TestNanMedian(t *testing.T) {
	m, ok := NanMedian([]float64{math.NaN(), 1, 3, math.NaN(), 2})
	assert.True(t, ok)
	assert.Equal(t, 2.0, m)

	_, ok = NanMedian([]float64{math.NaN()})
	assert.False(t, ok)
}

func TestCorrelation(t *testing.T) {
	assert.InDelta(t, 1, Correlation([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
	assert.InDelta(t, -1, Correlation([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	assert.Equal(t, 0.0, Correlation([]float64{1, 1, 1}, []float64{1, 2, 3}))
}

func TestArgsortDescStable(t *testing.T) {
	assert.Equal(t, []int{1, 0, 3, 2}, ArgsortDesc([]float64{0.5, 0.9, 0.1, 0.5}))
}

func TestStandardScaler(t *testing.T) {
	s := NewStandardScaler()
	_, err := s.Transform([][]float64{{1}})
	require.ErrorIs(t, err, ErrNotFitted)

	out, err := s.FitTransform([][]float64{{1, 5}, {3, 5}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{-1, 0}, {1, 0}}, out)

	_, err = s.Transform([][]float64{{1}})
	assert.ErrorIs(t, err, ErrWidth)
	assert.ErrorIs(t, s.Fit(nil), ErrEmpty)
}

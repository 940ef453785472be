package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatMul(t *testing.T) {
	a := FromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	b := FromRows([][]float64{{1, 0, 2}, {0, 1, 3}})

	c, err := MatMul(a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, c.R)
	assert.Equal(t, 3, c.C)
	assert.Equal(t, []float64{1, 2, 8, 3, 4, 18, 5, 6, 28}, c.Data)

	_, err = MatMul(a, a)
	assert.ErrorIs(t, err, ErrDimension)
}

func TestMatrixHelpers(t *testing.T) {
	m := FromRows([][]float64{{1, 2}, {3, 4}})
	m.Set(0, 1, 5)
	assert.Equal(t, 5.0, m.At(0, 1))

	require.NoError(t, m.AddRowVector([]float64{1, 1}))
	assert.Equal(t, []float64{2, 6, 4, 5}, m.Data)
	assert.Equal(t, []float64{6, 11}, m.ColSums())

	tr := m.Transpose()
	assert.Equal(t, []float64{2, 4, 6, 5}, tr.Data)

	cl := m.Clone()
	cl.Apply(func(v float64) float64 { return v * 2 })
	assert.Equal(t, 2.0, m.At(0, 0))
	assert.Equal(t, 4.0, cl.At(0, 0))

	assert.ErrorIs(t, m.AddRowVector([]float64{1}), ErrDimension)
}

package core

import (
	"errors"
	"runtime"
	"sync"
)

var ErrDimension = errors.New("core: dimension mismatch")

// Matrix is a dense row-major matrix.
type Matrix struct {
	R, C int
	Data []float64
}

// NewMatrix allocates a zero matrix.
func NewMatrix(r, c int) *Matrix {
	return &Matrix{R: r, C: c, Data: make([]float64, r*c)}
}

// FromRows copies a nested slice into a Matrix.
func FromRows(a [][]float64) *Matrix {
	r := len(a)
	if r == 0 {
		return &Matrix{}
	}
	c := len(a[0])
	m := NewMatrix(r, c)
	for i := 0; i < r; i++ {
		copy(m.Data[i*c:(i+1)*c], a[i])
	}
	return m
}

// RandomMatrix fills an r x c matrix using gen for every cell.
func RandomMatrix(r, c int, gen func() float64) *Matrix {
	m := NewMatrix(r, c)
	for i := range m.Data {
		m.Data[i] = gen()
	}
	return m
}

func (m *Matrix) At(i, j int) float64 { return m.Data[i*m.C+j] }

func (m *Matrix) Set(i, j int, v float64) { m.Data[i*m.C+j] = v }

// Row returns row i without copying.
func (m *Matrix) Row(i int) []float64 { return m.Data[i*m.C : (i+1)*m.C] }

// Clone deep copies the matrix.
func (m *Matrix) Clone() *Matrix {
	n := &Matrix{R: m.R, C: m.C, Data: make([]float64, len(m.Data))}
	copy(n.Data, m.Data)
	return n
}

func (m *Matrix) Transpose() *Matrix {
	t := NewMatrix(m.C, m.R)
	for i := 0; i < m.R; i++ {
		for j := 0; j < m.C; j++ {
			t.Data[j*t.C+i] = m.Data[i*m.C+j]
		}
	}
	return t
}

// MatMul computes A*B, splitting output rows across GOMAXPROCS workers.
func MatMul(A, B *Matrix) (*Matrix, error) {
	if A.C != B.R {
		return nil, ErrDimension
	}

	C := NewMatrix(A.R, B.C)
	workers := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	rowsPerWorker := (A.R + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, A.R)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(rs, re int) {
			defer wg.Done()
			for i := rs; i < re; i++ {
				for k := 0; k < A.C; k++ {
					ai := A.Data[i*A.C+k]
					if ai == 0 {
						continue
					}
					for j := 0; j < B.C; j++ {
						C.Data[i*C.C+j] += ai * B.Data[k*B.C+j]
					}
				}
			}
		}(start, end)
	}
	wg.Wait()
	return C, nil
}

// AddRowVector adds v to every row of m in place.
func (m *Matrix) AddRowVector(v []float64) error {
	if len(v) != m.C {
		return ErrDimension
	}
	for i := 0; i < m.R; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] += v[j]
		}
	}
	return nil
}

// ColSums returns the sum of every column.
func (m *Matrix) ColSums() []float64 {
	out := make([]float64, m.C)
	for i := 0; i < m.R; i++ {
		for j, v := range m.Row(i) {
			out[j] += v
		}
	}
	return out
}

// Apply applies f element-wise in place.
func (m *Matrix) Apply(f func(float64) float64) {
	for i := 0; i < len(m.Data); i++ {
		m.Data[i] = f(m.Data[i])
	}
}

package data

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrMissingColumn = errors.New("data: missing column")
	ErrNotNumeric    = errors.New("data: column is not numeric")
	ErrLength        = errors.New("data: column length mismatch")
)

// Frame is a small columnar table keyed by a row identifier. Numeric columns
// hold float64 with math.NaN() for missing cells; columns that did not parse
// as numbers are kept as raw strings.
type Frame struct {
	IDName string
	IDs    []string

	names   []string
	numeric map[string][]float64
	text    map[string][]string
}

// NewFrame creates an empty frame for the given identifiers.
func NewFrame(idName string, ids []string) *Frame {
	return &Frame{
		IDName:  idName,
		IDs:     append([]string(nil), ids...),
		numeric: map[string][]float64{},
		text:    map[string][]string{},
	}
}

func (f *Frame) Len() int { return len(f.IDs) }

// Names returns the column names in insertion order (identifier excluded).
func (f *Frame) Names() []string { return append([]string(nil), f.names...) }

func (f *Frame) Has(name string) bool {
	_, num := f.numeric[name]
	_, txt := f.text[name]
	return num || txt
}

// IsNumeric reports whether name is a numeric column.
func (f *Frame) IsNumeric(name string) bool {
	_, ok := f.numeric[name]
	return ok
}

// Column returns the numeric column without copying.
func (f *Frame) Column(name string) ([]float64, error) {
	if col, ok := f.numeric[name]; ok {
		return col, nil
	}
	if _, ok := f.text[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrNotNumeric, name)
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
}

// Text returns a string column. Numeric columns are not converted.
func (f *Frame) Text(name string) ([]string, error) {
	if col, ok := f.text[name]; ok {
		return col, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
}

// SetColumn stores a numeric column, replacing any column of the same name.
func (f *Frame) SetColumn(name string, vals []float64) error {
	if len(vals) != f.Len() {
		return fmt.Errorf("%w: %s has %d rows, frame has %d", ErrLength, name, len(vals), f.Len())
	}
	if !f.Has(name) {
		f.names = append(f.names, name)
	}
	delete(f.text, name)
	f.numeric[name] = vals
	return nil
}

// SetText stores a string column, replacing any column of the same name.
func (f *Frame) SetText(name string, vals []string) error {
	if len(vals) != f.Len() {
		return fmt.Errorf("%w: %s has %d rows, frame has %d", ErrLength, name, len(vals), f.Len())
	}
	if !f.Has(name) {
		f.names = append(f.names, name)
	}
	delete(f.numeric, name)
	f.text[name] = vals
	return nil
}

// Drop returns a copy of the frame without the named columns.
func (f *Frame) Drop(names ...string) *Frame {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := NewFrame(f.IDName, f.IDs)
	for _, n := range f.names {
		if skip[n] {
			continue
		}
		f.copyColumn(out, n)
	}
	return out
}

// Select returns a copy holding only cols, in that order.
func (f *Frame) Select(cols []string) (*Frame, error) {
	out := NewFrame(f.IDName, f.IDs)
	for _, n := range cols {
		if !f.Has(n) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, n)
		}
		f.copyColumn(out, n)
	}
	return out, nil
}

// Clone deep copies the frame.
func (f *Frame) Clone() *Frame {
	return f.Drop()
}

func (f *Frame) copyColumn(dst *Frame, name string) {
	if col, ok := f.numeric[name]; ok {
		_ = dst.SetColumn(name, append([]float64(nil), col...))
		return
	}
	_ = dst.SetText(name, append([]string(nil), f.text[name]...))
}

// Matrix returns the numeric columns cols as row-major samples.
func (f *Frame) Matrix(cols []string) ([][]float64, error) {
	colData := make([][]float64, len(cols))
	for j, n := range cols {
		c, err := f.Column(n)
		if err != nil {
			return nil, err
		}
		colData[j] = c
	}
	X := make([][]float64, f.Len())
	for i := range X {
		row := make([]float64, len(cols))
		for j := range cols {
			row[j] = colData[j][i]
		}
		X[i] = row
	}
	return X, nil
}

// NumericNames lists the numeric columns in order.
func (f *Frame) NumericNames() []string {
	out := make([]string, 0, len(f.names))
	for _, n := range f.names {
		if f.IsNumeric(n) {
			out = append(out, n)
		}
	}
	return out
}

// MissingCounts counts NaN cells per numeric column and empty cells per text column.
func (f *Frame) MissingCounts() map[string]int {
	out := map[string]int{}
	for _, n := range f.names {
		c := 0
		if col, ok := f.numeric[n]; ok {
			for _, v := range col {
				if math.IsNaN(v) {
					c++
				}
			}
		} else {
			for _, v := range f.text[n] {
				if v == "" {
					c++
				}
			}
		}
		out[n] = c
	}
	return out
}

package data

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrame(t *testing.T) {
	in := "\ufeffid,a,b,c\n1,1.5,Yes,\n2,NA,No,3\n3,2,,4\n"
	f, err := DecodeFrame(strings.NewReader(in), "id")
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, f.IDs)
	assert.Equal(t, []string{"a", "b", "c"}, f.Names())
	assert.True(t, f.IsNumeric("a"))
	assert.False(t, f.IsNumeric("b"))

	a, err := f.Column("a")
	require.NoError(t, err)
	assert.Equal(t, 1.5, a[0])
	assert.True(t, math.IsNaN(a[1]))

	b, err := f.Text("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"Yes", "No", ""}, b)

	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, f.MissingCounts())

	_, err = f.Column("b")
	assert.ErrorIs(t, err, ErrNotNumeric)
	_, err = f.Column("zzz")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestDecodeFrameMissingID(t *testing.T) {
	_, err := DecodeFrame(strings.NewReader("x,y\n1,2\n"), "id")
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = DecodeFrame(strings.NewReader(""), "id")
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestFrameSelectDropClone(t *testing.T) {
	f := NewFrame("id", []string{"a", "b"})
	require.NoError(t, f.SetColumn("x", []float64{1, 2}))
	require.NoError(t, f.SetColumn("y", []float64{3, 4}))
	require.ErrorIs(t, f.SetColumn("z", []float64{1}), ErrLength)

	sel, err := f.Select([]string{"y", "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "x"}, sel.Names())

	X, err := sel.Matrix(sel.Names())
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 1}, {4, 2}}, X)

	c := f.Clone()
	col, _ := c.Column("x")
	col[0] = 100
	orig, _ := f.Column("x")
	assert.Equal(t, 1.0, orig[0])

	assert.Equal(t, []string{"y"}, f.Drop("x").Names())

	_, err = f.Select([]string{"nope"})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestLabelEncoder(t *testing.T) {
	enc, err := FitLabelEncoder([]string{"Introvert", "Extrovert", "Introvert"})
	require.NoError(t, err)
	assert.Equal(t, [2]string{"Extrovert", "Introvert"}, enc.Classes)

	y, err := enc.Encode([]string{"Introvert", "Extrovert"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, y)
	names, err := enc.Decode(y)
	require.NoError(t, err)
	assert.Equal(t, []string{"Introvert", "Extrovert"}, names)

	_, err = enc.Decode([]int{0, 2})
	assert.ErrorIs(t, err, ErrUnknownLabel)

	_, err = enc.Encode([]string{"Ambivert"})
	assert.ErrorIs(t, err, ErrUnknownLabel)

	_, err = FitLabelEncoder([]string{"a"})
	assert.ErrorIs(t, err, ErrNotBinary)
}

func TestBatchesCoverEveryRowOnce(t *testing.T) {
	X := make([][]float64, 10)
	Y := make([]float64, 10)
	for i := range X {
		X[i] = []float64{float64(i)}
		Y[i] = float64(i)
	}
	batches, _ := Batches(X, Y, 3, rand.New(rand.NewSource(1)))

	seen := map[float64]int{}
	sizes := []int{}
	for b := range batches {
		sizes = append(sizes, len(b.Y))
		for i, y := range b.Y {
			assert.Equal(t, y, b.X[i][0])
			seen[y]++
		}
	}
	assert.Equal(t, []int{3, 3, 3, 1}, sizes)
	assert.Len(t, seen, 10)
}

func TestLoadDatasetFromSynthetic(t *testing.T) {
	dir := t.TempDir()
	paths, err := Synthetic(60, 20, 0.05, 7).Write(dir)
	require.NoError(t, err)

	ds, err := LoadDataset(paths, PersonalitySchema)
	require.NoError(t, err)

	assert.Equal(t, 60, ds.Train.Len())
	assert.Equal(t, 20, ds.Test.Len())
	assert.Len(t, ds.Target, 60)
	assert.False(t, ds.Train.Has("Personality"))
	assert.Equal(t, []string{"id", "Personality"}, ds.SubmissionHeader)
	for _, c := range PersonalitySchema.Features() {
		assert.True(t, ds.Train.Has(c), c)
		assert.True(t, ds.Test.Has(c), c)
	}

	alone, err := ds.Train.Column(TimeSpentAlone)
	require.NoError(t, err)
	for i, y := range ds.Target {
		if y == 1 {
			assert.GreaterOrEqual(t, alone[i], 6.0)
		} else {
			assert.LessOrEqual(t, alone[i], 4.0)
		}
	}
}

func TestLoadDatasetRowMismatch(t *testing.T) {
	dir := t.TempDir()
	set := Synthetic(20, 10, 0, 3)
	paths, err := set.Write(dir)
	require.NoError(t, err)

	short := NewFrame("id", set.Test.IDs[:5])
	require.NoError(t, short.SetText("Personality", make([]string, 5)))
	require.NoError(t, WriteCSV(paths.SampleSubmission, short))

	_, err = LoadDataset(paths, PersonalitySchema)
	assert.ErrorIs(t, err, ErrRowMismatch)
}

func TestLoadDatasetMissingFile(t *testing.T) {
	_, err := LoadDataset(Paths{Train: filepath.Join(t.TempDir(), "nope.csv")}, PersonalitySchema)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
